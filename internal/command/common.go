// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/api"
	"github.com/sightassist/sightctl/internal/attrs"
	"github.com/sightassist/sightctl/internal/config"
	"github.com/sightassist/sightctl/internal/meta"
	"github.com/sightassist/sightctl/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr sightctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "sightctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the attribute schema for the provided type
// when --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitEnvelope re-wraps typed results in their wire envelope and passes them
// to the common output routine, so --attrs/--filter/--sort address the same
// keys the backend serves.
func EmitEnvelope(parent string, results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := json.NewEncoder(&raw).Encode(map[string]any{parent: results}); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	output.SliceDiceSpit(raw, al, cmd, parent, os.Stdout)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// InitStore resolves backend connection flags and constructs the cached
// store every query runs through. The freshness window comes from --fresh
// (seconds), retry count from the api.retries config key.
func InitStore(cmd *cli.Command) (*api.Store, error) {
	base := cmd.String("api")
	if base == "" {
		return nil, fmt.Errorf("no backend configured: set --api, SIGHTCTL_API, or api.url in sightctl.yaml")
	}

	retries, _ := config.GetInt("api.retries", 2)
	client := api.New(base, cmd.String("token"), api.WithRetryMax(retries))
	log.Debugf("client: %v", client.BaseURL())

	window := time.Duration(cmd.Int("fresh")) * time.Second
	return api.NewStore(client, window), nil
}

// QueryCommandBuilder constructs a cli.Command for query subcommands
// (dq, pq, vq, uq, hq) using a consistent pattern. It accepts the command
// name, usage text, optional UsageText, custom flags, the action handler,
// and meta. The builder automatically wires metadata, adds tldr/schema and
// backend connection flags, applies global flags, and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, append([]cli.Flag{
			tldrFlag,
			schemaFlag,
			NewAPIFlag(qcb.Name),
			NewTokenFlag(qcb.Name),
		}, NewGlobalFlags(qcb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] encapsulates the common query action pattern for the
// query subcommands: GetMeta, short-circuit checks, BuildAttrs, store
// construction, fetching (FetchFn), and envelope emission.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	Parent       string
	FetchFn      func(context.Context, *cli.Command, *api.Store) ([]T, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	al := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", al)

	store, err := InitStore(cmd)
	if err != nil {
		return err
	}

	results, err := qar.FetchFn(ctx, cmd, store)
	if err != nil {
		return err
	}

	return EmitEnvelope(qar.Parent, results, al, cmd)
}
