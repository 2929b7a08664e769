// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/api"
	"github.com/sightassist/sightctl/internal/detection"
	"github.com/sightassist/sightctl/internal/meta"
)

// UqCommandBuilder builds the user query command (admin surface, read-only).
func UqCommandBuilder(cmd *cli.Command, m meta.Meta, globalFlags []cli.Flag) *cli.Command {
	runner := &QueryActionRunner[detection.User]{
		CommandName: "uq",
		SchemaType:  reflect.TypeOf(detection.User{}),
		DefaultAttrs: []string{
			"id",
			"name",
			"email",
			"role",
			"created_at",
		},
		Parent: "users",
		FetchFn: func(ctx context.Context, cmd *cli.Command, store *api.Store) ([]detection.User, error) {
			return store.AllUsers(ctx, cmd.Bool("refresh"))
		},
	}

	qcb := &QueryCommandBuilder{
		Name:      "uq",
		Usage:     "user query",
		UsageText: `sightctl uq [options]`,
		Action:    runner.Run,
		Meta:      m,
	}

	return qcb.Build()
}
