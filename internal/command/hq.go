// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/detection"
	"github.com/sightassist/sightctl/internal/healthdiff"
	"github.com/sightassist/sightctl/internal/meta"
)

// HqCommandAction fetches the system health snapshot. With --diff it also
// renders what changed against the previously cached snapshot, which makes
// re-running hq during an incident show movement instead of a wall of
// numbers.
func HqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "hq") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(detection.Health{})) {
		return nil
	}

	al := BuildAttrs(cmd,
		"status",
		"uptime_seconds",
		"cpu_pct",
		"mem_pct",
		"disk_pct",
		"camera_status",
		"checked_at",
	)
	log.Debugf("attrs: %v", al)

	store, err := InitStore(cmd)
	if err != nil {
		return err
	}

	// Grab the last known snapshot before the fetch replaces it, so --diff
	// has something to compare against. The store is built per invocation, so
	// the in-memory slot only helps within one process; the persisted copy is
	// what carries the baseline across runs.
	prev, _, hadPrev := store.Health.Peek("health")
	if !hadPrev {
		prev, hadPrev = healthdiff.LoadLast()
	}

	curr, err := store.SystemHealth(ctx, cmd.Bool("refresh"))
	if err != nil {
		return err
	}
	healthdiff.SaveLast(curr)

	if cmd.Bool("diff") {
		if !hadPrev {
			fmt.Println("no previous snapshot to diff against")
			return nil
		}
		rendered, err := healthdiff.Render(prev, curr)
		if err != nil {
			return err
		}
		if rendered == "" {
			fmt.Println("no changes")
			return nil
		}
		fmt.Print(rendered)
		return nil
	}

	return EmitEnvelope("health", []detection.Health{curr}, al, cmd)
}

// HqCommandBuilder builds the health query command.
func HqCommandBuilder(cmd *cli.Command, m meta.Meta, globalFlags []cli.Flag) *cli.Command {
	qcb := &QueryCommandBuilder{
		Name:      "hq",
		Usage:     "system health query",
		UsageText: `sightctl hq [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "diff",
				Usage:       "show changes against the previously cached snapshot",
				HideDefault: true,
			},
		},
		Action: HqCommandAction,
		Meta:   m,
	}

	return qcb.Build()
}
