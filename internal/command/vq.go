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

// VqCommandBuilder builds the device query command.
func VqCommandBuilder(cmd *cli.Command, m meta.Meta, globalFlags []cli.Flag) *cli.Command {
	runner := &QueryActionRunner[detection.Device]{
		CommandName: "vq",
		SchemaType:  reflect.TypeOf(detection.Device{}),
		DefaultAttrs: []string{
			"id",
			"name",
			"status",
			"battery_pct",
			"firmware_version",
			"last_seen_at::a",
		},
		Parent: "devices",
		FetchFn: func(ctx context.Context, cmd *cli.Command, store *api.Store) ([]detection.Device, error) {
			return store.AllDevices(ctx, cmd.Bool("refresh"))
		},
	}

	qcb := &QueryCommandBuilder{
		Name:      "vq",
		Usage:     "device query",
		UsageText: `sightctl vq [options]`,
		Action:    runner.Run,
		Meta:      m,
	}

	return qcb.Build()
}
