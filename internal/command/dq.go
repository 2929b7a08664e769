// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/api"
	"github.com/sightassist/sightctl/internal/detection"
	"github.com/sightassist/sightctl/internal/meta"
)

// DqCommandBuilder builds the detection query command. Repeated runs inside
// the freshness window are served from the response cache; --refresh forces
// a round-trip.
func DqCommandBuilder(cmd *cli.Command, m meta.Meta, globalFlags []cli.Flag) *cli.Command {
	runner := &QueryActionRunner[detection.Record]{
		CommandName: "dq",
		SchemaType:  reflect.TypeOf(detection.Record{}),
		DefaultAttrs: []string{
			"id",
			"object_detected",
			"danger_level",
			"distance_cm",
			"detection_confidence",
			"detected_at",
		},
		Parent: "detections",
		FetchFn: func(ctx context.Context, cmd *cli.Command, store *api.Store) ([]detection.Record, error) {
			records, err := store.RecentDetections(ctx, cmd.Int("limit"), cmd.Bool("refresh"))
			if err != nil {
				return nil, err
			}
			if cmd.Bool("normalize") {
				for i := range records {
					records[i].Confidence = detection.NormalizeConfidence(records[i].Confidence)
				}
			}
			return records, nil
		},
	}

	qcb := &QueryCommandBuilder{
		Name:      "dq",
		Usage:     "detection query",
		UsageText: `sightctl dq [options]`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "limit detection records returned",
				Value:   50,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("dq.limit", altsrc.StringSourcer(m.Config.Source)),
					yaml.YAML("limit", altsrc.StringSourcer(m.Config.Source)),
				),
			},
			&cli.BoolWithInverseFlag{
				Name:  "normalize",
				Usage: "normalize detection_confidence to the 0-1 range",
				Value: true,
			},
		},
		Action: runner.Run,
		Meta:   m,
	}

	return qcb.Build()
}
