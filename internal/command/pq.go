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

// PqCommandBuilder builds the prediction query command. Each analytics kind
// (anomaly, danger, maintenance, activity) is cached under its own key.
func PqCommandBuilder(cmd *cli.Command, m meta.Meta, globalFlags []cli.Flag) *cli.Command {
	runner := &QueryActionRunner[detection.Prediction]{
		CommandName: "pq",
		SchemaType:  reflect.TypeOf(detection.Prediction{}),
		DefaultAttrs: []string{
			"id",
			"kind",
			"label",
			"score",
			"device_id",
			"window_end",
		},
		Parent: "predictions",
		FetchFn: func(ctx context.Context, cmd *cli.Command, store *api.Store) ([]detection.Prediction, error) {
			return store.PredictionsFor(ctx, cmd.String("kind"), cmd.Bool("refresh"))
		},
	}

	qcb := &QueryCommandBuilder{
		Name:      "pq",
		Usage:     "prediction query",
		UsageText: `sightctl pq [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "analytics surface: anomaly, danger, maintenance, or activity",
				Value:   "anomaly",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("pq.kind", altsrc.StringSourcer(m.Config.Source)),
				),
				Validator: func(value string) error {
					return FlagValidators(value, KindValidator)
				},
			},
		},
		Action: runner.Run,
		Meta:   m,
	}

	return qcb.Build()
}
