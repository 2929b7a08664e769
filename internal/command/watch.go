// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"time"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/dash"
	"github.com/sightassist/sightctl/internal/meta"
)

// WatchCommandAction runs the live terminal dashboard.
func WatchCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "watch") {
		return nil
	}

	store, err := InitStore(cmd)
	if err != nil {
		return err
	}

	interval := time.Duration(cmd.Int("interval")) * time.Second
	return dash.Run(store, cmd.Int("limit"), interval)
}

// WatchCommandBuilder builds the live dashboard command.
func WatchCommandBuilder(cmd *cli.Command, m meta.Meta, globalFlags []cli.Flag) *cli.Command {
	qcb := &QueryCommandBuilder{
		Name:      "watch",
		Usage:     "live terminal dashboard",
		UsageText: `sightctl watch [options]`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "detection rows to display",
				Value:   15,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("watch.limit", altsrc.StringSourcer(m.Config.Source)),
				),
			},
			&cli.IntFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "base refresh interval in seconds",
				Value:   5,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("watch.interval", altsrc.StringSourcer(m.Config.Source)),
				),
			},
		},
		Action: WatchCommandAction,
		Meta:   m,
	}

	return qcb.Build()
}
