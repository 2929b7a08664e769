// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/imgstore"
	"github.com/sightassist/sightctl/internal/meta"
)

// PurgeCommandAction removes snapshot cache entries older than --hours.
// With --all it drops everything regardless of age.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "purge") {
		return nil
	}

	var removed int
	var bytes int64
	var err error
	if cmd.Bool("all") {
		removed, bytes, err = imgstore.RemoveAll()
	} else {
		removed, bytes, err = imgstore.Purge(cmd.Int("hours"))
	}
	if err != nil {
		return err
	}

	base, _ := imgstore.Dir()
	fmt.Printf("purged %d snapshots (%s) from %s\n",
		removed, humanize.Bytes(uint64(bytes)), base)
	return nil
}

// PurgeCommandBuilder builds the snapshot cache purge command.
func PurgeCommandBuilder(cmd *cli.Command, m meta.Meta, globalFlags []cli.Flag) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "purge the snapshot disk cache",
		UsageText: `sightctl purge [options]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			tldrFlag,
			&cli.IntFlag{
				Name:  "hours",
				Usage: "remove snapshots older than this many hours",
				Value: 168,
				Sources: cli.NewValueSourceChain(
					yaml.YAML("purge.hours", altsrc.StringSourcer(m.Config.Source)),
					yaml.YAML("cache.clean", altsrc.StringSourcer(m.Config.Source)),
				),
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "remove all snapshots regardless of age",
				HideDefault: true,
			},
		},
		Action: PurgeCommandAction,
	}
}
