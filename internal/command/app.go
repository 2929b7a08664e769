// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/config"
	"github.com/sightassist/sightctl/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the sightctl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "sightctl",
		Usage: "SightAssist fleet control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "sightctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		DqCommandBuilder(app, meta, GlobalFlags),
		PqCommandBuilder(app, meta, GlobalFlags),
		VqCommandBuilder(app, meta, GlobalFlags),
		UqCommandBuilder(app, meta, GlobalFlags),
		HqCommandBuilder(app, meta, GlobalFlags),
		ImgCommandBuilder(app, meta, GlobalFlags),
		WatchCommandBuilder(app, meta, GlobalFlags),
		PurgeCommandBuilder(app, meta, GlobalFlags),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
