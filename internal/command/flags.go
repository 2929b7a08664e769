// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/config"
)

func init() {
	cfg, _ = config.Load()
	GlobalFlags = NewGlobalFlags("global")
}

var (
	cfg config.Type

	// GlobalFlags is the un-namespaced flag set, handed to command builders.
	GlobalFlags []cli.Flag

	schemaFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// NewGlobalFlags builds the flag set common to all query commands. params[0]
// is the command name, used to namespace config file lookups.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.IntFlag{
			Name:    "fresh",
			Usage:   "freshness window in seconds for cached responses",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"fresh", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("cache.fresh", altsrc.StringSourcer(cfg.Source)),
			),
			Value: 30,
		},
		&cli.BoolFlag{
			Name:        "local",
			Usage:       "render timestamps in the local timezone",
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolFlag{
			Name:        "refresh",
			Aliases:     []string{"r"},
			Usage:       "bypass the response cache and re-query the backend",
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewAPIFlag constructs the "api" flag (backend base URL), namespaced to the
// command's config section with a global fallback.
func NewAPIFlag(ns string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "api",
		Usage: "base URL of the device backend",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SIGHTCTL_API"),
		),
	}
	return NameSpacedValueChainFlagFromConfigFile(ns, "api.url", flag)
}

// NewTokenFlag constructs the "token" flag (bearer token for the backend).
func NewTokenFlag(ns string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "token",
		Usage: "bearer token for the backend",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SIGHTCTL_TOKEN"),
		),
	}
	return NameSpacedValueChainFlagFromConfigFile(ns, "api.token", flag)
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config
// file sources to the given flag's Sources chain. key is the global dotted
// config key; the namespaced form is ns.key.
func NameSpacedValueChainFlagFromConfigFile(ns string, key string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+key, altsrc.StringSourcer(cfg.Source))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(key, altsrc.StringSourcer(cfg.Source))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas checks if the given executable exists on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
