// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/meta"
)

func TestGetMeta(t *testing.T) {
	m := meta.Meta{Args: []string{"sightctl", "dq"}}
	cmd := &cli.Command{Metadata: map[string]any{"meta": m}}
	assert.Equal(t, m, GetMeta(cmd))

	// Missing or wrong-typed metadata yields the zero value instead of a panic.
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{Metadata: map[string]any{"meta": "nope"}}))
	assert.Equal(t, meta.Meta{}, GetMeta(nil))
}

func TestBuildAttrs_DefaultsPlusExtras(t *testing.T) {
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "attrs"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			al := BuildAttrs(c, "id", "object_detected")
			require.Len(t, al, 3)
			assert.Equal(t, "id", al[0].Key)
			assert.Equal(t, "danger_level", al[2].Key)
			assert.Equal(t, "u", al[2].TransformSpec)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--attrs", "danger_level::u"}))
}

func TestInitStore_RequiresAPI(t *testing.T) {
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api"},
			&cli.StringFlag{Name: "token"},
			&cli.IntFlag{Name: "fresh", Value: 30},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_, err := InitStore(c)
			assert.ErrorContains(t, err, "no backend configured")
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
}

func TestInitStore_BuildsClientFromFlags(t *testing.T) {
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api"},
			&cli.StringFlag{Name: "token"},
			&cli.IntFlag{Name: "fresh", Value: 30},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := InitStore(c)
			require.NoError(t, err)
			assert.Equal(t, "http://backend.local", store.Client.BaseURL())
			assert.Equal(t, float64(30), store.Detections.Window().Seconds())
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--api", "http://backend.local/"}))
}

func TestQueryCommandBuilder_WiresCommonFlags(t *testing.T) {
	qcb := &QueryCommandBuilder{
		Name:   "dq",
		Usage:  "detection query",
		Action: func(ctx context.Context, c *cli.Command) error { return nil },
		Meta:   meta.Meta{},
	}
	cmd := qcb.Build()

	names := map[string]bool{}
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"attrs", "filter", "fresh", "output", "refresh", "sort", "titles", "api", "token", "schema", "tldr"} {
		assert.True(t, names[want], "missing flag %s", want)
	}
	assert.Equal(t, "dq", cmd.Name)
}
