// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sightassist/sightctl/internal/config"
)

func useTestConfig(t *testing.T) {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("testdata", "sightctl.yaml"))
	require.NoError(t, err)
	t.Setenv("SIGHTCTL_CFG", abs)
	config.Config = config.Type{}
	_, err = config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })
}

func TestMangleArguments_HelpShortCircuits(t *testing.T) {
	useTestConfig(t)
	got := mangleArguments([]string{"sightctl", "dq", "--limit", "5", "--help"})
	assert.Equal(t, []string{"sightctl", "dq", "--help"}, got)
}

func TestMangleArguments_DefaultSetExpands(t *testing.T) {
	useTestConfig(t)
	got := mangleArguments([]string{"sightctl", "dq", "--limit", "5"})
	assert.Equal(t, []string{"sightctl", "dq", "--output", "json", "--limit", "5"}, got)
}

func TestMangleArguments_ExplicitSetOverridesDefaults(t *testing.T) {
	useTestConfig(t)
	got := mangleArguments([]string{"sightctl", "dq", "@fast", "--limit", "5"})
	assert.Equal(t, []string{"sightctl", "dq", "--refresh", "--limit", "5"}, got)
}

func TestMangleArguments_NoConfiguredSetLeavesArgsAlone(t *testing.T) {
	useTestConfig(t)
	got := mangleArguments([]string{"sightctl", "vq", "--titles"})
	assert.Equal(t, []string{"sightctl", "vq", "--titles"}, got)
}
