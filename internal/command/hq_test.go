// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/meta"
)

// runHqCapture runs a standalone hq command and returns what it printed.
// Each call builds a fresh app, same as a real invocation of the binary.
func runHqCapture(t *testing.T, args []string) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	app := &cli.Command{
		Name: "sightctl",
		Commands: []*cli.Command{
			HqCommandBuilder(nil, meta.Meta{Args: args}, GlobalFlags),
		},
	}
	runErr := app.Run(context.Background(), args)

	require.NoError(t, w.Close())
	os.Stdout = old
	out, readErr := io.ReadAll(r)
	require.NoError(t, readErr)
	require.NoError(t, runErr)
	return string(out)
}

func newHealthServer(t *testing.T, health *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"health":` + *health + `}`))
	}))
}

func TestHqDiff_BaselineSurvivesAcrossInvocations(t *testing.T) {
	t.Setenv("SIGHTCTL_CACHE_DIR", t.TempDir())
	t.Setenv("SIGHTCTL_CACHE", "1")

	health := `{"status":"ok","uptime_seconds":86400,"cpu_pct":10,"mem_pct":40,"disk_pct":60,"camera_status":"streaming","checked_at":"2026-03-01T12:00:00Z"}`
	srv := newHealthServer(t, &health)
	defer srv.Close()

	out := runHqCapture(t, []string{"sightctl", "hq", "--diff", "--api", srv.URL})
	assert.Contains(t, out, "no previous snapshot to diff against")

	health = `{"status":"degraded","uptime_seconds":86700,"cpu_pct":95,"mem_pct":40,"disk_pct":60,"camera_status":"streaming","checked_at":"2026-03-01T12:05:00Z"}`
	out = runHqCapture(t, []string{"sightctl", "hq", "--diff", "--api", srv.URL})
	assert.Contains(t, out, "degraded")
	assert.Contains(t, out, "95")
}

func TestHqDiff_UnchangedHealthReportsNoChanges(t *testing.T) {
	t.Setenv("SIGHTCTL_CACHE_DIR", t.TempDir())
	t.Setenv("SIGHTCTL_CACHE", "1")

	health := `{"status":"ok","uptime_seconds":86400,"cpu_pct":10,"mem_pct":40,"disk_pct":60,"camera_status":"streaming","checked_at":"2026-03-01T12:00:00Z"}`
	srv := newHealthServer(t, &health)
	defer srv.Close()

	runHqCapture(t, []string{"sightctl", "hq", "--diff", "--api", srv.URL})
	out := runHqCapture(t, []string{"sightctl", "hq", "--diff", "--api", srv.URL})
	assert.Contains(t, out, "no changes")
}
