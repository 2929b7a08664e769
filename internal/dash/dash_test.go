// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package dash

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sightassist/sightctl/internal/detection"
)

func TestNextDelay_JittersAroundBaseInterval(t *testing.T) {
	m := New(nil, 15, 10*time.Second)

	for i := 0; i < 50; i++ {
		d := m.nextDelay()
		assert.GreaterOrEqual(t, d, 8*time.Second)
		assert.LessOrEqual(t, d, 12*time.Second)
	}
}

func TestNextDelay_BacksOffOnFailures(t *testing.T) {
	m := New(nil, 15, 10*time.Second)
	m.failures = 3

	// 10s doubled three times is 80s, +/- 20% jitter.
	for i := 0; i < 50; i++ {
		d := m.nextDelay()
		assert.GreaterOrEqual(t, d, 64*time.Second)
		assert.LessOrEqual(t, d, 96*time.Second)
	}
}

func TestNextDelay_CapsAtMaxBackoff(t *testing.T) {
	m := New(nil, 15, 10*time.Second)
	m.failures = 20

	for i := 0; i < 50; i++ {
		d := m.nextDelay()
		assert.LessOrEqual(t, d, time.Duration(float64(maxBackoff)*(1+jitterPct)))
	}
}

func TestUpdate_ErrorKeepsLastGoodData(t *testing.T) {
	m := New(nil, 15, 10*time.Second)

	records := []detection.Record{{ID: 101, Object: "car"}}
	next, _ := m.Update(dataMsg{records: records, health: detection.Health{Status: "ok"}})
	m = next.(Model)
	assert.Equal(t, records, m.records)
	assert.True(t, m.haveHealth)
	assert.Equal(t, 0, m.failures)

	next, _ = m.Update(dataMsg{err: errors.New("backend down")})
	m = next.(Model)
	assert.Equal(t, records, m.records, "stale data survives a failed poll")
	assert.Error(t, m.lastErr)
	assert.Equal(t, 1, m.failures)

	// Recovery resets the backoff.
	next, _ = m.Update(dataMsg{records: records, health: detection.Health{Status: "ok"}})
	m = next.(Model)
	assert.NoError(t, m.lastErr)
	assert.Equal(t, 0, m.failures)
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := New(nil, 15, 10*time.Second)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_ShowsErrorBannerWithStaleData(t *testing.T) {
	m := New(nil, 15, 10*time.Second)

	next, _ := m.Update(dataMsg{
		records: []detection.Record{{ID: 101, Object: "car", DangerLevel: "High", DistanceCM: 220, Confidence: 0.88, DetectedAt: "2026-03-01T12:00:00Z"}},
		health:  detection.Health{Status: "ok", CameraStatus: "streaming"},
	})
	m = next.(Model)
	next, _ = m.Update(dataMsg{err: errors.New("dial tcp: connection refused")})
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "backend error")
	assert.Contains(t, view, "car")
	assert.Contains(t, view, "streaming")
}
