// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package detection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeConfidence_PercentagesBecomeFractions(t *testing.T) {
	assert.InDelta(t, 0.875, NormalizeConfidence(87.5), 1e-9)
	assert.InDelta(t, 1.0, NormalizeConfidence(100), 1e-9)
	assert.InDelta(t, 0.0101, NormalizeConfidence(1.01), 1e-9)
}

func TestNormalizeConfidence_FractionsPassThrough(t *testing.T) {
	assert.InDelta(t, 0.42, NormalizeConfidence(0.42), 1e-9)
	assert.InDelta(t, 0.0, NormalizeConfidence(0), 1e-9)
}

func TestNormalizeConfidence_ExactlyOneIsAFraction(t *testing.T) {
	// 1.0 is ambiguous upstream (100% or 1%). It passes through unscaled.
	assert.InDelta(t, 1.0, NormalizeConfidence(1.0), 1e-9)
}

func TestParseDangerLevel(t *testing.T) {
	assert.Equal(t, Critical, ParseDangerLevel("critical"))
	assert.Equal(t, Critical, ParseDangerLevel("CRITICAL"))
	assert.Equal(t, High, ParseDangerLevel(" High "))
	assert.Equal(t, Medium, ParseDangerLevel("medium"))
	assert.Equal(t, Low, ParseDangerLevel("low"))
	// Unknown values pass through so they still render.
	assert.Equal(t, DangerLevel("weird"), ParseDangerLevel("weird"))
}

func TestDangerLevel_RankOrdersMostUrgentFirst(t *testing.T) {
	assert.Less(t, Critical.Rank(), High.Rank())
	assert.Less(t, High.Rank(), Medium.Rank())
	assert.Less(t, Medium.Rank(), Low.Rank())
	assert.Less(t, Low.Rank(), DangerLevel("weird").Rank())
}

func TestRecord_When(t *testing.T) {
	r := Record{DetectedAt: "2026-03-01T12:00:00Z"}
	ts, err := r.When()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), ts)

	_, err = Record{DetectedAt: "not-a-time"}.When()
	assert.Error(t, err)
}

func TestRecord_Danger(t *testing.T) {
	assert.Equal(t, High, Record{DangerLevel: "high"}.Danger())
}
