// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package healthdiff renders what changed between two health snapshots.
package healthdiff

import (
	"encoding/json"
	"fmt"

	diff "github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/sightassist/sightctl/internal/detection"
)

// Render diffs the previous and current health snapshots and returns an
// ascii rendering of the changes. Returns ("", nil) when nothing changed.
func Render(prev, curr detection.Health) (string, error) {
	prevRaw, err := json.Marshal(prev)
	if err != nil {
		return "", fmt.Errorf("failed to marshal previous snapshot: %w", err)
	}
	currRaw, err := json.Marshal(curr)
	if err != nil {
		return "", fmt.Errorf("failed to marshal current snapshot: %w", err)
	}

	d, err := diff.New().Compare(prevRaw, currRaw)
	if err != nil {
		return "", fmt.Errorf("failed to diff snapshots: %w", err)
	}
	if !d.Modified() {
		return "", nil
	}

	var left map[string]interface{}
	if err := json.Unmarshal(prevRaw, &left); err != nil {
		return "", fmt.Errorf("failed to unmarshal previous snapshot: %w", err)
	}

	out, err := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
	}).Format(d)
	if err != nil {
		return "", fmt.Errorf("failed to format diff: %w", err)
	}
	return out, nil
}
