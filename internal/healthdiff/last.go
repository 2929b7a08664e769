// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package healthdiff

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/sightassist/sightctl/internal/detection"
	"github.com/sightassist/sightctl/internal/imgstore"
)

// lastFile is the filename of the persisted snapshot under the cache base dir.
const lastFile = "health.json"

// lastPath resolves where the previous health snapshot lives on disk. The
// snapshot shares the imgstore base dir and its SIGHTCTL_CACHE kill switch.
func lastPath() (string, bool) {
	if !imgstore.Enabled() {
		return "", false
	}
	base, ok := imgstore.Dir()
	if !ok {
		return "", false
	}
	return filepath.Join(base, lastFile), true
}

// LoadLast returns the health snapshot persisted by a previous run, if any.
// An unreadable or corrupt file is treated as no snapshot.
func LoadLast() (detection.Health, bool) {
	p, ok := lastPath()
	if !ok {
		return detection.Health{}, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return detection.Health{}, false
	}
	var h detection.Health
	if err := json.Unmarshal(b, &h); err != nil {
		log.WithError(err).Debugf("ignoring unreadable health snapshot %s", p)
		return detection.Health{}, false
	}
	return h, true
}

// SaveLast persists h as the baseline for the next run's diff. Persistence is
// best effort; a failure is logged and the current run proceeds.
func SaveLast(h detection.Health) {
	p, ok := lastPath()
	if !ok {
		return
	}
	if err := saveLast(p, h); err != nil {
		log.WithError(err).Debug("failed to persist health snapshot")
	}
}

func saveLast(path string, h detection.Health) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	b, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
