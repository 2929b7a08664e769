// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package imgstore is the on-disk cache for detection snapshot images.
// Keys are the image URLs; filenames are the md5 of the key.
package imgstore

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
)

// Entry represents a cached snapshot on disk.
// Key is the clear-text key; EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Dir resolves the base cache directory.
// Precedence:
//  1. SIGHTCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/sightctl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("SIGHTCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "sightctl"), true
	}
	return "", false
}

// Enabled returns true unless SIGHTCTL_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("SIGHTCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// Read attempts to read a cached snapshot. Images are stored per device so
// the tree stays browsable: <base>/<device>/<md5-of-key>.
func Read(device, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	base, ok := Dir()
	if !ok {
		return nil, false
	}
	encoded := encodeKey(clearKey)
	p := filepath.Join(base, device, encoded)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return &Entry{
		Key:        clearKey,
		EncodedKey: encoded,
		Path:       p,
		Data:       b,
	}, true
}

// Write stores image data under the device subdirectory. Creates directories
// as needed.
func Write(device, clearKey string, data []byte) (string, error) {
	if !Enabled() {
		return "", nil // treat as disabled.
	}
	base, ok := Dir()
	if !ok {
		return "", nil // treat as disabled.
	}
	dir := filepath.Join(base, device)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(clearKey))
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to write to cache: %w", err)
	}
	return p, nil
}

// Purge removes files older than the provided number of hours. It reports
// how many files and bytes were removed. If hours <= 0 or the cache dir
// cannot be resolved, it is a no-op.
func Purge(hours int) (removed int, bytes int64, err error) {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, 0, nil
	}
	base, ok := Dir()
	if !ok {
		return 0, 0, nil
	}
	maxAge := time.Duration(hours) * time.Hour
	walkErr := filepath.Walk(base, func(path string, info os.FileInfo, _ error) error {
		if info == nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			size := info.Size()
			if err := os.Remove(path); err == nil {
				removed++
				bytes += size
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	})
	if walkErr != nil {
		if os.IsNotExist(walkErr) {
			return removed, bytes, nil
		}
		return removed, bytes, fmt.Errorf("failed to purge cache: %w", walkErr)
	}
	return removed, bytes, nil
}

// RemoveAll deletes every cached snapshot regardless of age and reports the
// count and bytes reclaimed.
func RemoveAll() (removed int, bytes int64, err error) {
	base, ok := Dir()
	if !ok {
		return 0, 0, nil
	}
	walkErr := filepath.Walk(base, func(path string, info os.FileInfo, _ error) error {
		if info == nil || info.IsDir() {
			return nil
		}
		size := info.Size()
		if err := os.Remove(path); err == nil {
			removed++
			bytes += size
		} else {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
		}
		return nil
	})
	if walkErr != nil {
		if os.IsNotExist(walkErr) {
			return removed, bytes, nil
		}
		return removed, bytes, fmt.Errorf("failed to purge cache: %w", walkErr)
	}
	return removed, bytes, nil
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
