// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package detection defines the wire types served by the device backend:
// detection records, ML predictions, devices, users, and the health snapshot.
package detection

import (
	"strings"
	"time"

	"github.com/apex/log"
)

// DangerLevel classifies how urgent a detected obstacle is.
type DangerLevel string

const (
	Critical DangerLevel = "Critical"
	High     DangerLevel = "High"
	Medium   DangerLevel = "Medium"
	Low      DangerLevel = "Low"
)

// ParseDangerLevel normalizes a backend danger_level string. Unknown values
// are passed through untouched so they still render; they just rank last.
func ParseDangerLevel(s string) DangerLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return Critical
	case "high":
		return High
	case "medium":
		return Medium
	case "low":
		return Low
	}
	return DangerLevel(s)
}

// Rank orders danger levels for sorting, most urgent first.
func (d DangerLevel) Rank() int {
	switch d {
	case Critical:
		return 0
	case High:
		return 1
	case Medium:
		return 2
	case Low:
		return 3
	}
	return 4
}

// Record is one sensor/camera event describing a detected obstacle.
type Record struct {
	ID          int64   `json:"id"`
	Object      string  `json:"object_detected"`
	DangerLevel string  `json:"danger_level"`
	DistanceCM  float64 `json:"distance_cm"`
	Confidence  float64 `json:"detection_confidence"`
	Source      string  `json:"detection_source"`
	DetectedAt  string  `json:"detected_at"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// When parses the detected_at timestamp.
func (r Record) When() (time.Time, error) {
	return time.Parse(time.RFC3339, r.DetectedAt)
}

// Danger returns the parsed danger level of the record.
func (r Record) Danger() DangerLevel {
	return ParseDangerLevel(r.DangerLevel)
}

// NormalizeConfidence maps a backend confidence value to the fractional 0-1
// range. The backend emits both fractions and 0-100 percentages; anything
// strictly greater than 1 is treated as a percentage. Exactly 1.0 cannot be
// told apart from 1% upstream, so it is passed through as a fraction and the
// ambiguity is logged rather than guessed away.
func NormalizeConfidence(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	if v == 1 {
		log.Debugf("confidence exactly 1.0 is ambiguous (100%% or 1%%); assuming fraction")
	}
	return v
}

// Prediction is one row of the ML analytics surface (anomaly, danger,
// maintenance, activity).
type Prediction struct {
	ID        int64   `json:"id"`
	Kind      string  `json:"kind"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	DeviceID  string  `json:"device_id"`
	WindowEnd string  `json:"window_end"`
}

// Device is a registered wearable unit.
type Device struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Firmware   string  `json:"firmware_version"`
	BatteryPct float64 `json:"battery_pct"`
	LastSeenAt string  `json:"last_seen_at"`
}

// User is an account on the admin surface. Read-only here.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Health is the backend system-health snapshot.
type Health struct {
	Status        string            `json:"status"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	CPUPct        float64           `json:"cpu_pct"`
	MemPct        float64           `json:"mem_pct"`
	DiskPct       float64           `json:"disk_pct"`
	CameraStatus  string            `json:"camera_status"`
	Sensors       map[string]string `json:"sensors,omitempty"`
	CheckedAt     string            `json:"checked_at"`
}
