// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sightassist/sightctl/internal/detection"
	"github.com/sightassist/sightctl/internal/respcache"
)

// PredictionKinds are the analytics surfaces the backend serves.
var PredictionKinds = []string{"anomaly", "danger", "maintenance", "activity"}

// Store layers the timed response cache over the Client. One Store is
// constructed at application start and shared by every consumer of the same
// backend, which is the whole point: overlapping reads from different views
// inside the freshness window cost one request, not N.
type Store struct {
	Client *Client

	Detections  *respcache.Cache[[]detection.Record]
	Predictions *respcache.Cache[[]detection.Prediction]
	Devices     *respcache.Cache[[]detection.Device]
	Users       *respcache.Cache[[]detection.User]
	Health      *respcache.Cache[detection.Health]
}

// NewStore builds a Store whose cached entries stay fresh for window.
func NewStore(client *Client, window time.Duration) *Store {
	return &Store{
		Client:      client,
		Detections:  respcache.New[[]detection.Record](window),
		Predictions: respcache.New[[]detection.Prediction](window),
		Devices:     respcache.New[[]detection.Device](window),
		Users:       respcache.New[[]detection.User](window),
		Health:      respcache.New[detection.Health](window),
	}
}

// DetectionsKey is the resource key for a recent-detections read. Keys carry
// the query parameters so differently-shaped requests never share a slot.
func DetectionsKey(limit int) string {
	return fmt.Sprintf("detections/recent?limit=%d", limit)
}

// RecentDetections returns the latest detection log, cached. An empty 2xx
// payload is a valid (if unhelpful) entry, not an error.
func (s *Store) RecentDetections(ctx context.Context, limit int, force bool) ([]detection.Record, error) {
	return s.Detections.Get(ctx, DetectionsKey(limit), force, func(ctx context.Context) ([]detection.Record, error) {
		raw, err := s.Client.GetJSON(ctx, "/detections/recent", url.Values{"limit": {strconv.Itoa(limit)}})
		if err != nil {
			return nil, err
		}
		var env struct {
			Detections []detection.Record `json:"detections"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode detections: %w", err)
		}
		return env.Detections, nil
	})
}

// PredictionsFor returns one analytics surface, cached per kind.
func (s *Store) PredictionsFor(ctx context.Context, kind string, force bool) ([]detection.Prediction, error) {
	return s.Predictions.Get(ctx, "predictions/"+kind, force, func(ctx context.Context) ([]detection.Prediction, error) {
		raw, err := s.Client.GetJSON(ctx, "/predictions/"+kind, nil)
		if err != nil {
			return nil, err
		}
		var env struct {
			Predictions []detection.Prediction `json:"predictions"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode predictions: %w", err)
		}
		return env.Predictions, nil
	})
}

// AllDevices returns the device fleet, cached.
func (s *Store) AllDevices(ctx context.Context, force bool) ([]detection.Device, error) {
	return s.Devices.Get(ctx, "devices", force, func(ctx context.Context) ([]detection.Device, error) {
		raw, err := s.Client.GetJSON(ctx, "/devices", nil)
		if err != nil {
			return nil, err
		}
		var env struct {
			Devices []detection.Device `json:"devices"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode devices: %w", err)
		}
		return env.Devices, nil
	})
}

// AllUsers returns the admin user list, cached.
func (s *Store) AllUsers(ctx context.Context, force bool) ([]detection.User, error) {
	return s.Users.Get(ctx, "users", force, func(ctx context.Context) ([]detection.User, error) {
		raw, err := s.Client.GetJSON(ctx, "/users", nil)
		if err != nil {
			return nil, err
		}
		var env struct {
			Users []detection.User `json:"users"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to decode users: %w", err)
		}
		return env.Users, nil
	})
}

// SystemHealth returns the backend health snapshot, cached.
func (s *Store) SystemHealth(ctx context.Context, force bool) (detection.Health, error) {
	return s.Health.Get(ctx, "health", force, func(ctx context.Context) (detection.Health, error) {
		raw, err := s.Client.GetJSON(ctx, "/health", nil)
		if err != nil {
			return detection.Health{}, err
		}
		var env struct {
			Health detection.Health `json:"health"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return detection.Health{}, fmt.Errorf("failed to decode health: %w", err)
		}
		return env.Health, nil
	})
}
