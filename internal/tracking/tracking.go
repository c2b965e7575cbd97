// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

// Package tracking persists the record of when each instance was last
// notified about. The record is a single JSON file mapping instance ID to an
// RFC 3339 timestamp, which survives container restarts on a mounted volume.
package tracking

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/power-control/power-control/internal/log"
)

// Store reads and writes the notification-time record at Path.
type Store struct {
	Path string
}

// NewStore returns a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the record. A missing file is not an error and reads as an
// empty record. Timestamps are normalized to UTC.
func (s *Store) Load() (map[string]time.Time, error) {
	times := make(map[string]time.Time)

	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("tracking file absent: path=%s", s.Path)
			return times, nil
		}
		return nil, fmt.Errorf("failed to read tracking file %s: %w", s.Path, err)
	}

	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse tracking file %s: %w", s.Path, err)
	}

	for id, value := range data {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for %s in %s: %w", id, s.Path, err)
		}
		times[id] = t.UTC()
	}

	return times, nil
}

// Save writes the record. Keys are sorted (json.Marshal sorts map keys) and
// timestamps stored as RFC 3339 UTC.
func (s *Store) Save(times map[string]time.Time) error {
	data := make(map[string]string, len(times))
	for id, t := range times {
		data[id] = t.UTC().Format(time.RFC3339)
	}

	raw, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracking data: %w", err)
	}

	if err := os.WriteFile(s.Path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write tracking file %s: %w", s.Path, err)
	}
	log.Debugf("tracking file written: path=%s, entries=%d", s.Path, len(data))
	return nil
}

// Reconcile compares stop candidates against the record. Entries older than
// wait are pruned. Candidates still present after pruning were notified
// recently and are suppressed; the rest are recorded at now and returned as
// fresh. The updated record is persisted before returning.
func (s *Store) Reconcile(now time.Time, wait time.Duration, candidates []string) (fresh []string, suppressed []string, err error) {
	times, err := s.Load()
	if err != nil {
		return nil, nil, err
	}

	// Clear out entries whose grace period has fully elapsed.
	pruned := make(map[string]time.Time)
	for id, t := range times {
		if t.Add(wait).After(now) {
			pruned[id] = t
		}
	}

	for _, id := range candidates {
		if _, ok := pruned[id]; ok {
			suppressed = append(suppressed, id)
			continue
		}
		pruned[id] = now
		fresh = append(fresh, id)
	}

	if err := s.Save(pruned); err != nil {
		return nil, nil, err
	}

	return fresh, suppressed, nil
}
