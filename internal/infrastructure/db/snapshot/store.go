package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffdesk/identity-api/internal/api/metrics"
)

// Store owns the canonical in-memory dataset and the snapshot file backing it.
// One mutex serializes every operation; mutations commit by rewriting the
// whole file before the new state becomes visible.
type Store struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
	data dataset

	// writeFile is swapped out by tests to simulate flush failures.
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// Open restores the dataset from path, or creates a fresh one with the seeded
// roles when no snapshot exists. Additive schema migrations run here and, when
// they changed anything, the migrated dataset is flushed back immediately.
func Open(path string, log zerolog.Logger) (*Store, error) {
	s := &Store{path: path, log: log, writeFile: os.WriteFile}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.data = seedDataset()
		if err := s.flush(s.data); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("no snapshot found, created empty dataset with seeded roles")
	case err != nil:
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	default:
		d, migrated, err := decode(b)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %s: %w", path, err)
		}
		s.data = d
		if migrated {
			if err := s.flush(s.data); err != nil {
				return nil, err
			}
			log.Info().Str("path", path).Msg("snapshot schema migrated")
		}
		log.Info().
			Str("path", path).
			Int("users", len(d.Users)).
			Int("groups", len(d.Groups)).
			Msg("snapshot loaded")
	}

	return s, nil
}

// update stages fn on a copy of the dataset, flushes the copy, and swaps it in
// only after the flush succeeded. Callers therefore never observe success
// before durable state reflects the mutation, and a flush failure rolls the
// mutation back entirely.
func (s *Store) update(fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.flush(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// flush serializes the complete dataset over the snapshot file. All-or-nothing
// from the caller's point of view; a crash mid-write is an accepted risk of
// this design.
func (s *Store) flush(d dataset) error {
	start := time.Now()

	b, err := encode(d)
	if err == nil {
		err = s.writeFile(s.path, b, 0o644)
	}

	metrics.SnapshotFlushDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SnapshotFlushErrorsTotal.Inc()
		s.log.Error().Err(err).Str("path", s.path).Msg("snapshot flush failed")
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	return nil
}

// Ping reports whether the snapshot file is still reachable. Used by the
// readiness probe.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(s.path)
	return err
}
