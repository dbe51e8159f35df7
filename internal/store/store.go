// Package store persists the client record.
//
// The record is one JSON object kept under a fixed key. Loading never fails:
// a missing or unreadable record yields the default record, and a stored
// record is merged over the defaults one top-level field at a time. Saving
// and clearing are best effort; failures are logged and swallowed so the
// in-memory state stays authoritative.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"acqos/internal/logging"
	"acqos/internal/state"
)

// slowLoad is the Load duration above which a warning is logged.
const slowLoad = 250 * time.Millisecond

// Store reads and writes the client record through a Backend.
type Store struct {
	backend Backend
}

// New wraps a backend.
func New(b Backend) *Store {
	return &Store{backend: b}
}

// Open opens the named backend and wraps it.
func Open(backend, path, driver string) (*Store, error) {
	b, err := OpenBackend(backend, path, driver)
	if err != nil {
		return nil, err
	}
	return New(b), nil
}

// Path is the file backing the record.
func (s *Store) Path() string { return s.backend.Path() }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Load returns the stored record merged over the defaults.
func (s *Store) Load(ctx context.Context) state.ClientData {
	timer := logging.StartTimer(logging.CategoryStore, "Load")
	defer timer.StopWithThreshold(slowLoad)

	raw, found, err := s.backend.Read(ctx)
	if err != nil {
		logging.StoreWarn("Load: %v, using defaults", err)
		return state.Default()
	}
	if !found {
		logging.StoreDebug("Load: no record stored, using defaults")
		return state.Default()
	}

	data, err := decode(raw)
	if err != nil {
		logging.StoreWarn("Load: malformed record, using defaults: %v", err)
		return state.Default()
	}
	return data
}

// Save writes the full record. Errors are logged, never returned.
func (s *Store) Save(ctx context.Context, data state.ClientData) {
	raw, err := encode(data)
	if err != nil {
		logging.StoreError("Save: %v", err)
		return
	}
	if err := s.backend.Write(ctx, raw); err != nil {
		logging.StoreError("Save: %v", err)
		return
	}
	logging.StoreDebug("Saved record (%d bytes)", len(raw))
}

// Clear removes the record so the next Load returns defaults. Errors are
// logged, never returned.
func (s *Store) Clear(ctx context.Context) {
	if err := s.backend.Delete(ctx); err != nil {
		logging.StoreError("Clear: %v", err)
		return
	}
	logging.Store("Record cleared")
}

// Raw returns the stored bytes, or the encoded defaults when nothing is
// stored.
func (s *Store) Raw(ctx context.Context) ([]byte, error) {
	raw, found, err := s.backend.Read(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return encode(state.Default())
	}
	return raw, nil
}

func encode(data state.ClientData) ([]byte, error) {
	raw, err := json.Marshal(data.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return raw, nil
}

// decode overlays each top-level field of raw on the default record. A stored
// field replaces the default field entirely.
func decode(raw []byte) (state.ClientData, error) {
	var stored map[string]json.RawMessage
	if err := json.Unmarshal(raw, &stored); err != nil {
		return state.ClientData{}, fmt.Errorf("record is not a JSON object: %w", err)
	}
	if stored == nil {
		return state.ClientData{}, fmt.Errorf("record is null")
	}

	defaults, err := encode(state.Default())
	if err != nil {
		return state.ClientData{}, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(defaults, &merged); err != nil {
		return state.ClientData{}, err
	}
	for k, v := range stored {
		merged[k] = v
	}

	buf, err := json.Marshal(merged)
	if err != nil {
		return state.ClientData{}, err
	}
	var data state.ClientData
	if err := json.Unmarshal(buf, &data); err != nil {
		return state.ClientData{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return data.Clone(), nil
}
