package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"acqos/internal/logging"
)

// maxBackupSize bounds the decompressed size accepted by Restore.
const maxBackupSize = 64 << 20

// Backup writes the current raw record to w, zstd-compressed.
func (s *Store) Backup(ctx context.Context, w io.Writer) error {
	timer := logging.StartTimer(logging.CategoryStore, "Backup")
	defer timer.Stop()

	raw, err := s.Raw(ctx)
	if err != nil {
		logging.StoreError("Backup: %v", err)
		return fmt.Errorf("failed to read record: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("zstd encoder: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish backup: %w", err)
	}

	logging.Store("Backup written (%d bytes uncompressed)", len(raw))
	return nil
}

// Restore replaces the record with the backup read from r. The payload must
// decompress to a JSON object.
func (s *Store) Restore(ctx context.Context, r io.Reader) error {
	timer := logging.StartTimer(logging.CategoryStore, "Restore")
	defer timer.Stop()

	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(io.LimitReader(dec, maxBackupSize+1))
	if err != nil {
		logging.StoreError("Restore: %v", err)
		return fmt.Errorf("failed to decompress backup: %w", err)
	}
	if len(raw) > maxBackupSize {
		return fmt.Errorf("backup exceeds %d bytes", maxBackupSize)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return fmt.Errorf("backup is not a JSON object")
	}

	if err := s.backend.Write(ctx, raw); err != nil {
		logging.StoreError("Restore: %v", err)
		return err
	}
	logging.Store("Record restored from backup (%d bytes)", len(raw))
	return nil
}
