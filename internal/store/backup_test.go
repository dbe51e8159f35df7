package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acqos/internal/state"
)

func TestBackupRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := sample()
			s.Save(ctx, want)

			var buf bytes.Buffer
			require.NoError(t, s.Backup(ctx, &buf))

			s.Clear(ctx)
			require.Equal(t, state.Default(), s.Load(ctx))

			require.NoError(t, s.Restore(ctx, &buf))
			if diff := cmp.Diff(want, s.Load(ctx)); diff != "" {
				t.Errorf("restored record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBackup_EmptyStoreWritesDefaults(t *testing.T) {
	ctx := context.Background()
	s := backends(t)["file"]

	var buf bytes.Buffer
	require.NoError(t, s.Backup(ctx, &buf))

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	raw, err := dec.DecodeAll(buf.Bytes(), nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"clientName":"Nouveau Projet"`)
}

func compress(t *testing.T, payload string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return &buf
}

func TestRestore_RejectsInvalidPayload(t *testing.T) {
	ctx := context.Background()
	s := backends(t)["sqlite"]
	s.Save(ctx, sample())

	for _, payload := range []string{"[1,2,3]", "null", "plain text"} {
		err := s.Restore(ctx, compress(t, payload))
		assert.ErrorContains(t, err, "not a JSON object", payload)
	}

	err := s.Restore(ctx, bytes.NewBufferString("not zstd at all"))
	assert.Error(t, err)

	// Failed restores leave the record alone.
	assert.Equal(t, "Acme", s.Load(ctx).ClientName)
}
