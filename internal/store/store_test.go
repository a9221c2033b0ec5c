package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]Closer {
	t.Helper()
	ctx := context.Background()
	sq, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "nested", "mine.db"))
	require.NoError(t, err)
	mem, err := Open(ctx, DriverMemory, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sq.Close()
		_ = mem.Close()
	})
	return map[string]Closer{"sqlite": sq, "memory": mem}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get(ctx, "playerData")
			require.NoError(t, err)
			assert.Empty(t, got)

			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{
				"playerData": json.RawMessage(`{"xp":5}`),
				"settings":   json.RawMessage(`{"showToggle":true}`),
			}))
			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{
				"playerData": json.RawMessage(`{"xp":6}`),
			}))

			got, err = s.Get(ctx, "playerData", "settings", "blockedDomains")
			require.NoError(t, err)
			assert.Len(t, got, 2)
			assert.JSONEq(t, `{"xp":6}`, string(got["playerData"]))
			assert.JSONEq(t, `{"showToggle":true}`, string(got["settings"]))
		})
	}
}

func TestSQLiteRejectsInvalidJSON(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	err = s.Set(ctx, map[string]json.RawMessage{"playerData": json.RawMessage(`{`)})
	require.Error(t, err)
	got, err := s.Get(ctx, "playerData")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mine.db")
	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, map[string]json.RawMessage{"blockedDomains": json.RawMessage(`["a.com"]`)}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "blockedDomains")
	require.NoError(t, err)
	assert.JSONEq(t, `["a.com"]`, string(got["blockedDomains"]))
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	raw := json.RawMessage(`{"xp":1}`)
	require.NoError(t, m.Set(ctx, map[string]json.RawMessage{"k": raw}))
	raw[6] = '9'
	got, _ := m.Get(ctx, "k")
	assert.Equal(t, `{"xp":1}`, string(got["k"]))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "redis", "")
	assert.Error(t, err)
}
