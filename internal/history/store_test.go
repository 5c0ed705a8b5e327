package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t)

	id, err := s.Record(Entry{
		Kind:     KindConvert,
		Subject:  "/data/trips.parquet",
		Outcome:  "ok",
		Count:    1000,
		Duration: 2 * time.Second,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := s.Recent("", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, KindConvert, got.Kind)
	assert.Equal(t, "/data/trips.parquet", got.Subject)
	assert.Equal(t, int64(1000), got.Count)
	assert.Equal(t, 2*time.Second, got.Duration)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRecentFiltersByKind(t *testing.T) {
	s := openStore(t)

	base := time.Now().UTC()
	for i, k := range []Kind{KindTimer, KindCheck, KindTimer, KindOpen} {
		_, err := s.Record(Entry{Kind: k, CreatedAt: base.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
	}

	timers, err := s.Recent(KindTimer, 10)
	require.NoError(t, err)
	assert.Len(t, timers, 2)

	all, err := s.Recent("", 10)
	require.NoError(t, err)
	require.Len(t, all, 4)
	// Newest first.
	assert.Equal(t, KindOpen, all[0].Kind)
}

func TestRecentLimit(t *testing.T) {
	s := openStore(t)
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		_, err := s.Record(Entry{Kind: KindOpen, CreatedAt: base.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
	}
	entries, err := s.Recent("", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecentOrdersSubSecondEntries(t *testing.T) {
	s := openStore(t)

	// .5s would serialize shorter than .52s without a fixed-width
	// fraction, and text ORDER BY would put the older entry first.
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	older := base.Add(500 * time.Millisecond)
	newer := base.Add(520 * time.Millisecond)

	_, err := s.Record(Entry{Kind: KindTimer, Subject: "older", CreatedAt: older})
	require.NoError(t, err)
	_, err = s.Record(Entry{Kind: KindTimer, Subject: "newer", CreatedAt: newer})
	require.NoError(t, err)

	entries, err := s.Recent(KindTimer, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "newer", entries[0].Subject)
	assert.True(t, entries[0].CreatedAt.Equal(newer))
}

func TestCounts(t *testing.T) {
	s := openStore(t)
	for _, k := range []Kind{KindTimer, KindTimer, KindCheck} {
		_, err := s.Record(Entry{Kind: k})
		require.NoError(t, err)
	}
	counts, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[KindTimer])
	assert.Equal(t, int64(1), counts[KindCheck])
	assert.Zero(t, counts[KindConvert])
}
