package dedupe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/newspulse/sentiment-dashboard/internal/dedupe"
)

func TestSeenDuplicate(t *testing.T) {
	seen := dedupe.New(10, time.Minute)
	require.False(t, seen.Observed("alpha"))
	seen.Record("alpha")
	require.True(t, seen.Observed("alpha"))
	require.False(t, seen.Observed("beta"))
}

func TestSeenTTLExpiry(t *testing.T) {
	seen := dedupe.New(10, 20*time.Millisecond)
	seen.Record("beta")
	require.True(t, seen.Observed("beta"))
	time.Sleep(25 * time.Millisecond)
	require.False(t, seen.Observed("beta"))
}

func TestSeenCapacityEvictsOldest(t *testing.T) {
	seen := dedupe.New(1, time.Minute)
	seen.Record("first")
	seen.Record("second")

	require.False(t, seen.Observed("first"))
	require.True(t, seen.Observed("second"))
}

func TestSeenReRecordSurvivesOverflow(t *testing.T) {
	seen := dedupe.New(3, time.Hour)
	seen.Record("a")
	seen.Record("b")
	seen.Record("c")

	// Refreshing a leaves a stale queue position behind; overflowing must
	// evict the oldest live entry, not the refreshed one.
	seen.Record("a")
	seen.Record("d")

	require.False(t, seen.Observed("b"))
	require.True(t, seen.Observed("a"))
	require.True(t, seen.Observed("c"))
	require.True(t, seen.Observed("d"))
}
