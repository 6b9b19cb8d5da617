package testutil

import (
	"testing"

	"github.com/nhle/campuscalm-widgets/internal/kvstore"
)

// NewTestKV creates an in-memory SQLiteStore for a fixed test session.
// It automatically closes the store when the test completes.
func NewTestKV(t *testing.T) *kvstore.SQLiteStore {
	t.Helper()

	s, err := kvstore.NewSQLiteStore(":memory:", "test-session")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestBestEffort wraps a fresh test store in the best-effort contract.
func NewTestBestEffort(t *testing.T) (*kvstore.BestEffort, *kvstore.SQLiteStore) {
	t.Helper()
	s := NewTestKV(t)
	return kvstore.NewBestEffort(s, nil), s
}
