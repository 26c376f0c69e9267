package testsupport

import (
	"testing"

	"arxivepub/internal/config"
	"arxivepub/internal/history"
)

// MustOpenStore opens a history store for the given config and registers
// cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
