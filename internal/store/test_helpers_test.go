package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/har"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// createTestStore creates a new store in a temp directory with a fixed clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	return openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
}

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// loadSample returns the sample log's entries, all selected.
func loadSample(t *testing.T) []filter.Indexed {
	t.Helper()
	doc, err := har.NewLoader().Load("../har/testdata/sample.har")
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	var f *filter.Filter
	return f.Select(doc.Log.Entries)
}
