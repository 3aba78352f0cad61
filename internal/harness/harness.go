package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/har"
	"github.com/roach88/harq/internal/logging"
	"github.com/roach88/harq/internal/store"
	"github.com/roach88/harq/internal/testutil"
)

// epoch is the first export timestamp of every run.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Harness is the scenario execution engine.
type Harness struct {
	doc    *har.HAR
	store  *store.Store
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load the scenario's HAR fixture
// 2. Open a fresh in-memory database with a stepping clock
// 3. Evaluate every case, exporting those that ask for it
// 4. Return result with pass/fail, outcomes, and errors
//
// A non-nil error means the scenario could not run at all; case failures
// are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	logger := logging.Discard()

	doc, err := har.NewLoader(har.WithLogger(logger)).Load(scenario.HAR)
	if err != nil {
		return nil, fmt.Errorf("failed to load har: %w", err)
	}

	clock := testutil.NewClock(epoch, time.Millisecond)
	st, err := store.Open(":memory:", store.WithLogger(logger), store.WithClock(clock.Now))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{doc: doc, store: st, logger: logger}

	ctx := context.Background()
	result := NewResult()
	for i, c := range scenario.Cases {
		outcome, err := h.runCase(ctx, scenario, c)
		if err != nil {
			result.AddError(fmt.Sprintf("cases[%d] %q: %v", i, c.Filter, err))
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}

// runCase evaluates one case. The returned outcome is always usable;
// the error describes an unmet expectation.
func (h *Harness) runCase(ctx context.Context, s *Scenario, c Case) (Outcome, error) {
	outcome := Outcome{Filter: c.Filter}

	f, err := filter.Compile(c.Filter)
	if err != nil {
		outcome.Rejected = true
		if c.Rejected {
			return outcome, nil
		}
		return outcome, fmt.Errorf("unexpected compile error: %w", err)
	}
	if c.Rejected {
		return outcome, fmt.Errorf("expected a compile error, filter parsed as %s", f.Expr)
	}

	selected := f.Select(h.doc.Log.Entries)
	outcome.Matches = make([]int, len(selected))
	for i, ix := range selected {
		outcome.Matches[i] = ix.Index + 1
	}
	h.logger.Debug("evaluated case", "filter", c.Filter, "matches", len(selected))

	if !slices.Equal(outcome.Matches, c.Expect) {
		return outcome, fmt.Errorf("matches %v, want %v", outcome.Matches, c.Expect)
	}

	if !c.Export {
		return outcome, nil
	}
	stored, err := h.export(ctx, s, c, selected)
	if err != nil {
		return outcome, err
	}
	outcome.Exported = true
	if !slices.Equal(stored, c.Expect) {
		return outcome, fmt.Errorf("stored indexes %v, want %v", stored, c.Expect)
	}
	return outcome, nil
}

// export writes the selection to the store and returns the indexes read
// back.
func (h *Harness) export(ctx context.Context, s *Scenario, c Case, selected []filter.Indexed) ([]int, error) {
	exp, err := h.store.WriteExport(ctx, store.Export{Source: s.Name, Filter: c.Filter}, selected)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	rows, err := h.store.ReadEntries(ctx, exp.ID)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	stored := make([]int, len(rows))
	for i, r := range rows {
		stored[i] = r.Index
	}
	return stored, nil
}
