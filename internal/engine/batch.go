package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sydlexius/vocasync/internal/metadata"
)

// State is the terminal state of one item's resolution.
type State string

// Terminal resolution states.
const (
	StateRanked   State = "ranked"
	StateNotFound State = "not_found"
	StateFailed   State = "failed"
)

// BatchResult is the outcome for one item of a batch.
type BatchResult struct {
	Item       metadata.LocalItem   `json:"item"`
	State      State                `json:"state"`
	Candidates []metadata.Candidate `json:"candidates,omitempty"`
	Err        error                `json:"-"`
}

// ResolveBatch resolves items concurrently, at most concurrency at a time.
// A failure affects only its own item. Results keep the input order.
func (e *Engine) ResolveBatch(ctx context.Context, items []metadata.LocalItem, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]BatchResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			cands, err := e.ItemCandidates(gctx, items[i])
			r := BatchResult{Item: items[i], Candidates: cands, Err: err}
			switch {
			case err != nil:
				r.State = StateFailed
			case len(cands) == 0:
				r.State = StateNotFound
			default:
				r.State = StateRanked
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return results
}
