package scanner

import (
	"context"
	"sync"

	"photodup/internal/library"
)

// fetchResult is one fetch completion: the asset plus either its bytes or
// the fetch error.
type fetchResult struct {
	ref  library.AssetRef
	data []byte
	err  error
}

// scheduleFetches dispatches one content fetch per ref while keeping at
// most limit in flight, and delivers completions to out in completion
// order. The gate slot is released unconditionally when a fetch finishes,
// success or failure, and out is closed only after every issued fetch has
// completed. Cancelling ctx stops new dispatches; in-flight fetches drain.
func (s *Service) scheduleFetches(ctx context.Context, refs []library.AssetRef, tier library.Tier, limit int, out chan<- fetchResult) {
	if limit < 1 {
		limit = 1
	}
	gate := make(chan struct{}, limit)
	var wg sync.WaitGroup

dispatch:
	for _, ref := range refs {
		select {
		case <-ctx.Done():
			break dispatch
		case gate <- struct{}{}:
		}
		wg.Add(1)
		go func(ref library.AssetRef) {
			defer wg.Done()
			defer func() { <-gate }()
			data, err := s.lib.FetchContent(ctx, ref, tier)
			out <- fetchResult{ref: ref, data: data, err: err}
		}(ref)
	}

	wg.Wait()
	close(out)
}
