package testsupport

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"photodup/internal/library"
)

// FakeLibrary is a scriptable in-memory library.Library. Tests add assets,
// inject per-asset fetch failures or a delete failure, and read back the
// peak fetch concurrency the scan pipeline reached.
type FakeLibrary struct {
	mu sync.Mutex

	// Level is returned by RequestAccess; defaults to AccessAuthorized.
	Level library.AccessLevel
	// AccessErr, when set, is returned by RequestAccess.
	AccessErr error
	// FetchErrs injects a per-asset fetch failure keyed by asset ID.
	FetchErrs map[string]error
	// DeleteErr, when set, fails DeleteAssets without removing anything.
	DeleteErr error
	// FetchDelay slows every fetch down, useful for exercising the
	// concurrency gate.
	FetchDelay time.Duration

	assets   map[string]fakeAsset
	inflight int
	peak     int
	fetches  int
	deletes  [][]string
}

type fakeAsset struct {
	content   []byte
	createdAt time.Time
}

// NewFakeLibrary returns an empty library that reports full authorization.
func NewFakeLibrary() *FakeLibrary {
	return &FakeLibrary{
		Level:     library.AccessAuthorized,
		FetchErrs: make(map[string]error),
		assets:    make(map[string]fakeAsset),
	}
}

// Add registers an asset with the given content and creation time.
func (f *FakeLibrary) Add(id string, content []byte, createdAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[id] = fakeAsset{content: append([]byte(nil), content...), createdAt: createdAt}
}

// RequestAccess reports the scripted access level.
func (f *FakeLibrary) RequestAccess(ctx context.Context) (library.AccessLevel, error) {
	if err := ctx.Err(); err != nil {
		return library.AccessNotDetermined, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AccessErr != nil {
		return library.AccessNotDetermined, f.AccessErr
	}
	return f.Level, nil
}

// ListAssets returns every asset, newest creation date first.
func (f *FakeLibrary) ListAssets(ctx context.Context) ([]library.AssetRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make([]library.AssetRef, 0, len(f.assets))
	for id, asset := range f.assets {
		refs = append(refs, library.AssetRef{ID: id, CreatedAt: asset.createdAt})
	}
	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].CreatedAt.Equal(refs[j].CreatedAt) {
			return refs[i].CreatedAt.After(refs[j].CreatedAt)
		}
		return refs[i].ID < refs[j].ID
	})
	return refs, nil
}

// FetchContent returns the asset's bytes or its scripted failure, tracking
// how many fetches run concurrently.
func (f *FakeLibrary) FetchContent(ctx context.Context, ref library.AssetRef, tier library.Tier) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.fetches++
	f.inflight++
	if f.inflight > f.peak {
		f.peak = f.inflight
	}
	delay := f.FetchDelay
	injected := f.FetchErrs[ref.ID]
	asset, ok := f.assets[ref.ID]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	f.inflight--
	f.mu.Unlock()

	if injected != nil {
		return nil, injected
	}
	if !ok {
		return nil, fmt.Errorf("asset %s not found", ref.ID)
	}
	return append([]byte(nil), asset.content...), nil
}

// DeleteAssets removes the batch all-or-nothing, or fails with DeleteErr.
func (f *FakeLibrary) DeleteAssets(ctx context.Context, refs []library.AssetRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for _, ref := range refs {
		if _, ok := f.assets[ref.ID]; !ok {
			return fmt.Errorf("asset %s not found", ref.ID)
		}
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		delete(f.assets, ref.ID)
		ids = append(ids, ref.ID)
	}
	f.deletes = append(f.deletes, ids)
	return nil
}

// PeakConcurrency reports the highest number of simultaneous fetches seen.
func (f *FakeLibrary) PeakConcurrency() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

// FetchCount reports how many fetches were issued in total.
func (f *FakeLibrary) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// DeleteBatches returns the asset IDs of every successful delete call.
func (f *FakeLibrary) DeleteBatches() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.deletes))
	for i, batch := range f.deletes {
		out[i] = append([]string(nil), batch...)
	}
	return out
}
