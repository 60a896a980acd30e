package scanner_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"photodup/internal/library"
	"photodup/internal/scanner"
	"photodup/internal/services"
	"photodup/internal/testsupport"
)

func newService(t *testing.T, lib library.Library, opts ...testsupport.ConfigOption) *scanner.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	return scanner.New(cfg, lib, nil)
}

func groupMembers(g scanner.Group) []string {
	ids := make([]string, 0, len(g.Members))
	for _, ref := range g.Members {
		ids = append(ids, ref.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestFindDuplicatesGroupsIdenticalContent(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	now := time.Now()
	lib.Add("a.jpg", []byte("h1"), now)
	lib.Add("b.jpg", []byte("h1"), now.Add(-time.Minute))
	lib.Add("c.jpg", []byte("h2"), now.Add(-2*time.Minute))
	lib.Add("d.jpg", []byte("h3"), now.Add(-3*time.Minute))

	svc := newService(t, lib)
	result, err := svc.FindDuplicates(context.Background())
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}

	if result.AssetCount != 4 {
		t.Fatalf("expected 4 assets scanned, got %d", result.AssetCount)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("expected exactly one group, got %d", len(result.Groups))
	}
	got := groupMembers(result.Groups[0])
	if len(got) != 2 || got[0] != "a.jpg" || got[1] != "b.jpg" {
		t.Fatalf("expected group [a.jpg b.jpg], got %v", got)
	}
	if svc.State() != scanner.StateIdle {
		t.Fatalf("expected idle state after scan, got %v", svc.State())
	}
}

func TestFindDuplicatesEmptyLibrary(t *testing.T) {
	svc := newService(t, testsupport.NewFakeLibrary())
	result, err := svc.FindDuplicates(context.Background())
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if len(result.Groups) != 0 || result.AssetCount != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestFindDuplicatesExcludesFailedFetches(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	now := time.Now()
	lib.Add("e.jpg", []byte("whatever"), now)
	lib.Add("f.jpg", []byte("shared"), now)
	lib.Add("g.jpg", []byte("shared"), now)
	lib.FetchErrs["e.jpg"] = errors.New("network gave up")

	svc := newService(t, lib)
	result, err := svc.FindDuplicates(context.Background())
	if err != nil {
		t.Fatalf("fetch failures must not abort the scan: %v", err)
	}
	if result.FailedFetches != 1 {
		t.Fatalf("expected 1 failed fetch, got %d", result.FailedFetches)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("expected one group, got %d", len(result.Groups))
	}
	for _, ref := range result.Groups[0].Members {
		if ref.ID == "e.jpg" {
			t.Fatal("failed asset must not appear in any group")
		}
	}
}

func TestFindDuplicatesGroupProperties(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	now := time.Now()
	// Three duplicate pairs plus singletons.
	for i, content := range []string{"x", "x", "y", "y", "z", "z", "solo1", "solo2"} {
		lib.Add(string(rune('a'+i))+".jpg", []byte(content), now.Add(-time.Duration(i)*time.Second))
	}

	svc := newService(t, lib)
	result, err := svc.FindDuplicates(context.Background())
	if err != nil {
		t.Fatalf("find duplicates: %v", err)
	}
	if len(result.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(result.Groups))
	}

	seen := make(map[string]string)
	for _, group := range result.Groups {
		if len(group.Members) < 2 {
			t.Fatalf("group %s has %d members; groups must have at least 2", group.ID(), len(group.Members))
		}
		for _, ref := range group.Members {
			if prior, ok := seen[ref.ID]; ok {
				t.Fatalf("asset %s appears in groups %s and %s; groups must be disjoint", ref.ID, prior, group.ID())
			}
			seen[ref.ID] = group.ID()
		}
	}
}

func TestFindDuplicatesIdempotent(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	now := time.Now()
	lib.Add("a.jpg", []byte("dup"), now)
	lib.Add("b.jpg", []byte("dup"), now)
	lib.Add("c.jpg", []byte("other"), now)

	svc := newService(t, lib)
	first, err := svc.FindDuplicates(context.Background())
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, err := svc.FindDuplicates(context.Background())
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}

	if first.ScanID == second.ScanID {
		t.Fatal("each scan must carry its own identifier")
	}
	if len(first.Groups) != len(second.Groups) {
		t.Fatalf("group count changed between identical scans: %d vs %d", len(first.Groups), len(second.Groups))
	}
	for i := range first.Groups {
		a := groupMembers(first.Groups[i])
		b := groupMembers(second.Groups[i])
		if len(a) != len(b) {
			t.Fatalf("group membership changed between identical scans: %v vs %v", a, b)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("group membership changed between identical scans: %v vs %v", a, b)
			}
		}
	}
}

func TestFindDuplicatesRespectsConcurrencyBound(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	lib.FetchDelay = 10 * time.Millisecond
	now := time.Now()
	for i := 0; i < 24; i++ {
		lib.Add(string(rune('a'+i))+".jpg", []byte{byte(i)}, now)
	}

	const limit = 3
	svc := newService(t, lib, testsupport.WithConcurrency(limit))
	if _, err := svc.FindDuplicates(context.Background()); err != nil {
		t.Fatalf("find duplicates: %v", err)
	}

	if lib.FetchCount() != 24 {
		t.Fatalf("expected every asset fetched once, got %d", lib.FetchCount())
	}
	if peak := lib.PeakConcurrency(); peak > limit {
		t.Fatalf("concurrency bound violated: peak %d > limit %d", peak, limit)
	}
}

func TestFindDuplicatesRejectsConcurrentScan(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	lib.FetchDelay = 50 * time.Millisecond
	now := time.Now()
	for i := 0; i < 6; i++ {
		lib.Add(string(rune('a'+i))+".jpg", []byte{byte(i)}, now)
	}

	svc := newService(t, lib, testsupport.WithConcurrency(1))

	done := make(chan error, 1)
	go func() {
		_, err := svc.FindDuplicates(context.Background())
		done <- err
	}()

	waitForState(t, svc, scanner.StateScanning)

	_, err := svc.FindDuplicates(context.Background())
	if !errors.Is(err, services.ErrScanActive) {
		t.Fatalf("expected ErrScanActive for re-entrant call, got %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("original scan should finish cleanly: %v", err)
	}
}

func TestFindDuplicatesAuthorizationDenied(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	lib.Level = library.AccessDenied

	svc := newService(t, lib)
	_, err := svc.FindDuplicates(context.Background())
	if !errors.Is(err, services.ErrAuthorization) {
		t.Fatalf("expected ErrAuthorization, got %v", err)
	}
	if svc.State() != scanner.StateIdle {
		t.Fatalf("state must return to idle after denial, got %v", svc.State())
	}
	if svc.Latest() != nil {
		t.Fatal("no result may be published after a denied scan")
	}
}

func TestFindDuplicatesLimitedAccessAllowsScan(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	lib.Level = library.AccessLimited
	lib.Add("a.jpg", []byte("x"), time.Now())
	lib.Add("b.jpg", []byte("x"), time.Now())

	svc := newService(t, lib)
	result, err := svc.FindDuplicates(context.Background())
	if err != nil {
		t.Fatalf("limited access should allow scanning: %v", err)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("expected one group, got %d", len(result.Groups))
	}
}

func TestCancelDiscardsPartialResult(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	lib.FetchDelay = 30 * time.Millisecond
	now := time.Now()
	for i := 0; i < 12; i++ {
		lib.Add(string(rune('a'+i))+".jpg", []byte("dup"), now)
	}

	svc := newService(t, lib, testsupport.WithConcurrency(2))

	done := make(chan error, 1)
	go func() {
		_, err := svc.FindDuplicates(context.Background())
		done <- err
	}()

	waitForState(t, svc, scanner.StateScanning)
	svc.Cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from a cancelled scan, got %v", err)
	}
	if svc.Latest() != nil {
		t.Fatal("cancelled scan must not publish a result")
	}
	if svc.State() != scanner.StateIdle {
		t.Fatalf("expected idle after cancellation, got %v", svc.State())
	}
}

func TestLatestReturnsSnapshot(t *testing.T) {
	lib := testsupport.NewFakeLibrary()
	lib.Add("a.jpg", []byte("x"), time.Now())
	lib.Add("b.jpg", []byte("x"), time.Now())

	svc := newService(t, lib)
	if _, err := svc.FindDuplicates(context.Background()); err != nil {
		t.Fatalf("find duplicates: %v", err)
	}

	snap := svc.Latest()
	if snap == nil || len(snap.Groups) != 1 {
		t.Fatalf("expected published result with one group, got %+v", snap)
	}
	snap.Groups[0].Members = nil
	if again := svc.Latest(); len(again.Groups[0].Members) != 2 {
		t.Fatal("mutating a snapshot must not affect the published result")
	}
}

func waitForState(t *testing.T, svc *scanner.Service, want scanner.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %v, stuck at %v", want, svc.State())
}
