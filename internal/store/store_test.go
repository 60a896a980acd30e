package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"photodup/internal/hashing"
	"photodup/internal/library"
	"photodup/internal/scanner"
	"photodup/internal/services"
	"photodup/internal/store"
	"photodup/internal/testsupport"
)

func openStore(t *testing.T, opts ...testsupport.ConfigOption) *store.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult(contents ...string) *scanner.Result {
	now := time.Now().UTC()
	var groups []scanner.Group
	for i, content := range contents {
		digest := hashing.Sum([]byte(content))
		groups = append(groups, scanner.Group{
			Digest: digest,
			Members: []library.AssetRef{
				{ID: content + "-a.jpg", CreatedAt: now.Add(-time.Duration(i) * time.Hour)},
				{ID: content + "-b.jpg", CreatedAt: now},
			},
		})
	}
	return &scanner.Result{
		ScanID:     uuid.NewString(),
		Tier:       library.TierOriginal,
		Groups:     groups,
		AssetCount: len(contents)*2 + 1,
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
	}
}

func TestLatestScanEmptyHistory(t *testing.T) {
	s := openStore(t)
	if _, err := s.LatestScan(context.Background()); !errors.Is(err, store.ErrNoScans) {
		t.Fatalf("expected ErrNoScans, got %v", err)
	}
}

func TestSaveScanRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	result := sampleResult("x", "y")

	if err := s.SaveScan(ctx, result); err != nil {
		t.Fatalf("save scan: %v", err)
	}

	latest, err := s.LatestScan(ctx)
	if err != nil {
		t.Fatalf("latest scan: %v", err)
	}
	if latest.UUID != result.ScanID {
		t.Fatalf("expected scan uuid %s, got %s", result.ScanID, latest.UUID)
	}
	if latest.Tier != string(library.TierOriginal) {
		t.Fatalf("expected tier original, got %s", latest.Tier)
	}
	if len(latest.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(latest.Groups))
	}
	for i, group := range latest.Groups {
		if group.Digest != result.Groups[i].ID() {
			t.Fatalf("group %d digest mismatch: %s vs %s", i, group.Digest, result.Groups[i].ID())
		}
		if len(group.Members) != 2 {
			t.Fatalf("group %d expected 2 members, got %d", i, len(group.Members))
		}
		if group.Members[0].AssetID != result.Groups[i].Members[0].ID {
			t.Fatal("member order must survive persistence")
		}
	}
}

func TestLatestScanSupersedesPrior(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.SaveScan(ctx, sampleResult("old")); err != nil {
		t.Fatalf("save first: %v", err)
	}
	second := sampleResult("new")
	if err := s.SaveScan(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	latest, err := s.LatestScan(ctx)
	if err != nil {
		t.Fatalf("latest scan: %v", err)
	}
	if latest.UUID != second.ScanID {
		t.Fatal("latest scan must be the most recently saved one")
	}
}

func TestSaveScanPrunesHistory(t *testing.T) {
	s := openStore(t, testsupport.WithMaxScans(2))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.SaveScan(ctx, sampleResult("content")); err != nil {
			t.Fatalf("save scan %d: %v", i, err)
		}
	}

	count, err := s.ScanCount(ctx)
	if err != nil {
		t.Fatalf("scan count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected history pruned to 2 scans, got %d", count)
	}
}

func TestFindGroupByPrefix(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	result := sampleResult("unique-content")
	if err := s.SaveScan(ctx, result); err != nil {
		t.Fatalf("save scan: %v", err)
	}

	full := result.Groups[0].ID()
	group, err := s.FindGroup(ctx, full[:12])
	if err != nil {
		t.Fatalf("find group by prefix: %v", err)
	}
	if group.Digest != full {
		t.Fatalf("expected digest %s, got %s", full, group.Digest)
	}

	converted, err := group.AsScannerGroup()
	if err != nil {
		t.Fatalf("convert group: %v", err)
	}
	if converted.ID() != full || len(converted.Members) != 2 {
		t.Fatalf("conversion lost data: %+v", converted)
	}
}

func TestFindGroupErrors(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	if err := s.SaveScan(ctx, sampleResult("something")); err != nil {
		t.Fatalf("save scan: %v", err)
	}

	if _, err := s.FindGroup(ctx, "abc"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for short prefix, got %v", err)
	}
	if _, err := s.FindGroup(ctx, "0000000000000000"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown digest, got %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("second open against existing schema: %v", err)
	}
	_ = second.Close()
}
