package scanner_test

import (
	"errors"
	"path/filepath"
	"testing"

	"photodup/internal/scanner"
	"photodup/internal/services"
)

func TestScanLockExcludesSecondHolder(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	lock, err := scanner.AcquireScanLock(dataDir)
	if err != nil {
		t.Fatalf("acquire scan lock: %v", err)
	}

	if _, err := scanner.AcquireScanLock(dataDir); !errors.Is(err, services.ErrScanActive) {
		t.Fatalf("expected ErrScanActive while lock is held, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release scan lock: %v", err)
	}

	again, err := scanner.AcquireScanLock(dataDir)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("release reacquired lock: %v", err)
	}
}

func TestScanLockReleaseNilSafe(t *testing.T) {
	var lock *scanner.ScanLock
	if err := lock.Release(); err != nil {
		t.Fatalf("nil release should be a no-op, got %v", err)
	}
}
