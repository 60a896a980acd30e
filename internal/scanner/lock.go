package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"photodup/internal/services"
)

// ScanLock extends the in-process single-scan guard across photodup
// processes: whoever holds the lock file under the data directory may scan.
type ScanLock struct {
	fl *flock.Flock
}

// AcquireScanLock takes the cross-process scan lock without blocking. A
// held lock means another photodup process is scanning; the caller gets
// the same soft rejection as an in-process concurrent scan.
func AcquireScanLock(dataDir string) (*ScanLock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}
	fl := flock.New(filepath.Join(dataDir, "scan.lock"))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrScanActive, "scanner", "acquire scan lock",
			"another photodup process holds the scan lock", nil)
	}
	return &ScanLock{fl: fl}, nil
}

// Release drops the lock. Safe on nil.
func (l *ScanLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
