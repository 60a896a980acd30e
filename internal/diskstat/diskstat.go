package diskstat

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Filesystem describes capacity of the filesystem containing a path.
type Filesystem struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// UsedBytes returns total minus free.
func (f Filesystem) UsedBytes() uint64 {
	if f.FreeBytes > f.TotalBytes {
		return 0
	}
	return f.TotalBytes - f.FreeBytes
}

// Stat queries the filesystem containing path.
func Stat(path string) (Filesystem, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Filesystem{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	blockSize := uint64(stat.Bsize)
	return Filesystem{
		TotalBytes: stat.Blocks * blockSize,
		FreeBytes:  stat.Bavail * blockSize,
	}, nil
}

// ProcessRSS returns the current process's resident set size in bytes,
// read from /proc/self/statm.
func ProcessRSS() (uint64, error) {
	data, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return 0, fmt.Errorf("read statm: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0, fmt.Errorf("unexpected statm format: %q", strings.TrimSpace(string(data)))
	}
	pages, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse statm rss: %w", err)
	}
	return pages * uint64(os.Getpagesize()), nil
}
