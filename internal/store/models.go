package store

import (
	"fmt"
	"time"

	"photodup/internal/hashing"
	"photodup/internal/library"
	"photodup/internal/scanner"
)

// Scan is one persisted scan with its duplicate groups.
type Scan struct {
	ID            int64
	UUID          string
	Tier          string
	AssetCount    int
	FailedFetches int
	StartedAt     time.Time
	FinishedAt    time.Time
	Groups        []Group
}

// Group is one persisted duplicate group, identified by its digest hex.
type Group struct {
	Digest  string
	Members []Member
}

// Member is one asset inside a persisted group, in fetch-completion order.
type Member struct {
	AssetID   string
	CreatedAt time.Time
}

// AsScannerGroup converts a persisted group back into the scanner's type so
// it can be fed to the deletion coordinator.
func (g Group) AsScannerGroup() (scanner.Group, error) {
	digest, err := hashing.Parse(g.Digest)
	if err != nil {
		return scanner.Group{}, fmt.Errorf("group %s: %w", g.Digest, err)
	}
	members := make([]library.AssetRef, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, library.AssetRef{ID: m.AssetID, CreatedAt: m.CreatedAt})
	}
	return scanner.Group{Digest: digest, Members: members}, nil
}
