package library

import (
	"context"
	"time"
)

// AccessLevel reports how much of the library the caller may touch.
type AccessLevel int

const (
	// AccessNotDetermined means the library has not answered yet (for a
	// directory library: the path does not exist or cannot be probed).
	AccessNotDetermined AccessLevel = iota
	// AccessDenied means the library refused access; scanning must not start.
	AccessDenied
	// AccessAuthorized grants full read/write access.
	AccessAuthorized
	// AccessLimited grants read access only; scans work, deletes will fail.
	AccessLimited
)

// Authorized reports whether the level permits scanning.
func (l AccessLevel) Authorized() bool {
	return l == AccessAuthorized || l == AccessLimited
}

func (l AccessLevel) String() string {
	switch l {
	case AccessDenied:
		return "denied"
	case AccessAuthorized:
		return "authorized"
	case AccessLimited:
		return "limited"
	default:
		return "not determined"
	}
}

// Tier selects which representation of an asset FetchContent returns.
type Tier string

const (
	// TierOriginal fetches the full-resolution original bytes.
	TierOriginal Tier = "original"
	// TierPreview fetches a faster, possibly re-encoded preview rendition.
	// Digests computed from different tiers are never comparable.
	TierPreview Tier = "preview"
)

// AssetRef identifies one asset. ID is opaque and stable for the lifetime
// of the asset; CreatedAt is used only for ordering and survivor selection.
type AssetRef struct {
	ID        string
	CreatedAt time.Time
}

// Library is the external content store the duplicate pipeline runs over.
type Library interface {
	// RequestAccess reports the caller's access level. Implementations may
	// prompt or probe; they must not block indefinitely once ctx is done.
	RequestAccess(ctx context.Context) (AccessLevel, error)

	// ListAssets enumerates every asset, newest creation date first.
	ListAssets(ctx context.Context) ([]AssetRef, error)

	// FetchContent returns the raw bytes of one asset at the requested
	// tier. The returned buffer is owned by the caller and is expected to
	// be discarded immediately after hashing.
	FetchContent(ctx context.Context, ref AssetRef, tier Tier) ([]byte, error)

	// DeleteAssets removes the given assets. The operation is atomic:
	// either every asset is removed or none are.
	DeleteAssets(ctx context.Context, refs []AssetRef) error
}
