package scanner

import (
	"log/slog"

	"photodup/internal/hashing"
	"photodup/internal/library"
	"photodup/internal/logging"
)

// collectGroups consumes fetch completions, hashing each successful buffer
// and bucketing asset refs by digest. The bucket map lives entirely on this
// goroutine; fetch workers never touch it. Failed fetches are counted and
// excluded so absent content is never hashed. Buckets with at least two
// members become groups, in first-seen digest order.
func collectGroups(in <-chan fetchResult, logger *slog.Logger) ([]Group, int) {
	buckets := make(map[hashing.Digest][]library.AssetRef)
	var order []hashing.Digest
	failed := 0

	for res := range in {
		if res.err != nil {
			failed++
			logger.Warn("fetch failed, excluding asset",
				logging.String(logging.FieldAssetID, res.ref.ID),
				logging.Error(res.err))
			continue
		}
		digest := hashing.Sum(res.data)
		if _, seen := buckets[digest]; !seen {
			order = append(order, digest)
		}
		buckets[digest] = append(buckets[digest], res.ref)
	}

	var groups []Group
	for _, digest := range order {
		members := buckets[digest]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, Group{Digest: digest, Members: members})
	}
	return groups, failed
}
