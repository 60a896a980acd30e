package scanner

import (
	"context"
	"fmt"

	"photodup/internal/library"
	"photodup/internal/logging"
	"photodup/internal/services"
)

// Outcome reports what a group deletion did.
type Outcome struct {
	Deleted []library.AssetRef
	Kept    []library.AssetRef
	// Rescan is the scan run after a successful deletion. Nil when the
	// re-scan itself failed; the deletion still happened.
	Rescan *Result
}

// DeleteGroup removes a duplicate group through the library's atomic batch
// delete, keeping a survivor when the configured policy asks for one, and
// runs a fresh scan on success. A failed deletion surfaces the library's
// error verbatim, is never retried, and triggers no re-scan.
func (s *Service) DeleteGroup(ctx context.Context, group Group) (*Outcome, error) {
	if len(group.Members) < 2 {
		return nil, services.Wrap(services.ErrValidation, "deletion", "delete group",
			fmt.Sprintf("group %s has %d members, expected at least 2", group.ID(), len(group.Members)), nil)
	}

	victims, kept := splitSurvivor(group.Members, s.cfg.Deletion.Survivor)

	if err := s.lib.DeleteAssets(ctx, victims); err != nil {
		return nil, services.Wrap(services.ErrDeletion, "deletion", "delete group", group.ID(), err)
	}

	s.logger.Info("group deleted",
		logging.String("group", group.ID()),
		logging.Int("deleted", len(victims)),
		logging.Int("kept", len(kept)),
		logging.String("survivor_policy", s.cfg.Deletion.Survivor))

	outcome := &Outcome{Deleted: victims, Kept: kept}

	rescan, err := s.FindDuplicates(ctx)
	if err != nil {
		return outcome, fmt.Errorf("rescan after delete: %w", err)
	}
	outcome.Rescan = rescan
	return outcome, nil
}

// splitSurvivor partitions group members into deletion victims and kept
// survivors. The default policy "none" deletes the entire group, including
// the member that would have no remaining duplicate afterwards; that
// matches the product behavior and is a policy choice, not an oversight.
func splitSurvivor(members []library.AssetRef, policy string) (victims, kept []library.AssetRef) {
	survivor := -1
	switch policy {
	case "oldest":
		for i, ref := range members {
			if survivor < 0 || ref.CreatedAt.Before(members[survivor].CreatedAt) {
				survivor = i
			}
		}
	case "newest":
		for i, ref := range members {
			if survivor < 0 || ref.CreatedAt.After(members[survivor].CreatedAt) {
				survivor = i
			}
		}
	default:
		return append([]library.AssetRef(nil), members...), nil
	}

	victims = make([]library.AssetRef, 0, len(members)-1)
	for i, ref := range members {
		if i == survivor {
			kept = append(kept, ref)
			continue
		}
		victims = append(victims, ref)
	}
	return victims, kept
}
