package assign

import (
	"fmt"

	"github.com/robalyx/assigner/internal/database/types/enum"
)

// ComputeExcludedIdentities returns every account that must not moderate the
// target: its owner, its type-specific conflicts of interest and extra.
func ComputeExcludedIdentities(target Target, extra []int64) (map[int64]struct{}, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: missing target", ErrIllegalModerationType)
	}

	switch target.Type() {
	case enum.ModerationTypeProject,
		enum.ModerationTypeCoreProject,
		enum.ModerationTypeCompetition,
		enum.ModerationTypeProfile:
	default:
		return nil, fmt.Errorf("%w: %s", ErrIllegalModerationType, target.Type())
	}

	conflicts := target.ExclusionSet()
	excluded := make(map[int64]struct{}, len(conflicts)+len(extra)+1)

	for id := range conflicts {
		excluded[id] = struct{}{}
	}

	excluded[target.Owner()] = struct{}{}

	for _, id := range extra {
		excluded[id] = struct{}{}
	}

	return excluded, nil
}
