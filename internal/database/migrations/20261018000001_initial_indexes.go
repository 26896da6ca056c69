package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() { //nolint:gochecknoinits // -
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			// Candidate pool query filters on the base predicate and ranks by reputation
			`CREATE INDEX IF NOT EXISTS idx_moderators_eligible
			 ON moderators (reputation DESC, id ASC)
			 WHERE is_moderator AND is_active AND NOT is_suspended AND NOT is_zombie`,

			// Block lookups are always "who blocked this owner"
			`CREATE INDEX IF NOT EXISTS idx_account_blocks_blocked
			 ON account_blocks (blocked_id, blocker_id)`,

			`CREATE INDEX IF NOT EXISTS idx_management_members_account
			 ON management_members (account_id)`,

			// Latest assignment per target
			`CREATE INDEX IF NOT EXISTS idx_moderation_assignments_target
			 ON moderation_assignments (type, target_id, requested_at DESC, id DESC)`,

			`CREATE INDEX IF NOT EXISTS idx_moderation_assignments_moderator_pending
			 ON moderation_assignments (moderator_id)
			 WHERE NOT resolved`,
		}

		for _, index := range indexes {
			if _, err := db.ExecContext(ctx, index); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"idx_moderators_eligible",
			"idx_account_blocks_blocked",
			"idx_management_members_account",
			"idx_moderation_assignments_target",
			"idx_moderation_assignments_moderator_pending",
		}

		for _, index := range indexes {
			if _, err := db.ExecContext(ctx, "DROP INDEX IF EXISTS "+index); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", index, err)
			}
		}

		return nil
	})
}
