package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/assigner/internal/database/types"
	"github.com/uptrace/bun"
)

func init() { //nolint:gochecknoinits // -
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []struct {
			model any
			name  string
		}{
			{(*types.Moderator)(nil), "moderators"},
			{(*types.AccountBlock)(nil), "account_blocks"},
			{(*types.ManagementGroup)(nil), "management_groups"},
			{(*types.ManagementMember)(nil), "management_members"},
			{(*types.Project)(nil), "projects"},
			{(*types.Competition)(nil), "competitions"},
			{(*types.CompetitionJudge)(nil), "competition_judges"},
			{(*types.CompetitionParticipant)(nil), "competition_participants"},
			{(*types.Profile)(nil), "profiles"},
			{(*types.ModerationAssignment)(nil), "moderation_assignments"},
			{(*types.RotationState)(nil), "rotation_states"},
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, table := range tables {
				_, err := tx.NewCreateTable().
					Model(table.model).
					ModelTableExpr(table.name).
					IfNotExists().
					Exec(ctx)
				if err != nil {
					return fmt.Errorf("failed to create table %s: %w", table.name, err)
				}
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{
			"rotation_states",
			"moderation_assignments",
			"profiles",
			"competition_participants",
			"competition_judges",
			"competitions",
			"projects",
			"management_members",
			"management_groups",
			"account_blocks",
			"moderators",
		}

		for _, table := range tables {
			if _, err := db.NewDropTable().Table(table).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
