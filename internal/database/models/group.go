package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/assigner/internal/database/dbretry"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GroupModel handles database operations for management groups.
type GroupModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGroup creates a GroupModel instance.
func NewGroup(db *bun.DB, logger *zap.Logger) *GroupModel {
	return &GroupModel{
		db:     db,
		logger: logger.Named("db_group"),
	}
}

// GetGroupForAccount returns the management group an account owns or belongs
// to, or nil if it has none. Ownership takes precedence over membership.
func (r *GroupModel) GetGroupForAccount(ctx context.Context, accountID int64) (*types.ManagementGroup, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ManagementGroup, error) {
		group := new(types.ManagementGroup)

		err := r.db.NewSelect().
			Model(group).
			WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("owner_id = ?", accountID).
					WhereOr("id IN (?)", r.db.NewSelect().
						Model((*types.ManagementMember)(nil)).
						Column("group_id").
						Where("account_id = ?", accountID))
			}).
			OrderExpr("owner_id = ? DESC", accountID).
			Order("id ASC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get management group: %w (accountID=%d)", err, accountID)
		}

		return group, nil
	})
}

// GetMemberIDs returns the account IDs of a management group's members.
func (r *GroupModel) GetMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]int64, error) {
		var ids []int64

		err := r.db.NewSelect().
			Model((*types.ManagementMember)(nil)).
			Column("account_id").
			Where("group_id = ?", groupID).
			Order("account_id ASC").
			Scan(ctx, &ids)
		if err != nil {
			return nil, fmt.Errorf("failed to get group members: %w (groupID=%d)", err, groupID)
		}

		return ids, nil
	})
}
