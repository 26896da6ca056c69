package types

import "time"

// ManagementGroup is a private organisation that moderates its own requests.
// OwnerID is the organisational account that files requests for the group.
type ManagementGroup struct {
	ID        int64     `bun:",pk,autoincrement"`
	OwnerID   int64     `bun:",notnull,unique"`
	Name      string    `bun:",notnull"`
	CreatedAt time.Time `bun:",notnull,default:current_timestamp"`
}

// ManagementMember is a moderator belonging to a management group.
type ManagementMember struct {
	GroupID   int64     `bun:",pk"`
	AccountID int64     `bun:",pk"`
	JoinedAt  time.Time `bun:",notnull,default:current_timestamp"`
}
