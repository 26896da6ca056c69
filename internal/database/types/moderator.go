package types

import "time"

// Moderator is an account that may be assigned moderation requests.
type Moderator struct {
	ID           int64     `bun:",pk"`
	IsModerator  bool      `bun:",notnull,default:false"`
	IsActive     bool      `bun:",notnull,default:true"`
	IsSuspended  bool      `bun:",notnull,default:false"`
	IsZombie     bool      `bun:",notnull,default:false"`
	IsManagement bool      `bun:",notnull,default:false"`
	Reputation   int       `bun:",notnull,default:0"`
	CreatedAt    time.Time `bun:",notnull,default:current_timestamp"`
}

// IsEligible reports whether the account currently satisfies the base
// moderator predicate: moderator role, active, not suspended, not a zombie.
func (m *Moderator) IsEligible() bool {
	return m != nil && m.IsModerator && m.IsActive && !m.IsSuspended && !m.IsZombie
}

// AccountBlock records that BlockerID has blocked BlockedID. Blocks are directional.
type AccountBlock struct {
	BlockerID int64     `bun:",pk"`
	BlockedID int64     `bun:",pk"`
	CreatedAt time.Time `bun:",notnull,default:current_timestamp"`
}
