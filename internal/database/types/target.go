package types

import "time"

// Project is a community project. Core projects share the table and are
// distinguished by IsCore.
type Project struct {
	ID        int64     `bun:",pk,autoincrement"`
	CreatorID int64     `bun:",notnull"`
	Name      string    `bun:",notnull"`
	IsCore    bool      `bun:",notnull,default:false"`
	CreatedAt time.Time `bun:",notnull,default:current_timestamp"`
}

// Competition is a competition hosted by CreatorID.
type Competition struct {
	ID        int64     `bun:",pk,autoincrement"`
	CreatorID int64     `bun:",notnull"`
	Title     string    `bun:",notnull"`
	CreatedAt time.Time `bun:",notnull,default:current_timestamp"`

	Judges       []*CompetitionJudge       `bun:"rel:has-many,join:id=competition_id"`
	Participants []*CompetitionParticipant `bun:"rel:has-many,join:id=competition_id"`
}

// CompetitionJudge links a judge account to a competition.
type CompetitionJudge struct {
	CompetitionID int64 `bun:",pk"`
	AccountID     int64 `bun:",pk"`
}

// CompetitionParticipant links a participant account to a competition.
// Invited participants have Confirmed set to false.
type CompetitionParticipant struct {
	CompetitionID int64     `bun:",pk"`
	AccountID     int64     `bun:",pk"`
	Confirmed     bool      `bun:",notnull,default:false"`
	JoinedAt      time.Time `bun:",notnull,default:current_timestamp"`
}

// Profile is an account profile. Its ID is the account ID.
type Profile struct {
	ID        int64     `bun:",pk"`
	Handle    string    `bun:",notnull"`
	CreatedAt time.Time `bun:",notnull,default:current_timestamp"`
}
