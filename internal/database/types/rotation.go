package types

import "time"

// RotationState is a durable key-value pair holding round-robin state.
type RotationState struct {
	Key       string    `bun:",pk"`
	Value     string    `bun:",notnull"`
	UpdatedAt time.Time `bun:",notnull,default:current_timestamp"`
}
