package commands

import (
	"errors"

	"github.com/robalyx/assigner/internal/database"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

var (
	ErrNameRequired    = errors.New("NAME argument required")
	ErrAccountRequired = errors.New("ACCOUNT_ID argument required")
	ErrInvalidID       = errors.New("invalid ID: must be a number")
)

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	DB       database.Client
	Migrator *migrate.Migrator
	Logger   *zap.Logger
}
