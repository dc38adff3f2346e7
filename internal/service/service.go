package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UnknownPlayerName is shown for players whose name could not be resolved.
const UnknownPlayerName = "Anonymous"

// ParticipantSource supplies the approved participants of a tournament, read inside tx.
type ParticipantSource interface {
	ListApprovedTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]uuid.UUID, error)
}

type NameResolver interface {
	ResolveNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Invalidator is told after every committed change so pages showing the tournament can refresh.
type Invalidator interface {
	Invalidate(tournamentID uuid.UUID)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(uuid.UUID) {}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", bracket.ErrStorage, op, err)
}

// lookupError turns a missing row into ErrNotFound and anything else into a storage failure.
func lookupError(what string, id uuid.UUID, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", bracket.ErrNotFound, what, id)
	}
	return storageError("get "+what, err)
}
