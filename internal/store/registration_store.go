package store

import (
	"context"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RegistrationStore is the source of bracket participants: users whose registration was approved.
type RegistrationStore struct {
	db *sqlx.DB
}

const (
	createRegistrationQuery = `
		INSERT INTO registrations (id, tournament_id, user_id, status)
		VALUES (:id, :tournament_id, :user_id, :status)
	`
	updateRegistrationStatusQuery = "UPDATE registrations SET status = ? WHERE tournament_id = ? AND user_id = ?"
	listApprovedQuery             = `
		SELECT user_id FROM registrations
		WHERE tournament_id = ? AND status = 'approved'
		ORDER BY created_at ASC, id ASC
	`
)

func NewRegistrationStore(db *sqlx.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) CreateRegistration(ctx context.Context, registration *bracket.Registration) error {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	_, err := s.db.NamedExecContext(ctx, createRegistrationQuery, registration)
	return err
}

func (s *RegistrationStore) UpdateRegistrationStatus(ctx context.Context, tournamentID, userID uuid.UUID, status bracket.RegistrationStatus) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(updateRegistrationStatusQuery), status, tournamentID, userID)
	return err
}

// ListApprovedTx returns the ids of approved participants in registration order.
// Reading inside tx keeps the snapshot in the transaction that builds the bracket.
func (s *RegistrationStore) ListApprovedTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.SelectContext(ctx, &ids, tx.Rebind(listApprovedQuery), tournamentID)
	return ids, err
}
