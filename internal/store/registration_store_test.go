package store

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListApproved(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewRegistrationStore(db)

	ana := createUser(t, db, "ana")
	ben := createUser(t, db, "ben")
	cleo := createUser(t, db, "cleo")
	tournament := createTournament(t, db, ana.ID)

	for _, u := range []uuid.UUID{ana.ID, ben.ID, cleo.ID} {
		require.NoError(t, store.CreateRegistration(ctx, &bracket.Registration{
			TournamentID: tournament.ID,
			UserID:       u,
			Status:       bracket.RegistrationPending,
		}))
	}
	require.NoError(t, store.UpdateRegistrationStatus(ctx, tournament.ID, ana.ID, bracket.RegistrationApproved))
	require.NoError(t, store.UpdateRegistrationStatus(ctx, tournament.ID, cleo.ID, bracket.RegistrationApproved))
	require.NoError(t, store.UpdateRegistrationStatus(ctx, tournament.ID, ben.ID, bracket.RegistrationRejected))

	withTx(t, db, func(tx *sqlx.Tx) {
		approved, err := store.ListApprovedTx(ctx, tx, tournament.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{ana.ID, cleo.ID}, approved)

		other, err := store.ListApprovedTx(ctx, tx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}

func TestListApprovedReadsInsideTransaction(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewRegistrationStore(db)

	ana := createUser(t, db, "ana")
	tournament := createTournament(t, db, ana.ID)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind("INSERT INTO registrations (id, tournament_id, user_id, status) VALUES (?, ?, ?, 'approved')"),
		uuid.New(), tournament.ID, ana.ID)
	require.NoError(t, err)

	// The uncommitted approval is only visible through the same transaction
	approved, err := store.ListApprovedTx(ctx, tx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ana.ID}, approved)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewRegistrationStore(db)

	ana := createUser(t, db, "ana")
	tournament := createTournament(t, db, ana.ID)

	registration := bracket.Registration{TournamentID: tournament.ID, UserID: ana.ID, Status: bracket.RegistrationApproved}
	require.NoError(t, store.CreateRegistration(ctx, &registration))

	again := bracket.Registration{TournamentID: tournament.ID, UserID: ana.ID, Status: bracket.RegistrationApproved}
	assert.Error(t, store.CreateRegistration(ctx, &again))
}
