package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/AdamBeresnev/shuttle-bracket/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTournament(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTournamentStore(db)
	creator := createUser(t, db, "organiser")

	tournament := &bracket.Tournament{
		CreatorID:  creator.ID,
		Name:       "Spring Open",
		Location:   utils.StringOrNil("Sports Hall B"),
		Status:     bracket.TournamentRegistering,
		MinPlayers: 4,
		MaxPlayers: 32,
	}

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateTournament(ctx, tx, tournament))
	require.NoError(t, tx.Commit())
	require.NotEqual(t, uuid.Nil, tournament.ID)

	fetched, err := store.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)

	assert.Equal(t, tournament.ID, fetched.ID)
	assert.Equal(t, creator.ID, fetched.CreatorID)
	assert.Equal(t, "Spring Open", fetched.Name)
	require.NotNil(t, fetched.Location)
	assert.Equal(t, "Sports Hall B", *fetched.Location)
	assert.Equal(t, bracket.TournamentRegistering, fetched.Status)
	assert.Equal(t, 4, fetched.MinPlayers)
	assert.Equal(t, 32, fetched.MaxPlayers)
	assert.Nil(t, fetched.StartDate)
	assert.False(t, fetched.CreatedAt.IsZero())
}

func TestGetTournamentMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewTournamentStore(db).GetTournament(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetTournaments(t *testing.T) {
	db := setupTestDB(t)
	creator := createUser(t, db, "organiser")
	createTournament(t, db, creator.ID)
	createTournament(t, db, creator.ID)

	tournaments, err := NewTournamentStore(db).GetTournaments(context.Background())
	require.NoError(t, err)
	assert.Len(t, tournaments, 2)
}

func TestUpdateTournamentStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewTournamentStore(db)
	tournament := createTournament(t, db, createUser(t, db, "organiser").ID)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.UpdateTournamentStatusTx(ctx, tx, tournament.ID, bracket.TournamentConfirmed))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentConfirmed, fetched.Status)

	t.Run("unknown tournament", func(t *testing.T) {
		tx, err := db.BeginTxx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		err = store.UpdateTournamentStatusTx(ctx, tx, uuid.New(), bracket.TournamentConfirmed)
		assert.Error(t, err)
	})
}
