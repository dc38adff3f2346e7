package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/AdamBeresnev/shuttle-bracket/internal/testutil"
	users "github.com/AdamBeresnev/shuttle-bracket/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return testutil.NewTestDB(t)
}

func createUser(t *testing.T, db *sqlx.DB, username string) *users.User {
	t.Helper()

	user := &users.User{
		Email:    fmt.Sprintf("%s@example.com", username),
		Username: username,
	}
	require.NoError(t, NewUserStore(db).CreateUser(context.Background(), user))
	return user
}

func createTournament(t *testing.T, db *sqlx.DB, creatorID uuid.UUID) *bracket.Tournament {
	t.Helper()

	tournament := &bracket.Tournament{
		CreatorID:  creatorID,
		Name:       "Club Championship",
		Status:     bracket.TournamentRegistering,
		MinPlayers: 2,
		MaxPlayers: 16,
	}

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, NewTournamentStore(db).CreateTournament(context.Background(), tx, tournament))
	require.NoError(t, tx.Commit())
	return tournament
}
