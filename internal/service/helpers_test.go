package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/AdamBeresnev/shuttle-bracket/internal/store"
	"github.com/AdamBeresnev/shuttle-bracket/internal/testutil"
	users "github.com/AdamBeresnev/shuttle-bracket/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(tournamentID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, tournamentID)
}

func (r *recordingInvalidator) calls() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.ids...)
}

type failingResolver struct{}

func (failingResolver) ResolveNames(context.Context, []uuid.UUID) (map[uuid.UUID]string, error) {
	return nil, errors.New("name lookup unavailable")
}

type fixture struct {
	db            *sqlx.DB
	matches       *store.MatchStore
	tournaments   *store.TournamentStore
	registrations *store.RegistrationStore
	users         *store.UserStore
	invalidator   *recordingInvalidator
	brackets      *BracketService
	matchService  *MatchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	f := &fixture{
		db:            db,
		matches:       store.NewMatchStore(db),
		tournaments:   store.NewTournamentStore(db),
		registrations: store.NewRegistrationStore(db),
		users:         store.NewUserStore(db),
		invalidator:   &recordingInvalidator{},
	}
	f.brackets = NewBracketService(db, f.matches, f.tournaments, f.registrations, f.users, f.invalidator)
	f.matchService = NewMatchService(db, f.matches, f.users, f.invalidator)
	return f
}

func (f *fixture) createUser(t *testing.T, name string) uuid.UUID {
	t.Helper()
	user := &users.User{Email: name + "@example.com", Username: name}
	require.NoError(t, f.users.CreateUser(context.Background(), user))
	return user.ID
}

// seedTournament creates a tournament with one approved participant per name.
func (f *fixture) seedTournament(t *testing.T, names ...string) (uuid.UUID, []uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	tournament := &bracket.Tournament{
		CreatorID:  f.createUser(t, "organiser-"+uuid.NewString()[:8]),
		Name:       "Club Championship",
		Status:     bracket.TournamentPendingConfirmation,
		MinPlayers: 2,
		MaxPlayers: 64,
	}
	tx, err := f.db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, f.tournaments.CreateTournament(ctx, tx, tournament))
	require.NoError(t, tx.Commit())

	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		ids[i] = f.createUser(t, name)
		require.NoError(t, f.registrations.CreateRegistration(ctx, &bracket.Registration{
			TournamentID: tournament.ID,
			UserID:       ids[i],
			Status:       bracket.RegistrationApproved,
		}))
	}
	return tournament.ID, ids
}

func (f *fixture) seedPlayers(t *testing.T, n int) (uuid.UUID, []uuid.UUID) {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("player%02d", i+1)
	}
	return f.seedTournament(t, names...)
}

// fixedOrder replaces the shuffle with a known permutation.
func fixedOrder(order ...uuid.UUID) func([]uuid.UUID) {
	return func(ids []uuid.UUID) {
		copy(ids, order)
	}
}

func (f *fixture) bracketData(t *testing.T, tournamentID uuid.UUID) *BracketData {
	t.Helper()
	data, err := f.brackets.GetBracketData(context.Background(), tournamentID)
	require.NoError(t, err)
	return data
}

func (f *fixture) match(t *testing.T, id uuid.UUID) *bracket.Match {
	t.Helper()
	m, err := f.matches.GetMatch(context.Background(), id)
	require.NoError(t, err)
	return m
}

func (f *fixture) tournamentStatus(t *testing.T, id uuid.UUID) bracket.TournamentStatus {
	t.Helper()
	tournament, err := f.tournaments.GetTournament(context.Background(), id)
	require.NoError(t, err)
	return tournament.Status
}
