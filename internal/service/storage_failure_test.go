package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// abortWith installs a trigger that fails matching writes, removed again at cleanup.
func (f *fixture) abortWith(t *testing.T, name, definition string) {
	t.Helper()
	_, err := f.db.Exec("CREATE TRIGGER " + name + " " + definition)
	require.NoError(t, err)
	t.Cleanup(func() { f.db.Exec("DROP TRIGGER IF EXISTS " + name) })
}

func (f *fixture) dropTrigger(t *testing.T, name string) {
	t.Helper()
	_, err := f.db.Exec("DROP TRIGGER " + name)
	require.NoError(t, err)
}

func TestGenerateBracketRollsBackFailedLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournamentID, _ := f.seedPlayers(t, 8)

	// Every match is inserted before the last round 1 link fails
	f.abortWith(t, "fail_link", `BEFORE UPDATE OF next_match_id ON matches
		WHEN NEW.round = 1 AND NEW.match_index = 3
		BEGIN SELECT RAISE(ABORT, 'link rejected'); END`)

	result, err := f.brackets.GenerateBracket(ctx, tournamentID)
	assert.ErrorIs(t, err, bracket.ErrStorage)
	assert.Nil(t, result)

	assert.Empty(t, f.bracketData(t, tournamentID).Matches)
	assert.Equal(t, bracket.TournamentPendingConfirmation, f.tournamentStatus(t, tournamentID))
	assert.Empty(t, f.invalidator.calls())

	f.dropTrigger(t, "fail_link")
	_, err = f.brackets.GenerateBracket(ctx, tournamentID)
	require.NoError(t, err)
	assert.Len(t, f.bracketData(t, tournamentID).Matches, 7)
}

func TestGenerateBracketRollsBackFailedStatusChange(t *testing.T) {
	f := newFixture(t)
	tournamentID, _ := f.seedPlayers(t, 4)

	f.abortWith(t, "fail_confirm", `BEFORE UPDATE OF status ON tournaments
		BEGIN SELECT RAISE(ABORT, 'status rejected'); END`)

	_, err := f.brackets.GenerateBracket(context.Background(), tournamentID)
	assert.ErrorIs(t, err, bracket.ErrStorage)

	assert.Empty(t, f.bracketData(t, tournamentID).Matches)
	assert.Equal(t, bracket.TournamentPendingConfirmation, f.tournamentStatus(t, tournamentID))
	assert.Empty(t, f.invalidator.calls())
}

func TestAdvanceWinnerRollsBackFailedPropagation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournamentID, data := generate(t, f, 4)
	m := data.Rounds[1][0]

	f.abortWith(t, "fail_fill", `BEFORE UPDATE OF player1_id, player2_id ON matches
		WHEN NEW.round = 2
		BEGIN SELECT RAISE(ABORT, 'slot rejected'); END`)

	_, err := f.matchService.AdvanceWinner(ctx, m.ID, *m.Player1ID)
	assert.ErrorIs(t, err, bracket.ErrStorage)

	current := f.match(t, m.ID)
	assert.Equal(t, bracket.MatchScheduled, current.Status)
	assert.Nil(t, current.WinnerID)

	final := f.bracketData(t, tournamentID).Final()
	assert.Nil(t, final.Player1ID)
	assert.Equal(t, bracket.MatchPending, final.Status)

	// Only the generation was announced
	assert.Len(t, f.invalidator.calls(), 1)

	f.dropTrigger(t, "fail_fill")
	_, err = f.matchService.AdvanceWinner(ctx, m.ID, *m.Player1ID)
	require.NoError(t, err)
	assert.Equal(t, *m.Player1ID, *f.match(t, final.ID).Player1ID)
}
