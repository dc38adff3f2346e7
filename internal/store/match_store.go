package store

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchStore struct {
	db *sqlx.DB
}

const (
	countMatchesQuery = "SELECT COUNT(*) FROM matches WHERE tournament_id = ?"
	getMatchQuery     = "SELECT * FROM matches WHERE id = ?"
	getMatchesQuery   = "SELECT * FROM matches WHERE tournament_id = ? ORDER BY round ASC, match_index ASC"
	getFinalQuery     = `
		SELECT * FROM matches
		WHERE tournament_id = ? AND next_match_id IS NULL
		ORDER BY round DESC
		LIMIT 1
	`
	createMatchQuery = `
		INSERT INTO matches (id, tournament_id, round, match_index, player1_id, player2_id, score_p1, score_p2, status, is_live)
		VALUES (:id, :tournament_id, :round, :match_index, :player1_id, :player2_id, :score_p1, :score_p2, :status, :is_live)
	`
	linkNextMatchQuery = `
		UPDATE matches SET next_match_id = ?, next_match_slot = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	completeMatchQuery = `
		UPDATE matches SET winner_id = ?, status = 'completed', is_live = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status <> 'completed'
	`
	// Each slot has its own statement so sibling matches never overwrite each other's column
	fillSlotP1Query = `
		UPDATE matches SET player1_id = ?, status = 'scheduled', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	fillSlotP2Query = `
		UPDATE matches SET player2_id = ?, status = 'scheduled', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	updateScoreQuery = `
		UPDATE matches SET score_p1 = ?, score_p2 = ?, status = 'in_progress', is_live = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status <> 'completed'
	`
	deleteMatchesQuery = "DELETE FROM matches WHERE tournament_id = ?"
)

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

func (s *MatchStore) CountMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, tx.Rebind(countMatchesQuery), tournamentID)
	return count, err
}

// CreateMatch inserts m and returns the identifier the store assigned to it.
// Links to the next match are written separately with LinkNextMatch.
func (s *MatchStore) CreateMatch(ctx context.Context, tx *sqlx.Tx, m *bracket.Match) (uuid.UUID, error) {
	m.ID = uuid.New()
	if _, err := tx.NamedExecContext(ctx, createMatchQuery, m); err != nil {
		return uuid.Nil, err
	}
	return m.ID, nil
}

func (s *MatchStore) LinkNextMatch(ctx context.Context, tx *sqlx.Tx, matchID, nextMatchID uuid.UUID, slot bracket.Slot) error {
	return execOne(ctx, tx, linkNextMatchQuery, nextMatchID, slot, matchID)
}

func (s *MatchStore) GetMatch(ctx context.Context, id uuid.UUID) (*bracket.Match, error) {
	return getMatch(ctx, s.db, id)
}

func (s *MatchStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Match, error) {
	return getMatch(ctx, tx, id)
}

func getMatch(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	if err := sqlx.GetContext(ctx, q, &match, q.Rebind(getMatchQuery), id); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMatches returns every match of a tournament ordered by round, then index within the round.
func (s *MatchStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, s.db.Rebind(getMatchesQuery), tournamentID)
	return matches, err
}

func (s *MatchStore) GetFinal(ctx context.Context, tournamentID uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	if err := s.db.GetContext(ctx, &match, s.db.Rebind(getFinalQuery), tournamentID); err != nil {
		return nil, err
	}
	return &match, nil
}

// CompleteMatch records the winner. It reports false when the match was already completed.
func (s *MatchStore) CompleteMatch(ctx context.Context, tx *sqlx.Tx, matchID, winnerID uuid.UUID) (bool, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(completeMatchQuery), winnerID, matchID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// FillSlot places playerID into one slot of a match and marks the match scheduled.
func (s *MatchStore) FillSlot(ctx context.Context, tx *sqlx.Tx, matchID uuid.UUID, slot bracket.Slot, playerID uuid.UUID) error {
	switch slot {
	case bracket.SlotP1:
		return execOne(ctx, tx, fillSlotP1Query, playerID, matchID)
	case bracket.SlotP2:
		return execOne(ctx, tx, fillSlotP2Query, playerID, matchID)
	}
	return fmt.Errorf("unknown slot %q", slot)
}

// UpdateScore stores the scores of a match that is not completed. It reports false otherwise.
func (s *MatchStore) UpdateScore(ctx context.Context, tx *sqlx.Tx, matchID uuid.UUID, scoreP1, scoreP2 int) (bool, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(updateScoreQuery), scoreP1, scoreP2, matchID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *MatchStore) DeleteMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int64, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(deleteMatchesQuery), tournamentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func execOne(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("expected 1 row to be updated, got %d", n)
	}
	return nil
}
