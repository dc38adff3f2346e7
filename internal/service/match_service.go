package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/AdamBeresnev/shuttle-bracket/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type MatchService struct {
	db          *sqlx.DB
	store       *store.MatchStore
	names       NameResolver
	invalidator Invalidator
}

func NewMatchService(db *sqlx.DB, store *store.MatchStore, names NameResolver, invalidator Invalidator) *MatchService {
	if invalidator == nil {
		invalidator = nopInvalidator{}
	}
	return &MatchService{db: db, store: store, names: names, invalidator: invalidator}
}

type MatchData struct {
	Match       *bracket.Match
	Player1Name string
	Player2Name string
}

func (s *MatchService) GetMatchViewData(ctx context.Context, matchID uuid.UUID) (*MatchData, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, lookupError("match", matchID, err)
	}

	names := resolveNames(ctx, s.names, bracket.PlayerIDs([]bracket.Match{*match}))
	data := &MatchData{Match: match, Player1Name: "TBD", Player2Name: "TBD"}
	if match.Player1ID != nil {
		data.Player1Name = names[*match.Player1ID]
	}
	if match.Player2ID != nil {
		data.Player2Name = names[*match.Player2ID]
	}
	return data, nil
}

// AdvanceWinner completes a match and moves the winner into its slot of the next match.
// Both writes commit together. It returns the owning tournament id.
func (s *MatchService) AdvanceWinner(ctx context.Context, matchID uuid.UUID, winnerID uuid.UUID) (uuid.UUID, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, storageError("begin transaction", err)
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return uuid.Nil, lookupError("match", matchID, err)
	}

	if match.Status == bracket.MatchCompleted {
		return uuid.Nil, bracket.ErrAlreadyCompleted
	}
	if !match.HasPlayer(winnerID) {
		return uuid.Nil, bracket.ErrInvalidWinner
	}

	completed, err := s.store.CompleteMatch(ctx, tx, matchID, winnerID)
	if err != nil {
		return uuid.Nil, storageError("complete match", err)
	}
	if !completed {
		return uuid.Nil, bracket.ErrAlreadyCompleted
	}

	if match.NextMatchID != nil {
		if match.NextMatchSlot == nil {
			return uuid.Nil, fmt.Errorf("%w: match %s has a next match but no slot", bracket.ErrStorage, matchID)
		}
		if err := s.store.FillSlot(ctx, tx, *match.NextMatchID, *match.NextMatchSlot, winnerID); err != nil {
			return uuid.Nil, storageError("advance winner", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, storageError("commit advancement", err)
	}

	event := log.Info().
		Str("tournament_id", match.TournamentID.String()).
		Str("match_id", matchID.String()).
		Str("winner_id", winnerID.String())
	if match.IsFinal() {
		event.Msg("Champion decided")
	} else {
		event.Str("next_match_id", match.NextMatchID.String()).Msg("Winner advanced")
	}

	s.invalidator.Invalidate(match.TournamentID)
	return match.TournamentID, nil
}

// UpdateScore records interim or final scores and marks the match live.
// It never completes the match, that only happens through AdvanceWinner.
func (s *MatchService) UpdateScore(ctx context.Context, matchID uuid.UUID, scoreP1, scoreP2 int) error {
	if scoreP1 < 0 || scoreP2 < 0 {
		return bracket.ErrInvalidScore
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID)
	if err != nil {
		return lookupError("match", matchID, err)
	}

	updated, err := s.store.UpdateScore(ctx, tx, matchID, scoreP1, scoreP2)
	if err != nil {
		return storageError("update score", err)
	}
	if !updated {
		return bracket.ErrAlreadyCompleted
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit score", err)
	}

	log.Info().
		Str("tournament_id", match.TournamentID.String()).
		Str("match_id", matchID.String()).
		Int("score_p1", scoreP1).
		Int("score_p2", scoreP2).
		Msg("Score updated")

	s.invalidator.Invalidate(match.TournamentID)
	return nil
}
