package service

import (
	"context"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/AdamBeresnev/shuttle-bracket/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type BracketService struct {
	db           *sqlx.DB
	matches      *store.MatchStore
	tournaments  *store.TournamentStore
	participants ParticipantSource
	names        NameResolver
	invalidator  Invalidator

	// Reorders players in place before round 1 pairings are made
	shuffle func([]uuid.UUID)
}

func NewBracketService(db *sqlx.DB, matches *store.MatchStore, tournaments *store.TournamentStore,
	participants ParticipantSource, names NameResolver, invalidator Invalidator) *BracketService {
	if invalidator == nil {
		invalidator = nopInvalidator{}
	}
	return &BracketService{
		db:           db,
		matches:      matches,
		tournaments:  tournaments,
		participants: participants,
		names:        names,
		invalidator:  invalidator,
		shuffle:      shufflePlayers,
	}
}

// Fisher-Yates, every permutation equally likely
func shufflePlayers(ids []uuid.UUID) {
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

type GenerateResult struct {
	TotalRounds int `json:"totalRounds"`
	PlayerCount int `json:"playerCount"`
}

// GenerateBracket builds the full match tree from the approved participants and confirms the tournament.
// The existence check, both insert passes and the status change share one transaction.
func (s *BracketService) GenerateBracket(ctx context.Context, tournamentID uuid.UUID) (*GenerateResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := s.tournaments.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return nil, lookupError("tournament", tournamentID, err)
	}

	existing, err := s.matches.CountMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storageError("count matches", err)
	}
	if existing > 0 {
		return nil, bracket.ErrAlreadyExists
	}

	approved, err := s.participants.ListApprovedTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, storageError("list approved participants", err)
	}

	players := slices.Clone(approved)
	s.shuffle(players)

	tree, err := bracket.BuildTree(tournamentID, players)
	if err != nil {
		return nil, err
	}

	if err := s.persistTree(ctx, tx, tree); err != nil {
		return nil, err
	}

	if err := s.tournaments.UpdateTournamentStatusTx(ctx, tx, tournamentID, bracket.TournamentConfirmed); err != nil {
		return nil, storageError("confirm tournament", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageError("commit bracket", err)
	}

	totalRounds, _ := bracket.TotalRounds(len(players))
	log.Info().
		Str("tournament_id", tournamentID.String()).
		Int("players", len(players)).
		Int("rounds", totalRounds).
		Msg("Bracket generated")

	s.invalidator.Invalidate(tournamentID)

	return &GenerateResult{TotalRounds: totalRounds, PlayerCount: len(players)}, nil
}

// persistTree inserts parents before children, then links every child to its parent's stored id.
func (s *BracketService) persistTree(ctx context.Context, tx *sqlx.Tx, tree []bracket.Node) error {
	order := make([]int, len(tree))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tree[order[a]].Match.Round > tree[order[b]].Match.Round
	})

	ids := make([]uuid.UUID, len(tree))
	for _, key := range order {
		id, err := s.matches.CreateMatch(ctx, tx, &tree[key].Match)
		if err != nil {
			return storageError("create match", err)
		}
		ids[key] = id
	}

	for _, key := range order {
		node := tree[key]
		if node.Parent < 0 {
			continue
		}
		if err := s.matches.LinkNextMatch(ctx, tx, ids[key], ids[node.Parent], node.Slot); err != nil {
			return storageError("link match", err)
		}
	}
	return nil
}

// DeleteBracket removes every match of the tournament and reopens it for confirmation.
func (s *BracketService) DeleteBracket(ctx context.Context, tournamentID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := s.tournaments.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return lookupError("tournament", tournamentID, err)
	}

	deleted, err := s.matches.DeleteMatchesTx(ctx, tx, tournamentID)
	if err != nil {
		return storageError("delete matches", err)
	}

	if err := s.tournaments.UpdateTournamentStatusTx(ctx, tx, tournamentID, bracket.TournamentPendingConfirmation); err != nil {
		return storageError("revert tournament status", err)
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit bracket deletion", err)
	}

	log.Info().
		Str("tournament_id", tournamentID.String()).
		Int64("matches", deleted).
		Msg("Bracket deleted")

	s.invalidator.Invalidate(tournamentID)
	return nil
}

type BracketData struct {
	Matches   []bracket.Match         `json:"matches"`
	Rounds    map[int][]bracket.Match `json:"rounds"`
	RoundNums []int                   `json:"roundNums"`
}

// TotalRounds is the round number of the final, 0 when there is no bracket.
func (d *BracketData) TotalRounds() int {
	if len(d.RoundNums) == 0 {
		return 0
	}
	return d.RoundNums[len(d.RoundNums)-1]
}

// Final returns the final match, or nil when there is no bracket.
func (d *BracketData) Final() *bracket.Match {
	final := d.Rounds[d.TotalRounds()]
	if len(final) == 0 {
		return nil
	}
	return &final[0]
}

// GetBracketData reads the bracket grouped by round. It never writes.
func (s *BracketService) GetBracketData(ctx context.Context, tournamentID uuid.UUID) (*BracketData, error) {
	matches, err := s.matches.GetMatches(ctx, tournamentID)
	if err != nil {
		return nil, storageError("get matches", err)
	}
	return GroupRounds(matches), nil
}

// GroupRounds groups matches by round, each round ordered by match index.
func GroupRounds(matches []bracket.Match) *BracketData {
	rounds := make(map[int][]bracket.Match)
	var roundNums []int

	for _, m := range matches {
		if _, exists := rounds[m.Round]; !exists {
			roundNums = append(roundNums, m.Round)
		}
		rounds[m.Round] = append(rounds[m.Round], m)
	}

	sort.Ints(roundNums)
	for _, r := range roundNums {
		sort.Slice(rounds[r], func(i, j int) bool {
			return rounds[r][i].MatchIndex < rounds[r][j].MatchIndex
		})
	}

	if matches == nil {
		matches = []bracket.Match{}
	}
	return &BracketData{Matches: matches, Rounds: rounds, RoundNums: roundNums}
}

type BracketView struct {
	Tournament *bracket.Tournament
	Bracket    *BracketData
	Names      map[uuid.UUID]string
	Champion   *uuid.UUID
	// First match that can be played next, if any
	NextMatchID *uuid.UUID
}

// Name returns the display name for a player slot.
func (v *BracketView) Name(id *uuid.UUID) string {
	if id == nil {
		return "TBD"
	}
	if name, ok := v.Names[*id]; ok {
		return name
	}
	return UnknownPlayerName
}

// GetBracketView loads everything the tournament page shows. Name lookup failures only degrade names.
func (s *BracketService) GetBracketView(ctx context.Context, tournamentID uuid.UUID) (*BracketView, error) {
	var (
		tournament *bracket.Tournament
		data       *BracketData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournaments.GetTournament(gctx, tournamentID)
		if err != nil {
			return lookupError("tournament", tournamentID, err)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		d, err := s.GetBracketData(gctx, tournamentID)
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &BracketView{
		Tournament: tournament,
		Bracket:    data,
		Names:      resolveNames(ctx, s.names, bracket.PlayerIDs(data.Matches)),
	}

	if final := data.Final(); final != nil && final.Status == bracket.MatchCompleted {
		view.Champion = final.WinnerID
	}
	for _, m := range data.Matches {
		if m.Status == bracket.MatchScheduled || m.Status == bracket.MatchInProgress {
			id := m.ID
			view.NextMatchID = &id
			break
		}
	}

	return view, nil
}

// Champion returns the winner of the final, or nil while the final is undecided.
func (s *BracketService) Champion(ctx context.Context, tournamentID uuid.UUID) (*uuid.UUID, error) {
	final, err := s.matches.GetFinal(ctx, tournamentID)
	if err != nil {
		return nil, lookupError("bracket for tournament", tournamentID, err)
	}
	if final.Status != bracket.MatchCompleted {
		return nil, nil
	}
	return final.WinnerID, nil
}

func resolveNames(ctx context.Context, resolver NameResolver, ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	if resolver != nil && len(ids) > 0 {
		resolved, err := resolver.ResolveNames(ctx, ids)
		if err != nil {
			log.Warn().Err(err).Int("ids", len(ids)).Msg("Failed to resolve player names")
		}
		for id, name := range resolved {
			names[id] = name
		}
	}

	for _, id := range ids {
		if names[id] == "" {
			names[id] = UnknownPlayerName
		}
	}
	return names
}
