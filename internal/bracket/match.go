package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	// Players are not known yet
	MatchPending    MatchStatus = "pending"
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
)

// Slot is the position of a player inside a match.
type Slot string

const (
	SlotP1 Slot = "P1"
	SlotP2 Slot = "P2"
)

// SlotForIndex returns the slot a match at matchIndex feeds in its parent match.
func SlotForIndex(matchIndex int) Slot {
	if matchIndex%2 == 0 {
		return SlotP1
	}
	return SlotP2
}

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`

	// Position in the bracket, round 1 being the earliest
	Round      int `db:"round" json:"round"`
	MatchIndex int `db:"match_index" json:"matchIndex"`

	Player1ID *uuid.UUID `db:"player1_id" json:"player1Id"`
	Player2ID *uuid.UUID `db:"player2_id" json:"player2Id"`

	ScoreP1 int         `db:"score_p1" json:"scoreP1"`
	ScoreP2 int         `db:"score_p2" json:"scoreP2"`
	Status  MatchStatus `db:"status" json:"status"`

	WinnerID *uuid.UUID `db:"winner_id" json:"winnerId"`
	IsLive   bool       `db:"is_live" json:"isLive"`

	NextMatchID   *uuid.UUID `db:"next_match_id" json:"nextMatchId"`
	NextMatchSlot *Slot      `db:"next_match_slot" json:"nextMatchSlot"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// IsFinal reports whether the match has no next match to feed.
func (m *Match) IsFinal() bool {
	return m.NextMatchID == nil
}

// HasPlayer reports whether id occupies one of the two slots.
func (m *Match) HasPlayer(id uuid.UUID) bool {
	return (m.Player1ID != nil && *m.Player1ID == id) || (m.Player2ID != nil && *m.Player2ID == id)
}

func (m *Match) IsWinner(slot Slot) bool {
	if m.Status != MatchCompleted || m.WinnerID == nil {
		return false
	}
	switch slot {
	case SlotP1:
		return m.Player1ID != nil && *m.Player1ID == *m.WinnerID
	case SlotP2:
		return m.Player2ID != nil && *m.Player2ID == *m.WinnerID
	}
	return false
}

// PlayerIDs returns every player and winner id referenced by matches, without duplicates.
func PlayerIDs(matches []Match) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id *uuid.UUID) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	for i := range matches {
		add(matches[i].Player1ID)
		add(matches[i].Player2ID)
		add(matches[i].WinnerID)
	}
	return ids
}
