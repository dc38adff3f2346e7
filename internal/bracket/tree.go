package bracket

import (
	"fmt"
	"math/bits"

	"github.com/google/uuid"
)

// Node is a match that has not been persisted yet. Nodes reference their parent by
// position in the slice returned from BuildTree, since store identifiers only
// exist after insertion.
type Node struct {
	Match Match
	// Index of the match the winner advances into, -1 for the final
	Parent int
	Slot   Slot
}

// TotalRounds validates a player count and returns the number of rounds its bracket needs.
func TotalRounds(playerCount int) (int, error) {
	if playerCount < 2 {
		return 0, ErrInsufficientPlayers
	}
	if playerCount&(playerCount-1) != 0 {
		return 0, fmt.Errorf("%w, got %d", ErrInvalidPlayerCount, playerCount)
	}
	return bits.TrailingZeros(uint(playerCount)), nil
}

// BuildTree lays out a full single elimination bracket for players, which are
// expected to be shuffled already. The final comes first and every match
// precedes its children. Round 1 match i gets players 2i and 2i+1.
func BuildTree(tournamentID uuid.UUID, players []uuid.UUID) ([]Node, error) {
	totalRounds, err := TotalRounds(len(players))
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(players)-1)

	var build func(round, matchIndex, parent int, slot Slot)
	build = func(round, matchIndex, parent int, slot Slot) {
		m := Match{
			TournamentID: tournamentID,
			Round:        round,
			MatchIndex:   matchIndex,
			Status:       MatchPending,
		}
		if round == 1 {
			p1, p2 := players[matchIndex*2], players[matchIndex*2+1]
			m.Player1ID, m.Player2ID = &p1, &p2
			m.Status = MatchScheduled
		}

		key := len(nodes)
		nodes = append(nodes, Node{Match: m, Parent: parent, Slot: slot})

		if round > 1 {
			build(round-1, matchIndex*2, key, SlotP1)
			build(round-1, matchIndex*2+1, key, SlotP2)
		}
	}
	build(totalRounds, 0, -1, "")

	return nodes, nil
}
