package views

import (
	"fmt"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
)

// RoundLabel names a round counting back from the final.
func RoundLabel(round, totalRounds int) string {
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semi-finals"
	case 2:
		return "Quarter-finals"
	}
	return fmt.Sprintf("Round %d", round)
}

func StatusLabel(status bracket.MatchStatus) string {
	switch status {
	case bracket.MatchPending:
		return "Waiting for players"
	case bracket.MatchScheduled:
		return "Scheduled"
	case bracket.MatchInProgress:
		return "In progress"
	case bracket.MatchCompleted:
		return "Completed"
	}
	return string(status)
}

func TournamentStatusLabel(status bracket.TournamentStatus) string {
	switch status {
	case bracket.TournamentRegistering:
		return "Registration open"
	case bracket.TournamentPendingConfirmation:
		return "Awaiting bracket"
	case bracket.TournamentConfirmed:
		return "Bracket confirmed"
	case bracket.TournamentCompleted:
		return "Finished"
	}
	return string(status)
}

func slotClass(m *bracket.Match, slot bracket.Slot) string {
	if m.IsWinner(slot) {
		return "slot winner"
	}
	if m.Status == bracket.MatchCompleted {
		return "slot loser"
	}
	return "slot"
}
