package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/AdamBeresnev/shuttle-bracket/internal/service"
	"github.com/a-h/templ"
	"github.com/google/uuid"
)

func MatchView(data *service.MatchData) templ.Component {
	m := data.Match
	return Layout("Match", htmlComponent(func(ctx context.Context, b *strings.Builder) {
		fmt.Fprintf(b, `<a href="/tournaments/%s">Back to tournament</a>`, m.TournamentID)
		fmt.Fprintf(b, `<h1>Round %d, match %d</h1>`, m.Round, m.MatchIndex+1)
		fmt.Fprintf(b, `<div class="scoreboard" data-status="%s">`, m.Status)
		fmt.Fprintf(b, `<div class="%s">%s <span class="score">%d</span></div>`, slotClass(m, bracket.SlotP1), esc(data.Player1Name), m.ScoreP1)
		fmt.Fprintf(b, `<div class="%s">%s <span class="score">%d</span></div>`, slotClass(m, bracket.SlotP2), esc(data.Player2Name), m.ScoreP2)
		fmt.Fprintf(b, `<p class="match-status">%s</p></div>`, esc(StatusLabel(m.Status)))

		if IsAdmin(ctx) && m.Status != bracket.MatchCompleted {
			writeScoreController(b, data)
		}
	}))
}

func writeScoreController(b *strings.Builder, data *service.MatchData) {
	m := data.Match
	b.WriteString(`<div class="score-controller"><h2>Admin</h2>`)
	fmt.Fprintf(b, `<form hx-post="/matches/%s/score" hx-target="#match-message">`, m.ID)
	fmt.Fprintf(b, `<input type="number" name="score_p1" min="0" value="%d">`, m.ScoreP1)
	fmt.Fprintf(b, `<input type="number" name="score_p2" min="0" value="%d">`, m.ScoreP2)
	b.WriteString(`<button type="submit">Update score</button></form>`)

	writeWinnerButton(b, m, m.Player1ID, data.Player1Name)
	writeWinnerButton(b, m, m.Player2ID, data.Player2Name)
	b.WriteString(`<div id="match-message"></div></div>`)
}

func writeWinnerButton(b *strings.Builder, m *bracket.Match, playerID *uuid.UUID, name string) {
	if playerID == nil {
		return
	}
	fmt.Fprintf(b, `<form hx-post="/matches/%s/advance" hx-target="#match-message" hx-confirm="Declare %s the winner?">`+
		`<input type="hidden" name="winner_id" value="%s"><button type="submit">%s wins</button></form>`,
		m.ID, esc(name), *playerID, esc(name))
}

func AdvanceResult(tournamentID uuid.UUID) templ.Component {
	return htmlComponent(func(ctx context.Context, b *strings.Builder) {
		fmt.Fprintf(b, `<p class="success">Result saved. <a href="/tournaments/%s">Back to bracket</a></p>`, tournamentID)
	})
}

func Message(text string) templ.Component {
	return htmlComponent(func(ctx context.Context, b *strings.Builder) {
		fmt.Fprintf(b, `<p class="message">%s</p>`, esc(text))
	})
}
