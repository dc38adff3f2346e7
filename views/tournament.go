package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/AdamBeresnev/shuttle-bracket/internal/service"
	"github.com/AdamBeresnev/shuttle-bracket/internal/utils"
	"github.com/a-h/templ"
)

func Index(tournaments []bracket.Tournament) templ.Component {
	return Layout("Tournaments", htmlComponent(func(ctx context.Context, b *strings.Builder) {
		b.WriteString(`<h1>Tournaments</h1>`)
		if len(tournaments) == 0 {
			b.WriteString(`<p class="empty">No tournaments yet.</p>`)
			return
		}
		b.WriteString(`<ul class="tournaments">`)
		for _, t := range tournaments {
			fmt.Fprintf(b, `<li><a href="/tournaments/%s">%s</a> <span class="location">%s</span> <span class="status">%s</span></li>`,
				t.ID, esc(t.Name), esc(utils.Deref(t.Location, "Venue to be announced")), esc(TournamentStatusLabel(t.Status)))
		}
		b.WriteString(`</ul>`)
	}))
}

func TournamentView(view *service.BracketView) templ.Component {
	t := view.Tournament
	return Layout(t.Name, htmlComponent(func(ctx context.Context, b *strings.Builder) {
		fmt.Fprintf(b, `<section id="tournament" data-live="/tournaments/%s/live">`, t.ID)
		fmt.Fprintf(b, `<h1>%s</h1><p class="status">%s</p>`, esc(t.Name), esc(TournamentStatusLabel(t.Status)))
		if t.Location != nil {
			fmt.Fprintf(b, `<p class="location">%s</p>`, esc(*t.Location))
		}

		if view.Champion != nil {
			fmt.Fprintf(b, `<div class="champion">Champion: <strong>%s</strong></div>`, esc(view.Name(view.Champion)))
		}

		if IsAdmin(ctx) {
			writeAdminControls(b, view)
		}

		data := view.Bracket
		if len(data.Matches) == 0 {
			b.WriteString(`<p class="empty">The bracket has not been generated yet.</p>`)
		} else {
			writeBracket(b, view)
		}

		b.WriteString(`</section>`)
		b.WriteString(liveRefreshScript)
	}))
}

func writeAdminControls(b *strings.Builder, view *service.BracketView) {
	id := view.Tournament.ID
	b.WriteString(`<div class="admin-controls">`)
	if len(view.Bracket.Matches) == 0 {
		fmt.Fprintf(b, `<button hx-post="/tournaments/%s/bracket" hx-target="#bracket-message">Generate bracket</button>`, id)
	} else {
		fmt.Fprintf(b, `<button hx-delete="/tournaments/%s/bracket" hx-target="#bracket-message" `+
			`hx-confirm="Delete the bracket and every recorded result?">Delete bracket</button>`, id)
	}
	if view.NextMatchID != nil {
		fmt.Fprintf(b, `<a class="next-match" href="/matches/%s">Next match</a>`, *view.NextMatchID)
	}
	b.WriteString(`<div id="bracket-message"></div></div>`)
}

func writeBracket(b *strings.Builder, view *service.BracketView) {
	data := view.Bracket
	total := data.TotalRounds()

	b.WriteString(`<div class="bracket">`)
	for _, r := range data.RoundNums {
		fmt.Fprintf(b, `<div class="round"><h2>%s</h2>`, esc(RoundLabel(r, total)))
		for i := range data.Rounds[r] {
			m := &data.Rounds[r][i]
			live := ""
			if m.IsLive {
				live = ` live`
			}
			fmt.Fprintf(b, `<a class="match%s" href="/matches/%s" data-status="%s">`, live, m.ID, m.Status)
			fmt.Fprintf(b, `<div class="%s"><span>%s</span><span class="score">%d</span></div>`,
				slotClass(m, bracket.SlotP1), esc(view.Name(m.Player1ID)), m.ScoreP1)
			fmt.Fprintf(b, `<div class="%s"><span>%s</span><span class="score">%d</span></div>`,
				slotClass(m, bracket.SlotP2), esc(view.Name(m.Player2ID)), m.ScoreP2)
			fmt.Fprintf(b, `<div class="match-status">%s</div></a>`, esc(StatusLabel(m.Status)))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
}

const liveRefreshScript = `<script>
(function () {
  var el = document.querySelector("[data-live]");
  if (!el || !window.WebSocket) return;
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + el.dataset.live);
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "refresh" && location.pathname.indexOf(msg.path) === 0) location.reload();
  };
})();
</script>`
