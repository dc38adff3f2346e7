package views

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

func LoginPage() templ.Component {
	return Layout("Log in", htmlComponent(func(ctx context.Context, b *strings.Builder) {
		b.WriteString(`<h1>Log in</h1>`)
		b.WriteString(`<p>Organizers sign in to generate brackets and record results.</p>`)
		b.WriteString(`<a class="button" href="/auth/google">Continue with Google</a>`)
		b.WriteString(`<a class="button" href="/auth/discord">Continue with Discord</a>`)
	}))
}
