package views

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// htmlComponent renders whatever build writes into the builder.
func htmlComponent(build func(ctx context.Context, b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		build(ctx, &b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps page content with the shared head and navigation.
func Layout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + esc(title) + `</title>` +
			`<script src="https://unpkg.com/htmx.org@2.0.4"></script>` +
			`<link rel="stylesheet" href="/static/app.css"></head><body>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}

		nav := `<nav class="nav"><a href="/">Tournaments</a>`
		if user := GetUser(ctx); user != nil {
			nav += `<span class="nav-user">` + esc(user.DisplayName()) + `</span>` +
				`<form method="post" action="/logout"><button type="submit">Log out</button></form>`
		} else {
			nav += `<a href="/login">Log in</a>`
		}
		nav += `</nav><main>`
		if _, err := io.WriteString(w, nav); err != nil {
			return err
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
