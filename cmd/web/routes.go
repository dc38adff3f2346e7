package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/shuttle-bracket/internal/httputil"
	"github.com/AdamBeresnev/shuttle-bracket/internal/middleware"
	"github.com/AdamBeresnev/shuttle-bracket/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.cfg.App.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Current-URL"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Websocket upgrades must not go through the session writer
	r.Get("/tournaments/{id}/live", func(w http.ResponseWriter, r *http.Request) {
		tournamentID, ok := parseID(w, r, "id", "Invalid tournament ID")
		if !ok {
			return
		}
		if err := app.hub.ServeWS(w, r, tournamentID); err != nil {
			log.Warn().Err(err).Str("tournament_id", tournamentID.String()).Msg("Websocket upgrade failed")
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(app.sessions.LoadAndSave)
		r.Use(middleware.LoadAuthenticatedUser(app.sessions, app.users))
		r.Use(app.markAdmin)

		fileServer := http.FileServer(http.Dir("./static"))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := app.tournaments.GetTournaments(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to get tournaments", err)
				return
			}
			views.Render(w, r, views.Index(tournaments))
		})

		r.Get("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
			tournamentID, ok := parseID(w, r, "id", "Invalid tournament ID")
			if !ok {
				return
			}
			view, err := app.brackets.GetBracketView(r.Context(), tournamentID)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			views.Render(w, r, views.TournamentView(view))
		})

		r.Get("/tournaments/{id}/bracket", func(w http.ResponseWriter, r *http.Request) {
			tournamentID, ok := parseID(w, r, "id", "Invalid tournament ID")
			if !ok {
				return
			}
			data, err := app.brackets.GetBracketData(r.Context(), tournamentID)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, data)
		})

		r.Get("/matches/{id}", func(w http.ResponseWriter, r *http.Request) {
			matchID, ok := parseID(w, r, "id", "Invalid match ID")
			if !ok {
				return
			}
			data, err := app.matches.GetMatchViewData(r.Context(), matchID)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			views.Render(w, r, views.MatchView(data))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin(app.cfg.Auth))
			r.Use(app.limiter.Middleware)

			r.Post("/tournaments/{id}/bracket", app.generateBracket)
			r.Delete("/tournaments/{id}/bracket", app.deleteBracket)
			r.Post("/matches/{id}/score", app.updateScore)
			r.Post("/matches/{id}/advance", app.advanceWinner)
		})

		r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
			views.Render(w, r, views.LoginPage())
		})

		r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
			provider := chi.URLParam(r, "provider")
			r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

			gothic.BeginAuthHandler(w, r)
		})

		r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
			provider := chi.URLParam(r, "provider")
			r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

			gothUser, err := gothic.CompleteUserAuth(w, r)
			if err != nil {
				httputil.BadRequest(w, "Authentication failure", err)
				return
			}

			user, err := app.userService.FindOrCreateUserByProvider(r.Context(), gothUser)
			if err != nil {
				httputil.InternalServerError(w, "Failed to find or create user", err)
				return
			}

			if err := app.sessions.RenewToken(r.Context()); err != nil {
				httputil.InternalServerError(w, "Failed to renew session", err)
				return
			}
			app.sessions.Put(r.Context(), middleware.SessionUserKey, user.ID.String())

			http.Redirect(w, r, "/", http.StatusFound)
		})

		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			if err := app.sessions.Destroy(r.Context()); err != nil {
				httputil.InternalServerError(w, "Failed to log out", err)
				return
			}
			if r.Header.Get("HX-Request") != "" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, "/login", http.StatusFound)
		})
	})

	return r
}

func (app *application) markAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := middleware.GetAuthenticatedUser(r.Context())
		isAdmin := user != nil && app.cfg.Auth.IsAdmin(user.Email)
		next.ServeHTTP(w, r.WithContext(views.WithAdmin(r.Context(), isAdmin)))
	})
}

func (app *application) generateBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := parseID(w, r, "id", "Invalid tournament ID")
	if !ok {
		return
	}

	result, err := app.brackets.GenerateBracket(r.Context(), tournamentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		views.Render(w, r, views.Message("Bracket generated for "+strconv.Itoa(result.PlayerCount)+" players ("+strconv.Itoa(result.TotalRounds)+" rounds)."))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (app *application) deleteBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := parseID(w, r, "id", "Invalid tournament ID")
	if !ok {
		return
	}

	if err := app.brackets.DeleteBracket(r.Context(), tournamentID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) updateScore(w http.ResponseWriter, r *http.Request) {
	matchID, ok := parseID(w, r, "id", "Invalid match ID")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}

	scoreP1, err := strconv.Atoi(r.Form.Get("score_p1"))
	if err != nil {
		httputil.BadRequest(w, "Invalid score for player 1", err)
		return
	}
	scoreP2, err := strconv.Atoi(r.Form.Get("score_p2"))
	if err != nil {
		httputil.BadRequest(w, "Invalid score for player 2", err)
		return
	}

	if err := app.matches.UpdateScore(r.Context(), matchID, scoreP1, scoreP2); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if isHTMX(r) {
		views.Render(w, r, views.Message("Score saved."))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) advanceWinner(w http.ResponseWriter, r *http.Request) {
	matchID, ok := parseID(w, r, "id", "Invalid match ID")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}
	winnerID, err := uuid.Parse(r.Form.Get("winner_id"))
	if err != nil {
		httputil.BadRequest(w, "Invalid winner ID", err)
		return
	}

	tournamentID, err := app.matches.AdvanceWinner(r.Context(), matchID, winnerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if isHTMX(r) {
		views.Render(w, r, views.AdvanceResult(tournamentID))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"tournamentId": tournamentID.String()})
}

func parseID(w http.ResponseWriter, r *http.Request, param, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.BadRequest(w, msg, err)
		return uuid.Nil, false
	}
	return id, true
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}
