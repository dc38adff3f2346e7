package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/AdamBeresnev/shuttle-bracket/internal/config"
	"github.com/AdamBeresnev/shuttle-bracket/internal/db"
	"github.com/AdamBeresnev/shuttle-bracket/internal/store"
	users "github.com/AdamBeresnev/shuttle-bracket/internal/user"
	"github.com/AdamBeresnev/shuttle-bracket/internal/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var athletes = []string{
	"Viktor Axelsen", "Kento Momota", "Jonatan Christie", "Anders Antonsen",
	"Lee Zii Jia", "Kunlavut Vitidsarn", "Shi Yu Qi", "Loh Kean Yew",
	"Chou Tien Chen", "Lakshya Sen", "Anthony Ginting", "Kodai Naraoka",
	"Li Shi Feng", "Prannoy H. S.", "Ng Ka Long", "Christo Popov",
}

// Seeds a tournament with approved participants, ready for bracket generation.
func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	players := flag.Int("players", 8, "number of approved participants")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *players < 1 || *players > len(athletes) {
		log.Fatal().Int("players", *players).Msgf("players must be between 1 and %d", len(athletes))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	database, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx := context.Background()
	userStore := store.NewUserStore(database)
	tournamentStore := store.NewTournamentStore(database)
	registrationStore := store.NewRegistrationStore(database)

	organiserEmail := "organiser@example.com"
	if len(cfg.Auth.AdminEmails) > 0 {
		organiserEmail = cfg.Auth.AdminEmails[0]
	}
	organiser := &users.User{Email: organiserEmail, Username: "Organiser"}
	if err := userStore.CreateUser(ctx, organiser); err != nil {
		log.Fatal().Err(err).Msg("Failed to create organiser")
	}

	tournament := &bracket.Tournament{
		CreatorID:  organiser.ID,
		Name:       "Club Open " + time.Now().Format("2006-01-02 15:04"),
		Location:   utils.StringOrNil("Main Hall"),
		Status:     bracket.TournamentPendingConfirmation,
		MinPlayers: 2,
		MaxPlayers: len(athletes),
		StartDate:  utils.Ptr(time.Now().AddDate(0, 0, 7).UTC()),
	}

	tx, err := database.BeginTxx(ctx, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to begin transaction")
	}
	if err := tournamentStore.CreateTournament(ctx, tx, tournament); err != nil {
		tx.Rollback()
		log.Fatal().Err(err).Msg("Failed to create tournament")
	}
	if err := tx.Commit(); err != nil {
		log.Fatal().Err(err).Msg("Failed to commit tournament")
	}

	for i, name := range athletes[:*players] {
		athlete := &users.User{
			Email:    fmt.Sprintf("athlete%02d@example.com", i+1),
			Username: name,
		}
		if err := userStore.CreateUser(ctx, athlete); err != nil {
			log.Fatal().Err(err).Str("athlete", name).Msg("Failed to create athlete")
		}

		err := registrationStore.CreateRegistration(ctx, &bracket.Registration{
			TournamentID: tournament.ID,
			UserID:       athlete.ID,
			Status:       bracket.RegistrationApproved,
		})
		if err != nil {
			log.Fatal().Err(err).Str("athlete", name).Msg("Failed to register athlete")
		}
	}

	log.Info().
		Str("tournament_id", tournament.ID.String()).
		Str("name", tournament.Name).
		Int("players", *players).
		Msg("Seeding complete")
}
