package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/rs/zerolog/log"
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	log.Error().Err(err).Msg(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	event := log.Warn().Str("message", msg)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("bad request")
	http.Error(w, msg, http.StatusBadRequest)
}

// ErrorStatus maps a bracket error to the HTTP status and the message shown to users.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, bracket.ErrNotFound):
		return http.StatusNotFound, "The tournament or match does not exist."
	case errors.Is(err, bracket.ErrAlreadyExists):
		return http.StatusConflict, "A bracket already exists for this tournament. Delete it before generating a new one."
	case errors.Is(err, bracket.ErrAlreadyCompleted):
		return http.StatusConflict, "This match is already finished."
	case errors.Is(err, bracket.ErrInsufficientPlayers):
		return http.StatusUnprocessableEntity, "At least 2 approved players are needed to generate a bracket."
	case errors.Is(err, bracket.ErrInvalidPlayerCount):
		return http.StatusUnprocessableEntity, "The number of approved players must be a power of two (4, 8, 16, 32)."
	case errors.Is(err, bracket.ErrInvalidWinner):
		return http.StatusBadRequest, "The winner must be one of the two players of this match."
	case errors.Is(err, bracket.ErrInvalidScore):
		return http.StatusBadRequest, "Scores must be zero or more."
	}
	return http.StatusInternalServerError, "Something went wrong while saving, please try again."
}

// WriteError responds with the user-facing message for err. Storage details are only logged.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	} else {
		log.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	http.Error(w, msg, status)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
