package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AdamBeresnev/shuttle-bracket/internal/bracket"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: match 1", bracket.ErrNotFound), http.StatusNotFound},
		{bracket.ErrAlreadyExists, http.StatusConflict},
		{bracket.ErrAlreadyCompleted, http.StatusConflict},
		{bracket.ErrInsufficientPlayers, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w, got 6", bracket.ErrInvalidPlayerCount), http.StatusUnprocessableEntity},
		{bracket.ErrInvalidWinner, http.StatusBadRequest},
		{bracket.ErrInvalidScore, http.StatusBadRequest},
		{fmt.Errorf("%w: commit: %w", bracket.ErrStorage, errors.New("disk full")), http.StatusInternalServerError},
	}

	messages := make(map[string]bool)
	for _, tc := range testCases {
		status, msg := ErrorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.NotEmpty(t, msg)
		assert.False(t, messages[msg], "message %q should be distinct", msg)
		messages[msg] = true
	}
}

func TestWriteError_HidesStorageDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("%w: commit: %w", bracket.ErrStorage, errors.New("database is locked")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "database is locked")
}
