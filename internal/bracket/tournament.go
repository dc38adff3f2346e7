package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentRegistering         TournamentStatus = "registering"
	TournamentPendingConfirmation TournamentStatus = "pending_confirmation"
	// Bracket generated, registration locked
	TournamentConfirmed TournamentStatus = "confirmed"
	TournamentCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	CreatorID  uuid.UUID        `db:"creator_id" json:"creatorId"`
	Name       string           `db:"name" json:"name"`
	Location   *string          `db:"location" json:"location"`
	Status     TournamentStatus `db:"status" json:"status"`
	MinPlayers int              `db:"min_players" json:"minPlayers"`
	MaxPlayers int              `db:"max_players" json:"maxPlayers"`
	StartDate  *time.Time       `db:"start_date" json:"startDate"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
}

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// Registration links a user to a tournament. Approved registrations are the bracket participants.
type Registration struct {
	ID           uuid.UUID          `db:"id"`
	TournamentID uuid.UUID          `db:"tournament_id"`
	UserID       uuid.UUID          `db:"user_id"`
	Status       RegistrationStatus `db:"status"`
	CreatedAt    time.Time          `db:"created_at"`
}
