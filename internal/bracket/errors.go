package bracket

import "errors"

var (
	ErrAlreadyExists       = errors.New("a bracket already exists for this tournament, delete it before generating a new one")
	ErrInsufficientPlayers = errors.New("at least 2 approved players are needed to generate a bracket")
	ErrInvalidPlayerCount  = errors.New("the number of approved players must be a power of two (4, 8, 16, 32, ...)")
	ErrNotFound            = errors.New("requested resource not found")
	ErrAlreadyCompleted    = errors.New("match has already been completed")
	ErrInvalidWinner       = errors.New("winner is not a player in this match")
	ErrInvalidScore        = errors.New("scores must be non-negative")
	ErrStorage             = errors.New("storage failure")
)
