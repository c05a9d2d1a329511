package game

import "errors"

// Match errors. Every operation reports them before touching any state, so a
// rejected call leaves the match exactly as it was.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidTurn         = errors.New("not the player's turn")
	ErrInvalidIndex        = errors.New("invalid hand index")
	ErrInvalidPosition     = errors.New("invalid board position")
	ErrUnknownCard         = errors.New("unknown card")
	ErrMissingSelection    = errors.New("card selection required")
	ErrGameStateCorrupt    = errors.New("game state corrupt")
	ErrNotAITurn           = errors.New("not the AI's turn")
	ErrGameFinished        = errors.New("game already finished")
	ErrNoCardsLeft         = errors.New("no cards left in hand")
	ErrNoEmptyCell         = errors.New("no empty cell on the board")
	ErrExchangeUnavailable = errors.New("card exchange unavailable")
)
