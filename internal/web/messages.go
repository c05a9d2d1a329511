package web

// User-facing error messages. The wrapped error goes into "details".
const (
	msgNotFound       = "Game not found"
	msgBadRequest     = "Invalid request"
	msgNotYourTurn    = "It is not your turn"
	msgNotAITurn      = "It is not the AI's turn"
	msgFinished       = "The game is already over"
	msgExchange       = "Card exchange is not available"
	msgSelectCard     = "Choose the card you want to take"
	msgUnknownCard    = "That card is not available"
	msgConflict       = "The game changed, reload and try again"
	msgCorrupt        = "The saved game could not be loaded"
	msgInternal       = "Something went wrong"
	msgOutdated       = "Please update the app to the latest version"
	msgPlayerRequired = "A player id is required"
)
