package net

import "github.com/peterkuimelis/triad/internal/game"

// Message types for the JSON-lines protocol over TCP.

// Server → client message types.
const (
	MsgMove       = "move"        // a placement happened
	MsgChooseMove = "choose_move" // the player is due
	MsgChooseCard = "choose_card" // the player won and picks an AI card
	MsgError      = "error"       // the last reply was rejected
	MsgGameOver   = "game_over"
)

// Client → server message types.
const (
	MsgJoin     = "join"
	MsgPlace    = "place"
	MsgPickCard = "pick_card"
)

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "move"
	Move *game.MoveView `json:"move,omitempty"`

	// For "choose_move" and "game_over"
	State *game.StateView `json:"state,omitempty"`

	// For "choose_card"
	Candidates []game.CardView `json:"candidates,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "game_over"
	Winner   string             `json:"winner,omitempty"`
	Result   string             `json:"result,omitempty"`
	Exchange *game.ExchangeView `json:"exchange,omitempty"`
	Reward   *game.CardView     `json:"reward,omitempty"`
}

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "join" (initial handshake). HandNumber picks a preset from the
	// server's hands file; 0 deals a random starter hand.
	PlayerID   string `json:"player_id,omitempty"`
	HandNumber int    `json:"hand_number,omitempty"`
	Level      int    `json:"level,omitempty"`

	// For "place"
	HandIndex int `json:"hand_index"`
	Cell      int `json:"cell"`

	// For "pick_card"
	Index int `json:"index"`
}
