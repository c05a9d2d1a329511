package net

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/triad/internal/game"
)

// NetworkController asks a remote player for decisions over a TCP
// connection.
type NetworkController struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	mu   sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn) *NetworkController {
	return &NetworkController{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// Join reads the handshake.
func (nc *NetworkController) Join() (ClientMessage, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	msg, err := nc.recv()
	if err != nil {
		return ClientMessage{}, fmt.Errorf("read join message: %w", err)
	}
	if msg.Type != MsgJoin {
		return ClientMessage{}, fmt.Errorf("expected %s message, got %q", MsgJoin, msg.Type)
	}
	return msg, nil
}

// ChooseMove shows the state and waits for a placement.
func (nc *NetworkController) ChooseMove(state game.StateView) (handIndex, cell int, err error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	if err := nc.send(ServerMessage{Type: MsgChooseMove, State: &state}); err != nil {
		return 0, 0, fmt.Errorf("send choose_move: %w", err)
	}
	resp, err := nc.recv()
	if err != nil {
		return 0, 0, fmt.Errorf("recv place: %w", err)
	}
	if resp.Type != MsgPlace {
		return 0, 0, fmt.Errorf("expected %s message, got %q", MsgPlace, resp.Type)
	}
	return resp.HandIndex, resp.Cell, nil
}

// ChooseCard offers the AI's cards and returns the picked index. Out of
// range picks fall back to the first card.
func (nc *NetworkController) ChooseCard(candidates []game.CardView) (int, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	if err := nc.send(ServerMessage{Type: MsgChooseCard, Candidates: candidates}); err != nil {
		return 0, fmt.Errorf("send choose_card: %w", err)
	}
	resp, err := nc.recv()
	if err != nil {
		return 0, fmt.Errorf("recv pick_card: %w", err)
	}
	if resp.Index < 0 || resp.Index >= len(candidates) {
		return 0, nil
	}
	return resp.Index, nil
}

// NotifyMove reports a placement.
func (nc *NetworkController) NotifyMove(mv game.MoveView) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgMove, Move: &mv})
}

// SendError reports a rejected reply.
func (nc *NetworkController) SendError(err error) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgError, Error: err.Error()})
}

// SendGameOver sends the final message of a match.
func (nc *NetworkController) SendGameOver(msg ServerMessage) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	msg.Type = MsgGameOver
	return nc.send(msg)
}
