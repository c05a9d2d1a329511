package service

import "context"

// Notification kinds.
const (
	KindCreated   = "created"
	KindMove      = "move"
	KindExchange  = "exchange"
	KindAbandoned = "abandoned"
)

// Notification tells subscribers of a match that it changed. Payload is the
// JSON-ready value the change produced (a MatchInfo, MoveInfo or ExchangeInfo).
type Notification struct {
	MatchID string `json:"gameId"`
	Kind    string `json:"kind"`
	Version int64  `json:"version"`
	Payload any    `json:"payload,omitempty"`
}

// Notifier receives notifications after a change is stored. Notify must not
// block on slow subscribers.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) {}
