package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// cellName returns "r1c2" style coordinates for display.
func cellName(cell int) string {
	return fmt.Sprintf("r%dc%d", cell/3+1, cell%3+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	round := "  "
	if e.Round > 0 {
		round = fmt.Sprintf("SD%d", e.Round)
	}
	return fmt.Sprintf("M%-2d %-3s | %s", e.Move, round, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewMatchStartEvent(first string, rules string) GameEvent {
	return GameEvent{
		Side:    first,
		Type:    EventMatchStart,
		Cell:    -1,
		Details: fmt.Sprintf("=== Match start (%s moves first; rules: %s) ===", first, rules),
	}
}

func NewPlaceEvent(round, move int, side, cardName string, cell int) GameEvent {
	return GameEvent{
		Round:   round,
		Move:    move,
		Side:    side,
		Type:    EventPlace,
		Card:    cardName,
		Cell:    cell,
		Details: fmt.Sprintf("%s places %s at %s", side, cardName, cellName(cell)),
	}
}

func NewCaptureEvent(round, move int, side, cardName string, cell int, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Move:    move,
		Side:    side,
		Type:    EventCapture,
		Card:    cardName,
		Cell:    cell,
		Details: fmt.Sprintf("%s captures %s at %s (%s)", side, cardName, cellName(cell), reason),
	}
}

// NewRuleEvent records that Same, Plus or Combo fired on a placement.
func NewRuleEvent(round, move int, side string, t EventType) GameEvent {
	return GameEvent{
		Round:   round,
		Move:    move,
		Side:    side,
		Type:    t,
		Cell:    -1,
		Details: fmt.Sprintf("%s triggers %s!", side, t),
	}
}

func NewSuddenDeathEvent(round, move int) GameEvent {
	return GameEvent{
		Round:   round,
		Move:    move,
		Type:    EventSuddenDeath,
		Cell:    -1,
		Details: fmt.Sprintf("Tie! Sudden death round %d begins with the original hands", round),
	}
}

func NewWinEvent(round, move int, winner string, playerScore, aiScore int) GameEvent {
	return GameEvent{
		Round:   round,
		Move:    move,
		Side:    winner,
		Type:    EventWin,
		Cell:    -1,
		Details: fmt.Sprintf("%s wins %d-%d", winner, playerScore, aiScore),
	}
}

func NewDrawGameEvent(round, move int, score int) GameEvent {
	return GameEvent{
		Round:   round,
		Move:    move,
		Type:    EventDrawGame,
		Cell:    -1,
		Details: fmt.Sprintf("Draw %d-%d", score, score),
	}
}

func NewExchangeEvent(receiver, cardName, message string) GameEvent {
	return GameEvent{
		Side:    receiver,
		Type:    EventExchange,
		Card:    cardName,
		Cell:    -1,
		Details: message,
	}
}

func NewRewardEvent(cardName string) GameEvent {
	return GameEvent{
		Side:    "player",
		Type:    EventReward,
		Card:    cardName,
		Cell:    -1,
		Details: fmt.Sprintf("Consolation reward offered: %s", cardName),
	}
}
