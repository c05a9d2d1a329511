package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventMatchStart EventType = iota
	EventPlace
	EventCapture
	EventSame
	EventPlus
	EventCombo
	EventSuddenDeath
	EventWin
	EventDrawGame
	EventExchange
	EventReward
)

func (e EventType) String() string {
	switch e {
	case EventMatchStart:
		return "MatchStart"
	case EventPlace:
		return "Place"
	case EventCapture:
		return "Capture"
	case EventSame:
		return "Same"
	case EventPlus:
		return "Plus"
	case EventCombo:
		return "Combo"
	case EventSuddenDeath:
		return "SuddenDeath"
	case EventWin:
		return "Win"
	case EventDrawGame:
		return "Draw"
	case EventExchange:
		return "Exchange"
	case EventReward:
		return "Reward"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // sudden death round (0 = regular play)
	Move    int       // placement counter within the match (1-based)
	Side    string    // acting side ("player" or "ai")
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Cell    int       // board cell (if applicable, else -1)
	Details string    // human-readable detail string
}
