package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/peterkuimelis/triad/internal/log"
)

// SnapshotVersion is bumped whenever the Snapshot layout changes.
const SnapshotVersion = 1

// CardRef identifies a card instance by catalog id. Values are never stored;
// Restore rebuilds them from the catalog.
type CardRef struct {
	ID            string `json:"id" yaml:"id"`
	Owner         string `json:"owner" yaml:"owner"`
	OriginalOwner string `json:"originalOwner" yaml:"originalOwner"`
}

type SettingsSnapshot struct {
	PlayerID  string `json:"playerId" yaml:"playerId"`
	Level     int    `json:"level" yaml:"level"`
	AIName    string `json:"aiName,omitempty" yaml:"aiName,omitempty"`
	FirstTurn string `json:"firstTurn,omitempty" yaml:"firstTurn,omitempty"`
}

type ExchangeSnapshot struct {
	Type    string  `json:"type" yaml:"type"`
	Card    CardRef `json:"card" yaml:"card"`
	Message string  `json:"message" yaml:"message"`
	Settled bool    `json:"settled,omitempty" yaml:"settled,omitempty"`
}

// Snapshot is a plain serializable copy of every field of a Match.
type Snapshot struct {
	Version            int               `json:"version" yaml:"version"`
	Settings           SettingsSnapshot  `json:"settings" yaml:"settings"`
	Rules              Rules             `json:"rules" yaml:"rules"`
	Board              []*CardRef        `json:"board" yaml:"board"`
	Elements           []string          `json:"elements" yaml:"elements"`
	PlayerHand         []CardRef         `json:"playerHand" yaml:"playerHand"`
	AIHand             []CardRef         `json:"aiHand" yaml:"aiHand"`
	PlayerScore        int               `json:"playerScore" yaml:"playerScore"`
	AIScore            int               `json:"aiScore" yaml:"aiScore"`
	Turn               string            `json:"turn" yaml:"turn"`
	Status             string            `json:"status" yaml:"status"`
	Winner             string            `json:"winner,omitempty" yaml:"winner,omitempty"`
	Round              int               `json:"round" yaml:"round"`
	Moves              int               `json:"moves" yaml:"moves"`
	OriginalPlayerHand []CardRef         `json:"originalPlayerHand" yaml:"originalPlayerHand"`
	OriginalAIHand     []CardRef         `json:"originalAiHand" yaml:"originalAiHand"`
	Exchange           *ExchangeSnapshot `json:"exchange,omitempty" yaml:"exchange,omitempty"`
}

func refOf(ci *CardInstance) CardRef {
	return CardRef{ID: ci.Card.ID, Owner: ci.Owner.String(), OriginalOwner: ci.OriginalOwner.String()}
}

func refsOf(hand []*CardInstance) []CardRef {
	refs := make([]CardRef, len(hand))
	for i, ci := range hand {
		refs[i] = refOf(ci)
	}
	return refs
}

// Snapshot captures the match state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Version: SnapshotVersion,
		Settings: SettingsSnapshot{
			PlayerID:  m.Settings.PlayerID,
			Level:     m.Settings.Level,
			AIName:    m.Settings.AIName,
			FirstTurn: m.Settings.FirstTurn.String(),
		},
		Rules:              m.Rules,
		Board:              make([]*CardRef, BoardSize),
		Elements:           make([]string, BoardSize),
		PlayerHand:         refsOf(m.PlayerHand),
		AIHand:             refsOf(m.AIHand),
		PlayerScore:        m.PlayerScore,
		AIScore:            m.AIScore,
		Turn:               m.Turn.String(),
		Status:             m.Status.String(),
		Winner:             m.Winner.String(),
		Round:              m.Round,
		Moves:              m.Moves,
		OriginalPlayerHand: refsOf(m.OriginalPlayerHand),
		OriginalAIHand:     refsOf(m.OriginalAIHand),
	}
	for i, ci := range m.Board {
		if ci != nil {
			ref := refOf(ci)
			s.Board[i] = &ref
		}
		s.Elements[i] = m.Elements[i].String()
	}
	if m.Exchange != nil {
		s.Exchange = &ExchangeSnapshot{
			Type:    m.Exchange.Type.String(),
			Card:    refOf(m.Exchange.Card),
			Message: m.Exchange.Message,
			Settled: m.Exchange.Settled,
		}
	}
	return s
}

// RestoreConfig supplies the runtime collaborators of a restored match.
type RestoreConfig struct {
	Catalog *Catalog // nil uses NewCatalog()
	Logger  log.EventLogger
	Seed    int64 // RNG seed (0 for random)
}

// Restore rebuilds a match from a snapshot. Card values come from the
// catalog and scores are recomputed. Any structural problem is reported as
// ErrGameStateCorrupt.
func Restore(s Snapshot, cfg RestoreConfig) (*Match, error) {
	corrupt := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrGameStateCorrupt, fmt.Sprintf(format, args...))
	}

	firstTurn, err := ParseSide(s.Settings.FirstTurn)
	if err != nil {
		return nil, corrupt("settings: %v", err)
	}
	m := NewMatch(MatchConfig{
		Catalog: cfg.Catalog,
		Settings: Settings{
			PlayerID:  s.Settings.PlayerID,
			Level:     s.Settings.Level,
			AIName:    s.Settings.AIName,
			FirstTurn: firstTurn,
		},
		Rules:  s.Rules,
		Logger: cfg.Logger,
		Seed:   cfg.Seed,
	})

	if m.Status, err = ParseStatus(s.Status); err != nil {
		return nil, corrupt("%v", err)
	}
	if m.Winner, err = ParseWinner(s.Winner); err != nil {
		return nil, corrupt("%v", err)
	}
	if m.Turn, err = ParseSide(s.Turn); err != nil {
		return nil, corrupt("turn: %v", err)
	}
	if m.Turn == SideNone {
		return nil, corrupt("turn is unset")
	}
	if s.Round < 0 || s.Moves < 0 {
		return nil, corrupt("negative counters")
	}
	m.Round, m.Moves = s.Round, s.Moves

	if len(s.Board) != BoardSize {
		return nil, corrupt("board has %d cells", len(s.Board))
	}
	if len(s.Elements) != BoardSize {
		return nil, corrupt("element overlay has %d cells", len(s.Elements))
	}
	for i := range BoardSize {
		if m.Elements[i], err = ParseElement(s.Elements[i]); err != nil {
			return nil, corrupt("cell %d: %v", i, err)
		}
		if s.Board[i] == nil {
			continue
		}
		ci, err := m.instanceOf(*s.Board[i])
		if err != nil {
			return nil, corrupt("cell %d: %v", i, err)
		}
		ci.Position = i
		m.Board[i] = ci
	}

	hands := []struct {
		name  string
		refs  []CardRef
		dst   *[]*CardInstance
		exact bool
	}{
		{"player hand", s.PlayerHand, &m.PlayerHand, false},
		{"ai hand", s.AIHand, &m.AIHand, false},
		{"original player hand", s.OriginalPlayerHand, &m.OriginalPlayerHand, true},
		{"original ai hand", s.OriginalAIHand, &m.OriginalAIHand, true},
	}
	for _, h := range hands {
		if h.exact && len(h.refs) != HandSize {
			return nil, corrupt("%s has %d cards, want %d", h.name, len(h.refs), HandSize)
		}
		if len(h.refs) > HandSize {
			return nil, corrupt("%s has %d cards", h.name, len(h.refs))
		}
		for _, ref := range h.refs {
			ci, err := m.instanceOf(ref)
			if err != nil {
				return nil, corrupt("%s: %v", h.name, err)
			}
			*h.dst = append(*h.dst, ci)
		}
	}

	switch {
	case m.Status == StatusFinished && m.Winner == WinnerNone:
		return nil, corrupt("finished without a winner")
	case m.Status != StatusFinished && m.Winner != WinnerNone:
		return nil, corrupt("winner %s set while %s", m.Winner, m.Status)
	}

	if s.Exchange != nil {
		if m.Status != StatusFinished || m.Winner == WinnerDraw {
			return nil, corrupt("exchange recorded on a %s match without a decisive winner", m.Status)
		}
		typ, err := ParseExchangeType(s.Exchange.Type)
		if err != nil {
			return nil, corrupt("exchange: %v", err)
		}
		if (typ == ExchangePlayerWin) != (m.Winner == WinnerPlayer) {
			return nil, corrupt("exchange %s does not match winner %s", typ, m.Winner)
		}
		ci, err := m.instanceOf(s.Exchange.Card)
		if err != nil {
			return nil, corrupt("exchange: %v", err)
		}
		m.Exchange = &Exchange{Type: typ, Card: ci, Message: s.Exchange.Message, Settled: s.Exchange.Settled}
	}

	m.recomputeScores()
	return m, nil
}

func (m *Match) instanceOf(ref CardRef) (*CardInstance, error) {
	ci, ok := m.catalog.Instance(ref.ID)
	if !ok {
		return nil, fmt.Errorf("unknown card id %q", ref.ID)
	}
	var err error
	if ci.Owner, err = ParseSide(ref.Owner); err != nil {
		return nil, err
	}
	if ci.OriginalOwner, err = ParseSide(ref.OriginalOwner); err != nil {
		return nil, err
	}
	return ci, nil
}

// Checksum returns a stable digest of the snapshot. Clients use it to detect
// a state change without comparing whole documents.
func (s Snapshot) Checksum() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "V:%d|%s|%d|%s|%s\n", s.Version, s.Settings.PlayerID, s.Settings.Level, s.Settings.AIName, s.Settings.FirstTurn)
	fmt.Fprintf(&buf, "R:%s\n", s.Rules)
	fmt.Fprintf(&buf, "S:%s|%s|%s|%d|%d\n", s.Status, s.Winner, s.Turn, s.Round, s.Moves)
	for i, ref := range s.Board {
		elem := ""
		if i < len(s.Elements) {
			elem = s.Elements[i]
		}
		if ref == nil {
			fmt.Fprintf(&buf, "B%d:-|%s\n", i, elem)
			continue
		}
		fmt.Fprintf(&buf, "B%d:%s|%s|%s|%s\n", i, ref.ID, ref.Owner, ref.OriginalOwner, elem)
	}
	writeRefs := func(tag string, refs []CardRef) {
		for _, ref := range refs {
			fmt.Fprintf(&buf, "%s:%s|%s|%s\n", tag, ref.ID, ref.Owner, ref.OriginalOwner)
		}
	}
	writeRefs("PH", s.PlayerHand)
	writeRefs("AH", s.AIHand)
	writeRefs("OP", s.OriginalPlayerHand)
	writeRefs("OA", s.OriginalAIHand)
	if s.Exchange != nil {
		fmt.Fprintf(&buf, "X:%s|%s\n", s.Exchange.Type, s.Exchange.Card.ID)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
