package game

import "fmt"

const hiddenName = "???"

// CardView is the client representation of a card. A hidden view carries only
// the id, a placeholder name, the card back and ownership.
type CardView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Top           int    `json:"top,omitempty"`
	Right         int    `json:"right,omitempty"`
	Bottom        int    `json:"bottom,omitempty"`
	Left          int    `json:"left,omitempty"`
	Element       string `json:"element,omitempty"`
	Level         int    `json:"level,omitempty"`
	Power         int    `json:"power,omitempty"`
	ImageURL      string `json:"imageUrl"`
	Owner         string `json:"owner,omitempty"`
	OriginalOwner string `json:"originalOwner,omitempty"`
	Hidden        bool   `json:"hidden,omitempty"`
}

// View returns the catalog view of a definition.
func (c *Card) View() CardView {
	return CardView{
		ID:       c.ID,
		Name:     c.Name,
		Top:      c.Top,
		Right:    c.Right,
		Bottom:   c.Bottom,
		Left:     c.Left,
		Element:  c.Element.String(),
		Level:    c.Level(),
		Power:    c.Power(),
		ImageURL: c.ImageURL,
	}
}

// View returns the client view of an instance, optionally face down.
func (ci *CardInstance) View(hidden bool) CardView {
	if hidden {
		return CardView{
			ID:            ci.Card.ID,
			Name:          hiddenName,
			ImageURL:      BackImageURL,
			Owner:         ci.Owner.String(),
			OriginalOwner: ci.OriginalOwner.String(),
			Hidden:        true,
		}
	}
	v := ci.Card.View()
	v.Owner = ci.Owner.String()
	v.OriginalOwner = ci.OriginalOwner.String()
	return v
}

func viewsOf(hand []*CardInstance, hidden bool) []CardView {
	out := make([]CardView, len(hand))
	for i, ci := range hand {
		out[i] = ci.View(hidden)
	}
	return out
}

type BonusView struct {
	Position int    `json:"position"`
	Element  string `json:"element"`
	Bonus    int    `json:"bonus"`
}

func bonusView(b CellBonus) BonusView {
	return BonusView{Position: b.Position, Element: b.Element.String(), Bonus: b.Bonus}
}

// CellView is an occupied board cell.
type CellView struct {
	CardView
	Position       int        `json:"position"`
	ElementalBonus *BonusView `json:"elementalBonus,omitempty"`
}

type ScoreView struct {
	Player int `json:"player"`
	AI     int `json:"ai"`
}

type SuddenDeathView struct {
	Round   int    `json:"round"`
	Message string `json:"message"`
}

type OwnershipView struct {
	Position      int    `json:"position"`
	Owner         string `json:"owner,omitempty"`
	OriginalOwner string `json:"originalOwner,omitempty"`
}

type ExchangeView struct {
	Type    string   `json:"type"`
	Card    CardView `json:"card"`
	Message string   `json:"message"`
}

// View returns the client form of an exchange record.
func (e *Exchange) View() ExchangeView {
	return ExchangeView{Type: e.Type.String(), Card: e.Card.View(false), Message: e.Message}
}

type EndView struct {
	FinalScore     ScoreView       `json:"finalScore"`
	CardsOwnership []OwnershipView `json:"cardsOwnership"`
	TotalRounds    int             `json:"totalRounds"`
	OriginalPlayer []CardView      `json:"originalPlayerCards"`
	OriginalAI     []CardView      `json:"originalAiCards"`
	Exchange       *ExchangeView   `json:"cardExchange,omitempty"`
}

// StateView is what a client is shown of a match. The AI hand is face down
// unless the Open rule is active.
type StateView struct {
	PlayerID    string           `json:"playerId,omitempty"`
	Level       int              `json:"level,omitempty"`
	Rules       Rules            `json:"rules"`
	Board       []*CellView      `json:"board"`
	Elements    []string         `json:"boardElements"`
	PlayerHand  []CardView       `json:"playerHand"`
	AIHand      []CardView       `json:"aiHand"`
	Turn        string           `json:"currentTurn"`
	PlayerScore int              `json:"playerScore"`
	AIScore     int              `json:"aiScore"`
	Status      string           `json:"gameStatus"`
	Winner      string           `json:"winner,omitempty"`
	SuddenDeath *SuddenDeathView `json:"suddenDeath,omitempty"`
	End         *EndView         `json:"gameEndInfo,omitempty"`
}

// State builds the client view of the match.
func (m *Match) State() StateView {
	v := StateView{
		PlayerID:    m.Settings.PlayerID,
		Level:       m.Settings.Level,
		Rules:       m.Rules,
		Board:       make([]*CellView, BoardSize),
		Elements:    make([]string, BoardSize),
		PlayerHand:  viewsOf(m.PlayerHand, false),
		AIHand:      viewsOf(m.AIHand, !m.Rules.Open),
		Turn:        m.Turn.String(),
		PlayerScore: m.PlayerScore,
		AIScore:     m.AIScore,
		Status:      m.Status.String(),
		Winner:      m.Winner.String(),
	}
	for i, ci := range m.Board {
		v.Elements[i] = m.Elements[i].String()
		if ci == nil {
			continue
		}
		cell := &CellView{CardView: ci.View(false), Position: i}
		if m.Rules.Elemental && m.Elements[i] != ElementNone {
			b := bonusView(CellBonus{Position: i, Element: m.Elements[i], Bonus: m.Elements.Bonus(i, ci.Card)})
			cell.ElementalBonus = &b
		}
		v.Board[i] = cell
	}
	if m.Status == StatusSuddenDeath {
		v.SuddenDeath = &SuddenDeathView{Round: m.Round, Message: fmt.Sprintf("Sudden Death Round %d", m.Round)}
	}
	if m.Finished() {
		end := &EndView{
			FinalScore:     ScoreView{Player: m.PlayerScore, AI: m.AIScore},
			CardsOwnership: make([]OwnershipView, BoardSize),
			TotalRounds:    m.Round + 1,
			OriginalPlayer: viewsOf(m.OriginalPlayerHand, false),
			OriginalAI:     viewsOf(m.OriginalAIHand, false),
		}
		for i, ci := range m.Board {
			end.CardsOwnership[i] = OwnershipView{Position: i}
			if ci != nil {
				end.CardsOwnership[i].Owner = ci.Owner.String()
				end.CardsOwnership[i].OriginalOwner = ci.OriginalOwner.String()
			}
		}
		if m.Exchange != nil {
			ev := m.Exchange.View()
			end.Exchange = &ev
		}
		v.End = end
	}
	return v
}

type CaptureView struct {
	Position int      `json:"position"`
	Card     CardView `json:"card"`
	Reasons  []string `json:"reasons"`
}

type ElementalBonusesView struct {
	PlacedCard    *BonusView  `json:"placedCard,omitempty"`
	CapturedCards []BonusView `json:"capturedCards"`
}

type EndInfoView struct {
	Winner     string    `json:"winner,omitempty"`
	FinalScore ScoreView `json:"finalScore"`
	Status     string    `json:"status"`
	Round      int       `json:"round"`
}

// MoveView is the client form of a MoveResult.
type MoveView struct {
	PlacedCard        CardView             `json:"placedCard"`
	Position          int                  `json:"position"`
	Side              string               `json:"side"`
	CapturedCards     []CaptureView        `json:"capturedCards"`
	CaptureDirections []string             `json:"captureDirections"`
	SpecialRules      RuleFlags            `json:"specialRules"`
	ElementalBonuses  ElementalBonusesView `json:"elementalBonuses"`
	IsGameEnd         bool                 `json:"isGameEnd"`
	EndInfo           *EndInfoView         `json:"gameEndInfo,omitempty"`
}

// View converts the result for clients.
func (r *MoveResult) View() MoveView {
	v := MoveView{
		PlacedCard:        r.PlacedCard.View(false),
		Position:          r.Position,
		Side:              r.Side.String(),
		CapturedCards:     make([]CaptureView, len(r.Captured)),
		CaptureDirections: make([]string, len(r.CaptureDirections)),
		SpecialRules:      r.Flags,
		ElementalBonuses:  ElementalBonusesView{CapturedCards: []BonusView{}},
		IsGameEnd:         r.IsGameEnd,
	}
	for i, c := range r.Captured {
		reasons := make([]string, len(c.Reasons))
		for j, reason := range c.Reasons {
			reasons[j] = reason.String()
		}
		v.CapturedCards[i] = CaptureView{Position: c.Position, Card: c.Card.View(false), Reasons: reasons}
	}
	for i, d := range r.CaptureDirections {
		v.CaptureDirections[i] = d.String()
	}
	if r.ElementalBonuses.Placed != nil {
		b := bonusView(*r.ElementalBonuses.Placed)
		v.ElementalBonuses.PlacedCard = &b
	}
	for _, b := range r.ElementalBonuses.Captured {
		v.ElementalBonuses.CapturedCards = append(v.ElementalBonuses.CapturedCards, bonusView(b))
	}
	if r.EndInfo != nil {
		v.EndInfo = &EndInfoView{
			Winner:     r.EndInfo.Winner.String(),
			FinalScore: ScoreView{Player: r.EndInfo.PlayerScore, AI: r.EndInfo.AIScore},
			Status:     r.EndInfo.Status.String(),
			Round:      r.EndInfo.Round,
		}
	}
	return v
}
