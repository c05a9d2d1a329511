package game

import (
	"fmt"

	"github.com/peterkuimelis/triad/internal/log"
)

// ExchangeType says which side received the transferred card.
type ExchangeType int

const (
	ExchangePlayerWin ExchangeType = iota + 1
	ExchangeAIWin
)

func (t ExchangeType) String() string {
	switch t {
	case ExchangePlayerWin:
		return "player_win"
	case ExchangeAIWin:
		return "ai_win"
	default:
		return ""
	}
}

func ParseExchangeType(s string) (ExchangeType, error) {
	switch s {
	case "player_win":
		return ExchangePlayerWin, nil
	case "ai_win":
		return ExchangeAIWin, nil
	default:
		return 0, fmt.Errorf("unknown exchange type %q", s)
	}
}

// Exchange is the single post-match card transfer. Once recorded only
// Settled changes.
type Exchange struct {
	Type    ExchangeType
	Card    *CardInstance
	Message string
	// Settled is set by the owner of the match once the transfer has been
	// applied to the player's records.
	Settled bool
}

const (
	strongPower = 70
	mediumPower = 40

	strongChance = 0.2
	mediumChance = 0.6 // cumulative

	topLevelWeight = 0.2
)

// AvailableCards lists the AI's original hand, which the player picks from
// after a win. It fails unless the player won and no exchange has happened.
func (m *Match) AvailableCards() ([]*CardInstance, error) {
	if !m.Finished() || m.Winner != WinnerPlayer || m.Exchange != nil {
		return nil, ErrExchangeUnavailable
	}
	return cloneHand(m.OriginalAIHand), nil
}

// ResolveExchange performs the post-match transfer. A player win moves the
// chosen card from the AI's original hand; an AI win takes one of the
// player's original cards, favoring weaker ones. The first successful call
// fixes the result and every later call returns it unchanged.
func (m *Match) ResolveExchange(chosenID string) (*Exchange, error) {
	if m.Exchange != nil {
		return m.Exchange, nil
	}
	if !m.Finished() || m.Winner == WinnerDraw || m.Winner == WinnerNone {
		return nil, ErrExchangeUnavailable
	}

	var ex *Exchange
	switch m.Winner {
	case WinnerPlayer:
		if chosenID == "" {
			return nil, ErrMissingSelection
		}
		def, ok := m.catalog.Lookup(chosenID)
		if !ok || !containsID(m.OriginalAIHand, chosenID) {
			return nil, fmt.Errorf("%w: %q is not in the AI's hand", ErrUnknownCard, chosenID)
		}
		ex = &Exchange{
			Type:    ExchangePlayerWin,
			Card:    NewInstance(def).SetOwner(SidePlayer),
			Message: fmt.Sprintf("You won %s!", def.Name),
		}
	case WinnerAI:
		taken := m.pickForfeit(m.OriginalPlayerHand)
		def, ok := m.catalog.Lookup(taken.Card.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCard, taken.Card.ID)
		}
		ex = &Exchange{
			Type:    ExchangeAIWin,
			Card:    NewInstance(def).SetOwner(SideAI),
			Message: fmt.Sprintf("The AI takes your %s", def.Name),
		}
	}

	m.Exchange = ex
	receiver := SidePlayer
	if ex.Type == ExchangeAIWin {
		receiver = SideAI
	}
	m.logger.Log(log.NewExchangeEvent(receiver.String(), ex.Card.Card.Name, ex.Message))
	return ex, nil
}

// pickForfeit draws from the strong, medium or weak power tier with
// probability 20/40/40, falling through to the next tier when the chosen one
// is empty and to the whole pool as a last resort.
func (m *Match) pickForfeit(pool []*CardInstance) *CardInstance {
	var strong, medium, weak []*CardInstance
	for _, ci := range pool {
		switch p := ci.Card.Power(); {
		case p >= strongPower:
			strong = append(strong, ci)
		case p >= mediumPower:
			medium = append(medium, ci)
		default:
			weak = append(weak, ci)
		}
	}

	r := m.rng.Float64()
	group := pool
	switch {
	case r < strongChance && len(strong) > 0:
		group = strong
	case r < mediumChance && len(medium) > 0:
		group = medium
	case len(weak) > 0:
		group = weak
	}
	return group[m.rng.Intn(len(group))]
}

// DefeatReward offers a consolation card after an AI win, drawn from the one
// or two levels above the strongest card the player brought. Level 10 cards
// are five times rarer. It returns nil when no reward applies.
func (m *Match) DefeatReward() *CardInstance {
	if !m.Finished() || m.Winner != WinnerAI || len(m.OriginalPlayerHand) == 0 {
		return nil
	}
	maxLevel := 0
	for _, ci := range m.OriginalPlayerHand {
		maxLevel = max(maxLevel, ci.Card.Level())
	}
	pool := m.catalog.Levels(min(maxLevel+1, MaxLevel-1), min(maxLevel+2, MaxLevel))
	if len(pool) == 0 {
		return nil
	}

	weight := func(c *Card) float64 {
		if c.Level() == MaxLevel {
			return topLevelWeight
		}
		return 1
	}
	total := 0.0
	for _, c := range pool {
		total += weight(c)
	}
	r := m.rng.Float64() * total
	pick := pool[0]
	for _, c := range pool {
		if r < weight(c) {
			pick = c
			break
		}
		r -= weight(c)
	}

	m.logger.Log(log.NewRewardEvent(pick.Name))
	return NewInstance(pick)
}

func containsID(hand []*CardInstance, id string) bool {
	for _, ci := range hand {
		if ci.Card.ID == id {
			return true
		}
	}
	return false
}
