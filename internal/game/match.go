package game

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/peterkuimelis/triad/internal/log"
)

// Settings are fixed for the life of a match.
type Settings struct {
	PlayerID  string
	Level     int
	AIName    string
	FirstTurn Side // SideNone picks the first mover at random
}

// MatchConfig holds everything needed to create a match.
type MatchConfig struct {
	Catalog  *Catalog // nil uses NewCatalog()
	Settings Settings
	Rules    Rules
	Logger   log.EventLogger
	Seed     int64 // RNG seed (0 for random)
}

// Match is the complete state of one game between the player and the AI.
// It is not safe for concurrent use.
type Match struct {
	Settings Settings
	Rules    Rules

	Board    Board
	Elements ElementGrid

	PlayerHand []*CardInstance
	AIHand     []*CardInstance

	PlayerScore int
	AIScore     int

	Turn   Side
	Status Status
	Winner Winner
	Round  int // sudden death rounds played so far
	Moves  int

	OriginalPlayerHand []*CardInstance
	OriginalAIHand     []*CardInstance

	Exchange *Exchange

	catalog *Catalog
	rng     *rand.Rand
	logger  log.EventLogger
}

// MoveResult is returned by PlayerMove and AIMove.
type MoveResult struct {
	PlacedCard        *CardInstance
	Position          int
	Side              Side
	Captured          []Capture
	CaptureDirections []Direction
	Flags             RuleFlags
	ElementalBonuses  ElementalBonuses
	IsGameEnd         bool     // the placement ended the round, including a sudden death reset
	EndInfo           *EndInfo // set when IsGameEnd
}

// EndInfo summarizes how a round ended. Winner is WinnerNone when the round
// ended in a sudden death reset.
type EndInfo struct {
	Winner      Winner
	PlayerScore int
	AIScore     int
	Status      Status
	Round       int
}

// NewMatch creates an uninitialized match. Call Initialize to deal the hands.
func NewMatch(cfg MatchConfig) *Match {
	cat := cfg.Catalog
	if cat == nil {
		cat = NewCatalog()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Match{
		Settings: cfg.Settings,
		Rules:    cfg.Rules,
		Status:   StatusPlaying,
		catalog:  cat,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger,
	}
}

// Catalog returns the catalog the match deals from.
func (m *Match) Catalog() *Catalog { return m.catalog }

// Logger returns the match event log.
func (m *Match) Logger() log.EventLogger { return m.logger }

// Finished reports whether the match has reached its terminal state.
func (m *Match) Finished() bool { return m.Status == StatusFinished }

// Initialize deals both hands, rolls the element overlay and picks the first
// mover. playerCardIDs must be empty (random low-level hand) or list exactly
// five distinct catalog ids.
func (m *Match) Initialize(playerCardIDs []string) error {
	if len(m.OriginalPlayerHand) > 0 {
		return fmt.Errorf("%w: match already initialized", ErrInvalidInput)
	}
	playerHand, err := resolveHand(m.catalog, m.rng, playerCardIDs, SidePlayer)
	if err != nil {
		return err
	}

	m.PlayerHand = playerHand
	m.AIHand = dealAI(m.catalog, m.rng, MeanPower(playerHand))
	m.OriginalPlayerHand = cloneHand(m.PlayerHand)
	m.OriginalAIHand = cloneHand(m.AIHand)

	if m.Rules.Elemental {
		m.Elements = rollElements(m.rng)
	}

	m.Turn = m.Settings.FirstTurn
	if m.Turn == SideNone {
		m.Turn = SidePlayer
		if m.rng.Intn(2) == 1 {
			m.Turn = SideAI
		}
	}
	m.Status = StatusPlaying
	m.recomputeScores()

	m.logger.Log(log.NewMatchStartEvent(m.Turn.String(), m.Rules.String()))
	return nil
}

// PlayerMove places the player's card at handIndex onto boardIndex.
func (m *Match) PlayerMove(handIndex, boardIndex int) (*MoveResult, error) {
	if m.Finished() {
		return nil, ErrGameFinished
	}
	if m.Turn != SidePlayer {
		return nil, ErrInvalidTurn
	}
	if handIndex < 0 || handIndex >= len(m.PlayerHand) {
		return nil, fmt.Errorf("%w: %d (hand has %d cards)", ErrInvalidIndex, handIndex, len(m.PlayerHand))
	}
	if !ValidCell(boardIndex) {
		return nil, fmt.Errorf("%w: %d is off the board", ErrInvalidPosition, boardIndex)
	}
	if m.Board[boardIndex] != nil {
		return nil, fmt.Errorf("%w: cell %d is occupied", ErrInvalidPosition, boardIndex)
	}
	return m.play(SidePlayer, handIndex, boardIndex), nil
}

// AIMove lets the AI pick and play its move.
func (m *Match) AIMove() (*MoveResult, error) {
	if m.Finished() {
		return nil, ErrGameFinished
	}
	if m.Turn != SideAI {
		return nil, ErrNotAITurn
	}
	if len(m.AIHand) == 0 {
		return nil, ErrNoCardsLeft
	}
	mv, err := selectMove(&m.Board, &m.Elements, m.Rules, m.AIHand, SideAI, m.rng)
	if err != nil {
		return nil, err
	}
	return m.play(SideAI, mv.HandIndex, mv.Position), nil
}

func (m *Match) hand(s Side) *[]*CardInstance {
	if s == SideAI {
		return &m.AIHand
	}
	return &m.PlayerHand
}

// play applies a validated move: the card leaves the hand, captures resolve,
// scores are recomputed, the end condition is checked and, if the round goes
// on, the turn passes.
func (m *Match) play(side Side, handIndex, pos int) *MoveResult {
	hand := m.hand(side)
	card := (*hand)[handIndex]
	*hand = slices.Delete(*hand, handIndex, handIndex+1)

	m.Moves++
	res := placeCard(&m.Board, &m.Elements, m.Rules, card, pos, side)
	m.recomputeScores()
	m.logPlacement(res)

	out := &MoveResult{
		PlacedCard:        res.Card.Clone(),
		Position:          pos,
		Side:              side,
		CaptureDirections: res.Directions(),
		Flags:             res.Flags,
		ElementalBonuses:  res.Bonuses,
	}
	for _, c := range res.Captures {
		c.Card = c.Card.Clone()
		out.Captured = append(out.Captured, c)
	}

	if m.checkEnd() {
		out.IsGameEnd = true
		out.EndInfo = &EndInfo{
			Winner:      m.Winner,
			PlayerScore: m.PlayerScore,
			AIScore:     m.AIScore,
			Status:      m.Status,
			Round:       m.Round,
		}
		return out
	}
	m.Turn = side.Opponent()
	return out
}

// checkEnd resolves the round once either hand is empty. It reports whether
// the round ended.
func (m *Match) checkEnd() bool {
	if len(m.PlayerHand) > 0 && len(m.AIHand) > 0 {
		return false
	}
	switch {
	case m.PlayerScore > m.AIScore:
		m.finish(WinnerPlayer)
	case m.AIScore > m.PlayerScore:
		m.finish(WinnerAI)
	case m.Rules.SuddenDeath:
		m.startSuddenDeath()
	default:
		m.finish(WinnerDraw)
	}
	return true
}

func (m *Match) finish(w Winner) {
	m.Status = StatusFinished
	m.Winner = w
	if w == WinnerDraw {
		m.logger.Log(log.NewDrawGameEvent(m.Round, m.Moves, m.PlayerScore))
		return
	}
	m.logger.Log(log.NewWinEvent(m.Round, m.Moves, w.String(), m.PlayerScore, m.AIScore))
}

// startSuddenDeath replays a tied round from the original hands on a cleared
// board. Rules and the element overlay carry over.
func (m *Match) startSuddenDeath() {
	m.Round++
	m.Status = StatusSuddenDeath
	m.Board.Clear()
	m.PlayerHand = redeal(m.OriginalPlayerHand, SidePlayer)
	m.AIHand = redeal(m.OriginalAIHand, SideAI)
	m.Turn = m.Settings.FirstTurn
	if m.Turn == SideNone {
		m.Turn = SidePlayer
	}
	m.recomputeScores()
	m.logger.Log(log.NewSuddenDeathEvent(m.Round, m.Moves))
}

func (m *Match) recomputeScores() {
	m.PlayerScore = m.Board.OwnedBy(SidePlayer) + len(m.PlayerHand)
	m.AIScore = m.Board.OwnedBy(SideAI) + len(m.AIHand)
}

func (m *Match) logPlacement(res *PlacementResult) {
	side := res.Side.String()
	m.logger.Log(log.NewPlaceEvent(m.Round, m.Moves, side, res.Card.Card.Name, res.Position))
	if res.Flags.Same {
		m.logger.Log(log.NewRuleEvent(m.Round, m.Moves, side, log.EventSame))
	}
	if res.Flags.Plus {
		m.logger.Log(log.NewRuleEvent(m.Round, m.Moves, side, log.EventPlus))
	}
	if res.Flags.Combo {
		m.logger.Log(log.NewRuleEvent(m.Round, m.Moves, side, log.EventCombo))
	}
	for _, c := range res.Captures {
		reasons := make([]string, len(c.Reasons))
		for i, r := range c.Reasons {
			reasons[i] = r.String()
		}
		m.logger.Log(log.NewCaptureEvent(m.Round, m.Moves, side, c.Card.Card.Name, c.Position, strings.Join(reasons, "+")))
	}
}
