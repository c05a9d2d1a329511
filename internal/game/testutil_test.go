package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/triad/internal/log"
)

// testCard builds an off-catalog definition with the given values.
func testCard(id string, top, right, bottom, left int, elem Element) *Card {
	return &Card{
		ID:       id,
		Name:     "Test " + id,
		Top:      top,
		Right:    right,
		Bottom:   bottom,
		Left:     left,
		Element:  elem,
		ImageURL: "/img/cards/test.png",
	}
}

// flat returns a card with the same value on every side.
func flat(id string, v int) *Card {
	return testCard(id, v, v, v, v, ElementNone)
}

// newTestMatch creates an initialized, seeded match where the player moves first.
func newTestMatch(t *testing.T, rules Rules) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	m := NewMatch(MatchConfig{
		Settings: Settings{PlayerID: "tester", Level: 5, FirstTurn: SidePlayer},
		Rules:    rules,
		Logger:   logger,
		Seed:     42,
	})
	require.NoError(t, m.Initialize(nil))
	return m, logger
}

// put writes a fresh instance of c onto the board for side, bypassing hands.
func put(m *Match, pos int, c *Card, side Side) *CardInstance {
	ci := NewInstance(c).SetOwner(side)
	ci.Position = pos
	m.Board[pos] = ci
	m.recomputeScores()
	return ci
}

// setHand replaces the live hand of side with fresh instances of cards.
func setHand(m *Match, side Side, cards ...*Card) {
	hand := make([]*CardInstance, len(cards))
	for i, c := range cards {
		hand[i] = NewInstance(c).SetOwner(side)
	}
	*m.hand(side) = hand
	m.recomputeScores()
}

// catalogCards looks up definitions by id, failing the test on a miss.
func catalogCards(t *testing.T, cat *Catalog, ids ...string) []*Card {
	t.Helper()
	out := make([]*Card, len(ids))
	for i, id := range ids {
		c, ok := cat.Lookup(id)
		require.True(t, ok, "card %s", id)
		out[i] = c
	}
	return out
}

func requireScoreInvariant(t *testing.T, m *Match) {
	t.Helper()
	require.Equal(t, m.Board.OwnedBy(SidePlayer)+len(m.PlayerHand), m.PlayerScore, "player score")
	require.Equal(t, m.Board.OwnedBy(SideAI)+len(m.AIHand), m.AIScore, "ai score")
}

func handIDs(hand []*CardInstance) []string {
	ids := make([]string, len(hand))
	for i, ci := range hand {
		ids[i] = ci.Card.ID
	}
	return ids
}

// playOut drives a match to completion. The player plays a random card into a
// random empty cell; the AI uses its selector. The callback runs after every
// move.
func playOut(t *testing.T, m *Match, after func(*MoveResult)) {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	for i := 0; !m.Finished(); i++ {
		require.Less(t, i, 500, "match did not finish")
		var (
			res *MoveResult
			err error
		)
		if m.Turn == SidePlayer {
			empty := m.Board.EmptyCells()
			res, err = m.PlayerMove(rng.Intn(len(m.PlayerHand)), empty[rng.Intn(len(empty))])
		} else {
			res, err = m.AIMove()
		}
		require.NoError(t, err, fmt.Sprintf("move %d", i))
		if after != nil {
			after(res)
		}
	}
}
