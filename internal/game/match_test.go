package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/triad/internal/log"
)

func TestInitializeRandomHand(t *testing.T) {
	m, logger := newTestMatch(t, Rules{})

	require.Len(t, m.PlayerHand, HandSize)
	require.Len(t, m.AIHand, HandSize)
	seen := map[string]bool{}
	for _, ci := range m.PlayerHand {
		assert.LessOrEqual(t, ci.Card.Level(), 3)
		assert.Equal(t, SidePlayer, ci.Owner)
		assert.Equal(t, SidePlayer, ci.OriginalOwner)
		assert.False(t, seen[ci.Card.ID])
		seen[ci.Card.ID] = true
	}
	for _, ci := range m.AIHand {
		assert.Equal(t, SideAI, ci.Owner)
	}

	assert.Equal(t, handIDs(m.PlayerHand), handIDs(m.OriginalPlayerHand))
	assert.Equal(t, handIDs(m.AIHand), handIDs(m.OriginalAIHand))
	assert.NotSame(t, m.PlayerHand[0], m.OriginalPlayerHand[0], "originals are copies")

	assert.Equal(t, 5, m.PlayerScore)
	assert.Equal(t, 5, m.AIScore)
	assert.Equal(t, SidePlayer, m.Turn)
	assert.Equal(t, StatusPlaying, m.Status)
	assert.Equal(t, ElementGrid{}, m.Elements, "no overlay without the elemental rule")
	assert.Len(t, logger.EventsOfType(log.EventMatchStart), 1)
}

func TestInitializeWithIDs(t *testing.T) {
	m := NewMatch(MatchConfig{Seed: 3})
	ids := []string{"1", "2", "3", "4", "5"}
	require.NoError(t, m.Initialize(ids))
	assert.Equal(t, ids, handIDs(m.PlayerHand))
	assert.NotEqual(t, SideNone, m.Turn)

	// A weak hand faces AI cards from the first three levels.
	for _, ci := range m.AIHand {
		assert.LessOrEqual(t, ci.Card.Level(), 3)
	}
}

func TestInitializeWithRepeatedIDs(t *testing.T) {
	m := NewMatch(MatchConfig{Seed: 3})
	ids := []string{"1", "1", "2", "3", "4"}
	require.NoError(t, m.Initialize(ids))
	assert.Equal(t, ids, handIDs(m.PlayerHand))
	assert.NotSame(t, m.PlayerHand[0], m.PlayerHand[1], "each copy is its own instance")
	assert.Equal(t, ids, handIDs(m.OriginalPlayerHand))
}

func TestAIHandTracksPlayerPower(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		m := NewMatch(MatchConfig{Seed: seed})
		require.NoError(t, m.Initialize([]string{"106", "104", "109", "108", "110"}))
		seen := map[string]bool{}
		for _, ci := range m.AIHand {
			lvl := ci.Card.Level()
			assert.True(t, lvl >= 4 && lvl <= 8, "seed %d: level %d", seed, lvl)
			assert.False(t, seen[ci.Card.ID], "duplicate AI card")
			seen[ci.Card.ID] = true
		}
	}
}

func TestInitializeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"too few", []string{"1", "2", "3", "4"}},
		{"too many", []string{"1", "2", "3", "4", "5", "6"}},
		{"unknown id", []string{"1", "2", "3", "4", "999"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatch(MatchConfig{Seed: 1})
			err := m.Initialize(tt.ids)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, m.PlayerHand)
			assert.Empty(t, m.AIHand)
			assert.Equal(t, SideNone, m.Turn)
		})
	}
}

func TestInitializeTwice(t *testing.T) {
	m, _ := newTestMatch(t, Rules{})
	before := m.Snapshot()
	require.ErrorIs(t, m.Initialize(nil), ErrInvalidInput)
	assert.Equal(t, before, m.Snapshot())
}

func TestElementsRolledWithElementalRule(t *testing.T) {
	found := false
	for seed := int64(1); seed <= 10 && !found; seed++ {
		m := NewMatch(MatchConfig{Seed: seed, Rules: Rules{Elemental: true}})
		require.NoError(t, m.Initialize(nil))
		for _, e := range m.Elements {
			if e != ElementNone {
				found = true
			}
		}
	}
	assert.True(t, found, "ten seeded overlays without a single element")
}

func TestRandomFirstTurn(t *testing.T) {
	sides := map[Side]bool{}
	for seed := int64(1); seed <= 30; seed++ {
		m := NewMatch(MatchConfig{Seed: seed})
		require.NoError(t, m.Initialize(nil))
		sides[m.Turn] = true
	}
	assert.True(t, sides[SidePlayer])
	assert.True(t, sides[SideAI])
	assert.False(t, sides[SideNone])
}

func TestPlayerMoveErrorsDoNotMutate(t *testing.T) {
	m, _ := newTestMatch(t, Rules{})
	put(m, 4, flat("blocker", 5), SideAI)
	before := m.Snapshot()

	_, err := m.PlayerMove(5, 0)
	require.ErrorIs(t, err, ErrInvalidIndex)
	_, err = m.PlayerMove(-1, 0)
	require.ErrorIs(t, err, ErrInvalidIndex)
	_, err = m.PlayerMove(0, 9)
	require.ErrorIs(t, err, ErrInvalidPosition)
	_, err = m.PlayerMove(0, -1)
	require.ErrorIs(t, err, ErrInvalidPosition)
	_, err = m.PlayerMove(0, 4)
	require.ErrorIs(t, err, ErrInvalidPosition)

	// Index is checked before position.
	_, err = m.PlayerMove(7, 4)
	require.ErrorIs(t, err, ErrInvalidIndex)

	m.Turn = SideAI
	_, err = m.PlayerMove(0, 0)
	require.ErrorIs(t, err, ErrInvalidTurn)
	m.Turn = SidePlayer

	m.Status = StatusFinished
	m.Winner = WinnerAI
	_, err = m.PlayerMove(0, 0)
	require.ErrorIs(t, err, ErrGameFinished)
	m.Status = StatusPlaying
	m.Winner = WinnerNone

	assert.Equal(t, before, m.Snapshot())
}

func TestPlayerMovePassesTurn(t *testing.T) {
	m, logger := newTestMatch(t, Rules{})
	card := m.PlayerHand[2]

	res, err := m.PlayerMove(2, 0)
	require.NoError(t, err)

	assert.Equal(t, card.Card.ID, res.PlacedCard.Card.ID)
	assert.Equal(t, 0, res.Position)
	assert.False(t, res.IsGameEnd)
	assert.Nil(t, res.EndInfo)
	assert.Same(t, card, m.Board[0])
	assert.Len(t, m.PlayerHand, 4)
	assert.NotContains(t, m.PlayerHand, card)
	assert.Equal(t, SideAI, m.Turn)
	assert.Equal(t, 1, m.Moves)
	requireScoreInvariant(t, m)

	placed := logger.EventsOfType(log.EventPlace)
	require.Len(t, placed, 1)
	assert.Equal(t, card.Card.Name, placed[0].Card)
	assert.Equal(t, 0, placed[0].Cell)
}

func TestBaseCaptureThroughMatch(t *testing.T) {
	m, _ := newTestMatch(t, Rules{})
	defender := put(m, 5, testCard("d", 5, 5, 5, 3, ElementNone), SideAI)
	setHand(m, SidePlayer, testCard("a", 1, 6, 1, 1, ElementNone), flat("b", 1))

	res, err := m.PlayerMove(0, 4)
	require.NoError(t, err)
	require.Len(t, res.Captured, 1)
	assert.Equal(t, 5, res.Captured[0].Position)
	assert.Equal(t, []Direction{DirRight}, res.CaptureDirections)
	assert.Equal(t, SidePlayer, defender.Owner)
	requireScoreInvariant(t, m)
}

func TestAIMoveErrors(t *testing.T) {
	m, _ := newTestMatch(t, Rules{})
	_, err := m.AIMove()
	require.ErrorIs(t, err, ErrNotAITurn)

	m.Turn = SideAI
	hand := m.AIHand
	m.AIHand = nil
	_, err = m.AIMove()
	require.ErrorIs(t, err, ErrNoCardsLeft)
	m.AIHand = hand

	m.Status = StatusFinished
	m.Winner = WinnerPlayer
	_, err = m.AIMove()
	require.ErrorIs(t, err, ErrGameFinished)
}

func TestAIMovePassesTurn(t *testing.T) {
	m, _ := newTestMatch(t, Rules{})
	_, err := m.PlayerMove(0, 0)
	require.NoError(t, err)

	res, err := m.AIMove()
	require.NoError(t, err)
	assert.Equal(t, SideAI, res.Side)
	assert.Len(t, m.AIHand, 4)
	assert.Equal(t, SidePlayer, m.Turn)
	assert.Equal(t, 2, m.Board.Occupied())
	requireScoreInvariant(t, m)
}

func TestFullMatchKeepsInvariants(t *testing.T) {
	for _, rules := range []Rules{{}, RulesForLevel(5), RulesForLevel(8), RulesForLevel(10)} {
		for seed := int64(1); seed <= 10; seed++ {
			m := NewMatch(MatchConfig{Seed: seed, Rules: rules})
			require.NoError(t, m.Initialize(nil))
			elements := m.Elements

			remaining := len(m.PlayerHand) + len(m.AIHand)
			round := m.Round
			playOut(t, m, func(res *MoveResult) {
				requireScoreInvariant(t, m)
				for _, c := range res.Captured {
					assert.Equal(t, res.Side, c.Card.Owner)
				}
				left := len(m.PlayerHand) + len(m.AIHand)
				if m.Round == round {
					assert.Less(t, left, remaining, "hands only shrink within a round")
				} else {
					assert.Equal(t, 0, m.Board.Occupied(), "sudden death clears the board")
					round = m.Round
				}
				remaining = left
				assert.Equal(t, elements, m.Elements, "overlay is never rerolled")
			})

			assert.Equal(t, StatusFinished, m.Status)
			assert.NotEqual(t, WinnerNone, m.Winner)
			requireScoreInvariant(t, m)
			if m.Winner == WinnerDraw {
				assert.False(t, rules.SuddenDeath, "a draw cannot stand under sudden death")
			}
		}
	}
}

// lastCellSetup leaves one empty cell (8) with four cards each on the board,
// one card in the player's hand and one in the AI's: the player's placement
// ends the round.
func lastCellSetup(t *testing.T, rules Rules, finisher *Card) *Match {
	t.Helper()
	m, _ := newTestMatch(t, rules)
	for pos := 0; pos < 8; pos++ {
		side := SidePlayer
		if pos%2 == 1 {
			side = SideAI
		}
		put(m, pos, flat("wall", 10), side)
	}
	setHand(m, SidePlayer, finisher)
	setHand(m, SideAI, flat("spare", 1))
	m.Moves = 8
	requireScoreInvariant(t, m)
	require.Equal(t, 5, m.PlayerScore)
	require.Equal(t, 5, m.AIScore)
	return m
}

func TestTieWithoutSuddenDeathIsDraw(t *testing.T) {
	m := lastCellSetup(t, Rules{}, flat("weak", 1))

	res, err := m.PlayerMove(0, 8)
	require.NoError(t, err)
	assert.True(t, res.IsGameEnd)
	require.NotNil(t, res.EndInfo)
	assert.Equal(t, WinnerDraw, res.EndInfo.Winner)
	assert.Equal(t, StatusFinished, m.Status)
	assert.Equal(t, WinnerDraw, m.Winner)
	assert.Equal(t, SidePlayer, m.Turn, "turn does not pass once the match ends")

	_, err = m.PlayerMove(0, 0)
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestDecisiveFinish(t *testing.T) {
	// Cell 8 touches cells 5 and 7. Soften cell 5 so the finisher captures it.
	m := lastCellSetup(t, Rules{}, flat("strong", 10))
	m.Board[5].Card = flat("soft", 1)

	res, err := m.PlayerMove(0, 8)
	require.NoError(t, err)
	require.Len(t, res.Captured, 1)
	assert.True(t, res.IsGameEnd)
	assert.Equal(t, WinnerPlayer, res.EndInfo.Winner)
	assert.Equal(t, 6, res.EndInfo.PlayerScore)
	assert.Equal(t, 4, res.EndInfo.AIScore)
	assert.Equal(t, StatusFinished, m.Status)
}

func TestSuddenDeathRedealsOriginalHands(t *testing.T) {
	m := lastCellSetup(t, Rules{SuddenDeath: true, Elemental: true}, flat("weak", 1))
	m.Elements = ElementGrid{ElementFire, ElementNone, ElementNone, ElementNone, ElementHoly}
	originalPlayer := handIDs(m.OriginalPlayerHand)
	originalAI := handIDs(m.OriginalAIHand)
	require.NotEqual(t, originalPlayer, handIDs(m.PlayerHand), "live hand differs from the original")

	res, err := m.PlayerMove(0, 8)
	require.NoError(t, err)

	assert.True(t, res.IsGameEnd)
	require.NotNil(t, res.EndInfo)
	assert.Equal(t, WinnerNone, res.EndInfo.Winner)
	assert.Equal(t, StatusSuddenDeath, res.EndInfo.Status)
	assert.Equal(t, 1, res.EndInfo.Round)

	assert.Equal(t, StatusSuddenDeath, m.Status)
	assert.Equal(t, WinnerNone, m.Winner)
	assert.Equal(t, 1, m.Round)
	assert.Equal(t, 0, m.Board.Occupied())
	assert.Equal(t, originalPlayer, handIDs(m.PlayerHand))
	assert.Equal(t, originalAI, handIDs(m.AIHand))
	for _, ci := range m.PlayerHand {
		assert.Equal(t, SidePlayer, ci.Owner)
		assert.Equal(t, -1, ci.Position)
	}
	for _, ci := range m.AIHand {
		assert.Equal(t, SideAI, ci.Owner)
	}
	assert.NotSame(t, m.OriginalPlayerHand[0], m.PlayerHand[0])
	assert.Equal(t, 5, m.PlayerScore)
	assert.Equal(t, 5, m.AIScore)
	assert.Equal(t, SidePlayer, m.Turn)
	assert.Equal(t, ElementFire, m.Elements[0], "overlay survives sudden death")
	assert.Equal(t, ElementHoly, m.Elements[4])
	assert.True(t, m.Rules.SuddenDeath)

	// Play resumes from the redealt hands.
	_, err = m.PlayerMove(0, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusSuddenDeath, m.Status)
	requireScoreInvariant(t, m)
}

func TestSuddenDeathUsesConfiguredFirstTurn(t *testing.T) {
	m := lastCellSetup(t, Rules{SuddenDeath: true}, flat("weak", 1))
	m.Settings.FirstTurn = SideAI

	_, err := m.PlayerMove(0, 8)
	require.NoError(t, err)
	assert.Equal(t, SideAI, m.Turn)
	_, err = m.AIMove()
	require.NoError(t, err)
}

func TestMatchEventLog(t *testing.T) {
	m, logger := newTestMatch(t, RulesForLevel(10))
	playOut(t, m, nil)

	events := logger.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, log.EventMatchStart, events[0].Type)
	last := logger.LastEvent()
	assert.Contains(t, []log.EventType{log.EventWin, log.EventDrawGame}, last.Type)
	for i, e := range events {
		assert.Equal(t, i+1, e.Seq)
	}
	t.Log("\n" + log.FormatAll(events))
}
