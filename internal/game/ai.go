package game

import "math/rand"

// Move addresses a card in hand and a target cell.
type Move struct {
	HandIndex int
	Position  int
}

// selectMove scores every (card, empty cell) pair by how many opposing
// neighbors the base comparison would flip and returns the best, keeping the
// first pair found on ties. Same and Plus are not considered. When no pair
// captures anything a random legal pair is returned instead.
func selectMove(b *Board, elems *ElementGrid, rules Rules, hand []*CardInstance, side Side, rng *rand.Rand) (Move, error) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return Move{}, ErrNoEmptyCell
	}
	if len(hand) == 0 {
		return Move{}, ErrNoCardsLeft
	}

	best, bestScore := Move{}, 0
	for i, card := range hand {
		for _, pos := range empty {
			if score := baseCaptures(b, elems, rules, card, pos, side); score > bestScore {
				best, bestScore = Move{HandIndex: i, Position: pos}, score
			}
		}
	}
	if bestScore == 0 {
		return Move{
			HandIndex: rng.Intn(len(hand)),
			Position:  empty[rng.Intn(len(empty))],
		}, nil
	}
	return best, nil
}
