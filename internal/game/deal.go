package game

import (
	"fmt"
	"math"
	"math/rand"
)

type levelWeight struct {
	level  int
	weight float64
}

// powerBracket maps a mean player hand power below the given bound to the
// level distribution the AI hand is drawn from.
type powerBracket struct {
	below  float64
	levels []levelWeight
}

var aiBrackets = []powerBracket{
	{30, []levelWeight{{1, 0.5}, {2, 0.3}, {3, 0.2}}},
	{50, []levelWeight{{2, 0.4}, {3, 0.35}, {4, 0.25}}},
	{70, []levelWeight{{3, 0.35}, {4, 0.3}, {5, 0.25}, {6, 0.1}}},
	{85, []levelWeight{{4, 0.25}, {5, 0.3}, {6, 0.25}, {7, 0.15}, {8, 0.05}}},
	{math.Inf(1), []levelWeight{{5, 0.2}, {6, 0.25}, {7, 0.25}, {8, 0.2}, {9, 0.08}, {10, 0.02}}},
}

func bracketFor(power float64) []levelWeight {
	for _, b := range aiBrackets {
		if power < b.below {
			return b.levels
		}
	}
	return aiBrackets[len(aiBrackets)-1].levels
}

func pickLevel(rng *rand.Rand, levels []levelWeight) int {
	total := 0.0
	for _, lw := range levels {
		total += lw.weight
	}
	r := rng.Float64() * total
	for _, lw := range levels {
		if r < lw.weight {
			return lw.level
		}
		r -= lw.weight
	}
	return levels[0].level
}

// MeanPower is the average Power of the cards in hand, or 0 for an empty hand.
func MeanPower(hand []*CardInstance) float64 {
	if len(hand) == 0 {
		return 0
	}
	sum := 0
	for _, ci := range hand {
		sum += ci.Card.Power()
	}
	return float64(sum) / float64(len(hand))
}

// drawDistinct picks n different cards uniformly from pool.
func drawDistinct(rng *rand.Rand, pool []*Card, n int) []*Card {
	picks := make([]*Card, len(pool))
	copy(picks, pool)
	rng.Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})
	return picks[:min(n, len(picks))]
}

// resolveHand turns requested card ids into fresh instances owned by side.
// An id may repeat; each copy gets its own instance. An empty request deals
// a random hand from the first three levels.
func resolveHand(cat *Catalog, rng *rand.Rand, ids []string, side Side) ([]*CardInstance, error) {
	if len(ids) == 0 {
		var hand []*CardInstance
		for _, c := range drawDistinct(rng, cat.Levels(1, 3), HandSize) {
			hand = append(hand, NewInstance(c).SetOwner(side))
		}
		return hand, nil
	}
	if len(ids) != HandSize {
		return nil, fmt.Errorf("%w: hand needs %d cards, got %d", ErrInvalidInput, HandSize, len(ids))
	}
	hand := make([]*CardInstance, 0, HandSize)
	for _, id := range ids {
		ci, ok := cat.Instance(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown card id %q", ErrInvalidInput, id)
		}
		hand = append(hand, ci.SetOwner(side))
	}
	return hand, nil
}

// dealAI draws an AI hand whose levels track the player's mean card power.
func dealAI(cat *Catalog, rng *rand.Rand, playerPower float64) []*CardInstance {
	levels := bracketFor(playerPower)
	seen := make(map[string]bool, HandSize)
	hand := make([]*CardInstance, 0, HandSize)
	for len(hand) < HandSize {
		tier := cat.Level(pickLevel(rng, levels))
		if len(tier) == 0 {
			continue
		}
		c := tier[rng.Intn(len(tier))]
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		hand = append(hand, NewInstance(c).SetOwner(SideAI))
	}
	return hand
}

func cloneHand(hand []*CardInstance) []*CardInstance {
	out := make([]*CardInstance, len(hand))
	for i, ci := range hand {
		out[i] = ci.Clone()
	}
	return out
}

// redeal returns fresh copies of an original hand, owned by side and off the board.
func redeal(original []*CardInstance, side Side) []*CardInstance {
	out := make([]*CardInstance, len(original))
	for i, ci := range original {
		c := ci.Clone()
		c.Owner = side
		c.OriginalOwner = side
		c.Position = -1
		out[i] = c
	}
	return out
}
