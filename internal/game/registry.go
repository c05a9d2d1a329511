package game

import (
	"math/rand"
	"strconv"
)

const (
	CardsPerLevel   = 11
	MaxLevel        = 10
	StarterPoolSize = 10
	starterMaxID    = 30

	// BackImageURL is shown in place of a hidden card's art.
	BackImageURL = "/img/card-back.png"
)

// Catalog holds the immutable card definitions, in fixed catalog order.
// Matches and services receive a Catalog explicitly; there is no shared
// package-level registry.
type Catalog struct {
	cards []*Card
	byID  map[string]*Card
}

// NewCatalog builds the standard catalog.
func NewCatalog() *Catalog {
	return newCatalog(standardCards())
}

func newCatalog(cards []*Card) *Catalog {
	cat := &Catalog{
		cards: cards,
		byID:  make(map[string]*Card, len(cards)),
	}
	for _, c := range cards {
		cat.byID[c.ID] = c
	}
	return cat
}

// All returns every definition in catalog order.
func (cat *Catalog) All() []*Card {
	out := make([]*Card, len(cat.cards))
	copy(out, cat.cards)
	return out
}

// Len returns the number of definitions.
func (cat *Catalog) Len() int {
	return len(cat.cards)
}

// Lookup finds a definition by id.
func (cat *Catalog) Lookup(id string) (*Card, bool) {
	c, ok := cat.byID[id]
	return c, ok
}

// Instance returns a fresh, unowned instance of the card with the given id.
func (cat *Catalog) Instance(id string) (*CardInstance, bool) {
	c, ok := cat.byID[id]
	if !ok {
		return nil, false
	}
	return NewInstance(c), true
}

// Level returns the eleven cards of a level tier (1-10), or nil outside that range.
func (cat *Catalog) Level(level int) []*Card {
	if level < 1 || level > MaxLevel {
		return nil
	}
	start := (level - 1) * CardsPerLevel
	end := min(level*CardsPerLevel, len(cat.cards))
	if start >= end {
		return nil
	}
	out := make([]*Card, end-start)
	copy(out, cat.cards[start:end])
	return out
}

// Levels returns the cards of every tier from lo to hi inclusive.
func (cat *Catalog) Levels(lo, hi int) []*Card {
	var out []*Card
	for l := lo; l <= hi; l++ {
		out = append(out, cat.Level(l)...)
	}
	return out
}

// StarterPool picks StarterPoolSize random cards among the first three tiers
// for a new player's collection.
func (cat *Catalog) StarterPool(rng *rand.Rand) []*Card {
	var pool []*Card
	for _, c := range cat.cards {
		if n, err := strconv.Atoi(c.ID); err == nil && n <= starterMaxID {
			pool = append(pool, c)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:min(StarterPoolSize, len(pool))]
}
