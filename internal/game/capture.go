package game

// CaptureReason tags the mechanism that flipped a card.
type CaptureReason int

const (
	CaptureBase CaptureReason = iota
	CaptureSame
	CapturePlus
)

func (r CaptureReason) String() string {
	switch r {
	case CaptureBase:
		return "base"
	case CaptureSame:
		return "same"
	case CapturePlus:
		return "plus"
	default:
		return "unknown"
	}
}

// Capture is one opposing card flipped by a placement.
type Capture struct {
	Position  int
	Direction Direction // from the placed card toward the captured one
	Card      *CardInstance
	Reasons   []CaptureReason
}

// HasReason reports whether r contributed to this capture.
func (c Capture) HasReason(r CaptureReason) bool {
	for _, got := range c.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

// RuleFlags records which special rules fired on a placement.
type RuleFlags struct {
	Same  bool `json:"same"`
	Plus  bool `json:"plus"`
	Combo bool `json:"combo"`
}

// CellBonus is an elemental adjustment applied to a card on a given cell.
type CellBonus struct {
	Position int
	Element  Element
	Bonus    int
}

// ElementalBonuses lists the adjustments that applied to a placement: the
// placed card's own cell and the cells of the cards it captured.
type ElementalBonuses struct {
	Placed   *CellBonus
	Captured []CellBonus
}

// PlacementResult describes everything a single placement changed.
type PlacementResult struct {
	Card     *CardInstance
	Position int
	Side     Side
	Captures []Capture
	Flags    RuleFlags
	Bonuses  ElementalBonuses
}

// Directions returns the facing direction of each capture, in capture order.
func (r *PlacementResult) Directions() []Direction {
	dirs := make([]Direction, len(r.Captures))
	for i, c := range r.Captures {
		dirs[i] = c.Direction
	}
	return dirs
}

// contact is an opposing neighbor of the placed card.
type contact struct {
	pos       int
	dir       Direction
	card      *CardInstance
	rawAttack int
	rawDefend int
	attack    int
	defend    int
	reasons   []CaptureReason
}

// placeCard writes card into pos for side and flips every opposing neighbor
// captured by the base comparison, Same or Plus. The three mechanisms are
// evaluated independently and their captures unioned; a neighbor is flipped
// at most once. The caller has already checked that pos is empty.
func placeCard(b *Board, elems *ElementGrid, rules Rules, card *CardInstance, pos int, side Side) *PlacementResult {
	card.SetOwner(side)
	card.Position = pos
	b[pos] = card

	res := &PlacementResult{Card: card, Position: pos, Side: side}
	if rules.Elemental && elems[pos] != ElementNone {
		res.Bonuses.Placed = &CellBonus{Position: pos, Element: elems[pos], Bonus: elems.Bonus(pos, card.Card)}
	}

	var contacts []*contact
	for _, d := range directions {
		np, ok := Neighbor(pos, d)
		if !ok {
			continue
		}
		n := b[np]
		if n == nil || n.Owner == side {
			continue
		}
		c := &contact{
			pos:       np,
			dir:       d,
			card:      n,
			rawAttack: card.Value(d),
			rawDefend: n.Value(d.Opposite()),
		}
		c.attack, c.defend = c.rawAttack, c.rawDefend
		if rules.Elemental {
			c.attack += elems.Bonus(pos, card.Card)
			c.defend += elems.Bonus(np, n.Card)
		}
		contacts = append(contacts, c)
	}

	for _, c := range contacts {
		if c.attack > c.defend {
			c.reasons = append(c.reasons, CaptureBase)
		}
	}

	if rules.Same {
		var same []*contact
		for _, c := range contacts {
			if c.rawAttack == c.rawDefend {
				same = append(same, c)
			}
		}
		if len(same) >= 2 {
			res.Flags.Same = true
			for _, c := range same {
				c.reasons = append(c.reasons, CaptureSame)
			}
		}
	}

	if rules.Plus {
		sums := make(map[int][]*contact)
		for _, c := range contacts {
			sums[c.attack+c.defend] = append(sums[c.attack+c.defend], c)
		}
		for _, group := range sums {
			if len(group) < 2 {
				continue
			}
			res.Flags.Plus = true
			for _, c := range group {
				c.reasons = append(c.reasons, CapturePlus)
			}
		}
	}

	res.Flags.Combo = res.Flags.Same && res.Flags.Plus

	for _, c := range contacts {
		if len(c.reasons) == 0 {
			continue
		}
		c.card.Owner = side
		res.Captures = append(res.Captures, Capture{
			Position:  c.pos,
			Direction: c.dir,
			Card:      c.card,
			Reasons:   c.reasons,
		})
		if rules.Elemental && elems[c.pos] != ElementNone {
			res.Bonuses.Captured = append(res.Bonuses.Captured, CellBonus{
				Position: c.pos,
				Element:  elems[c.pos],
				Bonus:    elems.Bonus(c.pos, c.card.Card),
			})
		}
	}
	return res
}

// baseCaptures counts the opposing neighbors card would flip at pos through the
// elemental-adjusted base comparison alone. The board is not modified.
func baseCaptures(b *Board, elems *ElementGrid, rules Rules, card *CardInstance, pos int, side Side) int {
	n := 0
	for _, d := range directions {
		np, ok := Neighbor(pos, d)
		if !ok {
			continue
		}
		other := b[np]
		if other == nil || other.Owner == side {
			continue
		}
		attack, defend := card.Value(d), other.Value(d.Opposite())
		if rules.Elemental {
			attack += elems.Bonus(pos, card.Card)
			defend += elems.Bonus(np, other.Card)
		}
		if attack > defend {
			n++
		}
	}
	return n
}
