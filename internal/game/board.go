package game

import "math/rand"

const (
	BoardSize  = 9
	BoardWidth = 3
	HandSize   = 5

	elementChance = 0.25
)

// Board is the 3x3 grid, indexed row*3+col. A nil slot is empty.
type Board [BoardSize]*CardInstance

// ElementGrid is the per-cell element overlay. ElementNone marks a plain cell.
type ElementGrid [BoardSize]Element

// directions lists the facing sides in the order neighbors are examined.
var directions = [4]Direction{DirTop, DirRight, DirBottom, DirLeft}

// ValidCell reports whether pos addresses a board cell.
func ValidCell(pos int) bool {
	return pos >= 0 && pos < BoardSize
}

// Neighbor returns the cell adjacent to pos in direction d, or false at the edge.
func Neighbor(pos int, d Direction) (int, bool) {
	row, col := pos/BoardWidth, pos%BoardWidth
	switch d {
	case DirTop:
		row--
	case DirRight:
		col++
	case DirBottom:
		row++
	case DirLeft:
		col--
	}
	if row < 0 || row >= BoardWidth || col < 0 || col >= BoardWidth {
		return -1, false
	}
	return row*BoardWidth + col, true
}

// EmptyCells returns the indices of unoccupied cells in ascending order.
func (b *Board) EmptyCells() []int {
	var cells []int
	for i, c := range b {
		if c == nil {
			cells = append(cells, i)
		}
	}
	return cells
}

// Occupied returns the number of cards on the board.
func (b *Board) Occupied() int {
	n := 0
	for _, c := range b {
		if c != nil {
			n++
		}
	}
	return n
}

// OwnedBy counts the board cards currently owned by s.
func (b *Board) OwnedBy(s Side) int {
	n := 0
	for _, c := range b {
		if c != nil && c.Owner == s {
			n++
		}
	}
	return n
}

// Clear empties every cell.
func (b *Board) Clear() {
	*b = Board{}
}

// Bonus returns the elemental adjustment for card c standing on cell pos.
func (g *ElementGrid) Bonus(pos int, c *Card) int {
	if !ValidCell(pos) {
		return 0
	}
	return c.ElementalBonus(g[pos])
}

// rollElements gives each cell an element with probability elementChance.
func rollElements(rng *rand.Rand) ElementGrid {
	var g ElementGrid
	for i := range g {
		if rng.Float64() < elementChance {
			g[i] = Elements[rng.Intn(len(Elements))]
		}
	}
	return g
}
