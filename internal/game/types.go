package game

import (
	"fmt"
	"math"
	"strconv"
)

// --- Enums ---

// Side identifies a participant. SideNone marks an unowned card.
type Side int

const (
	SideNone Side = iota
	SidePlayer
	SideAI
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideAI:
		return "ai"
	default:
		return ""
	}
}

// Opponent returns the other participant.
func (s Side) Opponent() Side {
	switch s {
	case SidePlayer:
		return SideAI
	case SideAI:
		return SidePlayer
	default:
		return SideNone
	}
}

// ParseSide is the inverse of Side.String. The empty string maps to SideNone.
func ParseSide(s string) (Side, error) {
	switch s {
	case "":
		return SideNone, nil
	case "player":
		return SidePlayer, nil
	case "ai":
		return SideAI, nil
	default:
		return SideNone, fmt.Errorf("unknown side %q", s)
	}
}

type Element int

const (
	ElementNone Element = iota
	ElementFire
	ElementWater
	ElementEarth
	ElementThunder
	ElementIce
	ElementWind
	ElementPoison
	ElementHoly
)

// Elements lists the eight elements a board cell can carry, in draw order.
var Elements = [...]Element{
	ElementFire, ElementWater, ElementEarth, ElementThunder,
	ElementIce, ElementWind, ElementPoison, ElementHoly,
}

func (e Element) String() string {
	switch e {
	case ElementFire:
		return "FIRE"
	case ElementWater:
		return "WATER"
	case ElementEarth:
		return "EARTH"
	case ElementThunder:
		return "THUNDER"
	case ElementIce:
		return "ICE"
	case ElementWind:
		return "WIND"
	case ElementPoison:
		return "POISON"
	case ElementHoly:
		return "HOLY"
	default:
		return ""
	}
}

// ParseElement is the inverse of Element.String. The empty string maps to ElementNone.
func ParseElement(s string) (Element, error) {
	if s == "" {
		return ElementNone, nil
	}
	for _, e := range Elements {
		if e.String() == s {
			return e, nil
		}
	}
	return ElementNone, fmt.Errorf("unknown element %q", s)
}

// Direction is a facing side of a card.
type Direction int

const (
	DirTop Direction = iota
	DirRight
	DirBottom
	DirLeft
)

func (d Direction) String() string {
	switch d {
	case DirTop:
		return "top"
	case DirRight:
		return "right"
	case DirBottom:
		return "bottom"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Opposite returns the direction a neighbor faces back with.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

type Status int

const (
	StatusPlaying Status = iota
	StatusSuddenDeath
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusSuddenDeath:
		return "sudden_death"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "playing":
		return StatusPlaying, nil
	case "sudden_death":
		return StatusSuddenDeath, nil
	case "finished":
		return StatusFinished, nil
	default:
		return StatusPlaying, fmt.Errorf("unknown status %q", s)
	}
}

// Winner is the outcome of a match. WinnerNone means undecided.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayer
	WinnerAI
	WinnerDraw
)

func (w Winner) String() string {
	switch w {
	case WinnerPlayer:
		return "player"
	case WinnerAI:
		return "ai"
	case WinnerDraw:
		return "draw"
	default:
		return ""
	}
}

func ParseWinner(s string) (Winner, error) {
	switch s {
	case "":
		return WinnerNone, nil
	case "player":
		return WinnerPlayer, nil
	case "ai":
		return WinnerAI, nil
	case "draw":
		return WinnerDraw, nil
	default:
		return WinnerNone, fmt.Errorf("unknown winner %q", s)
	}
}

func winnerFor(s Side) Winner {
	if s == SidePlayer {
		return WinnerPlayer
	}
	return WinnerAI
}

// --- Card definition (static, from the catalog) ---

// Card is a catalog definition. Every CardInstance of a card points at the
// same *Card, so its fields must be treated as read-only once the catalog is
// built. Per-match state such as owner and position lives on the instance.
type Card struct {
	ID       string
	Name     string
	Top      int
	Right    int
	Bottom   int
	Left     int
	Element  Element
	ImageURL string
}

func newCard(id, name string, top, right, bottom, left int, elem Element) *Card {
	n, _ := strconv.Atoi(id)
	return &Card{
		ID:       id,
		Name:     name,
		Top:      top,
		Right:    right,
		Bottom:   bottom,
		Left:     left,
		Element:  elem,
		ImageURL: fmt.Sprintf("/img/cards/%03d.png", n),
	}
}

func (c *Card) String() string {
	return c.Name
}

// Value returns the attack value printed on the given side.
func (c *Card) Value(d Direction) int {
	switch d {
	case DirTop:
		return c.Top
	case DirRight:
		return c.Right
	case DirBottom:
		return c.Bottom
	default:
		return c.Left
	}
}

// Level returns the catalog tier (1-10) derived from the numeric id.
func (c *Card) Level() int {
	n, err := strconv.Atoi(c.ID)
	if err != nil || n < 1 {
		return 0
	}
	return (n + CardsPerLevel - 1) / CardsPerLevel
}

// Power rates the card on a 0-100 scale. It feeds matchmaking and reward
// weighting only; it never takes part in a capture.
func (c *Card) Power() int {
	values := [4]int{c.Top, c.Right, c.Bottom, c.Left}
	power := 0
	for _, v := range values {
		power += v
		if v >= 8 {
			power += 2
		}
	}
	if c.Element != ElementNone {
		power += 2
	}
	return min(int(math.Round(float64(power)*100/44)), 100)
}

// ElementalBonus returns +1 when the card's element matches the cell, -1 when
// the cell carries a different element, and 0 for a plain cell.
func (c *Card) ElementalBonus(cell Element) int {
	if cell == ElementNone {
		return 0
	}
	if c.Element == cell {
		return 1
	}
	return -1
}

// --- CardInstance (runtime card in a hand or on the board) ---

type CardInstance struct {
	Card          *Card
	Owner         Side
	OriginalOwner Side // set on the first assignment, never overwritten
	Position      int  // board cell, -1 while in hand
}

// NewInstance creates an unowned instance of a catalog card.
func NewInstance(c *Card) *CardInstance {
	return &CardInstance{Card: c, Position: -1}
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	return fmt.Sprintf("%s [%d/%d/%d/%d]", ci.Card.Name, ci.Card.Top, ci.Card.Right, ci.Card.Bottom, ci.Card.Left)
}

// SetOwner changes the owner. The first non-empty owner is also recorded as
// the original owner.
func (ci *CardInstance) SetOwner(s Side) *CardInstance {
	ci.Owner = s
	if ci.OriginalOwner == SideNone {
		ci.OriginalOwner = s
	}
	return ci
}

// Clone returns an instance that shares no mutable state with ci.
func (ci *CardInstance) Clone() *CardInstance {
	clone := *ci
	return &clone
}

// Value returns the printed value on the given side.
func (ci *CardInstance) Value(d Direction) int {
	return ci.Card.Value(d)
}
