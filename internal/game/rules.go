package game

import "strings"

// Rules is the fixed set of toggles a match is played under. SameWall and
// Combo are derived from the difficulty level and persisted, but the capture
// engine does not read them: Combo is reported whenever Same and Plus fire
// together, and walls never count toward Same.
type Rules struct {
	Open        bool `json:"open" yaml:"open"`
	Same        bool `json:"same" yaml:"same"`
	SameWall    bool `json:"sameWall" yaml:"sameWall"`
	Plus        bool `json:"plus" yaml:"plus"`
	Combo       bool `json:"combo" yaml:"combo"`
	Elemental   bool `json:"elemental" yaml:"elemental"`
	SuddenDeath bool `json:"suddenDeath" yaml:"suddenDeath"`
}

// RulesForLevel maps a difficulty level (1-10) to its rule set. Lower levels
// play with the AI hand face up; each step above adds one rule.
func RulesForLevel(level int) Rules {
	return Rules{
		Open:        level < 2,
		Same:        level > 3,
		SameWall:    level > 4,
		Plus:        level > 5,
		Combo:       level > 6,
		Elemental:   level > 7,
		SuddenDeath: level > 8,
	}
}

// AllRules enables every rule.
func AllRules() Rules {
	return Rules{Open: true, Same: true, SameWall: true, Plus: true, Combo: true, Elemental: true, SuddenDeath: true}
}

func (r Rules) String() string {
	var names []string
	add := func(on bool, name string) {
		if on {
			names = append(names, name)
		}
	}
	add(r.Open, "open")
	add(r.Same, "same")
	add(r.SameWall, "same-wall")
	add(r.Plus, "plus")
	add(r.Combo, "combo")
	add(r.Elemental, "elemental")
	add(r.SuddenDeath, "sudden-death")
	if len(names) == 0 {
		return "basic"
	}
	return strings.Join(names, ",")
}
