package pref

import (
	"fmt"
	"time"
)

// Kind records where a decision came from.
type Kind int

const (
	// Direct decisions were answered by the user.
	Direct Kind = iota
	// Inferred decisions follow from other decisions by transitivity.
	Inferred
	// Imported decisions were supplied from an earlier export.
	Imported
)

var kindNames = map[Kind]string{
	Direct:   "direct",
	Inferred: "inferred",
	Imported: "imported",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Direction is the answer to a comparison between a left and a right item.
type Direction int

const (
	// Unknown means the preference is not known yet.
	Unknown Direction = iota
	// Left means the left item is preferred.
	Left
	// Right means the right item is preferred.
	Right
)

// String returns "left", "right" or "unknown".
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Opposite returns the direction seen from the other side of the comparison.
// Unknown stays Unknown.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	default:
		return Unknown
	}
}

// ParseDirection accepts "left"/"l" and "right"/"r".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "left", "l", "L", "Left":
		return Left, true
	case "right", "r", "R", "Right":
		return Right, true
	}
	return Unknown, false
}

// Decision is one resolved preference. Decisions are values and are never
// modified after creation.
type Decision struct {
	// Ordinal is the 1-based sequence number among direct decisions.
	// Inferred and imported decisions carry 0.
	Ordinal int
	// Chosen is the preferred item.
	Chosen string
	// Rejected is the item that lost the comparison.
	Rejected string
	// Elapsed is the time the user took since the previous direct decision.
	// Zero for decisions that were not user-timed.
	Elapsed time.Duration
	// Kind is the provenance of the decision.
	Kind Kind
}

// Pair returns the unordered key of the two items in d.
func (d Decision) Pair() Pair { return PairOf(d.Chosen, d.Rejected) }

// Timed reports whether the decision carries a user ordinal.
func (d Decision) Timed() bool { return d.Kind == Direct && d.Ordinal > 0 }

// Direction returns which side of the (left, right) comparison d chose.
// It returns Unknown if d does not decide that pair.
func (d Decision) Direction(left, right string) Direction {
	switch {
	case d.Chosen == left && d.Rejected == right:
		return Left
	case d.Chosen == right && d.Rejected == left:
		return Right
	default:
		return Unknown
	}
}

// String formats the decision as "chosen > rejected".
func (d Decision) String() string { return d.Chosen + " > " + d.Rejected }

// Pair is an unordered pair of items. A is always the lexically smaller item.
type Pair struct {
	A, B string
}

// PairOf returns the canonical unordered pair of a and b.
func PairOf(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Items returns the distinct items referenced by decisions, in order of first
// appearance (chosen before rejected within a decision).
func Items(decisions []Decision) []string {
	return newIndex(decisions).items
}

// index assigns dense positions to items in first-seen order.
type index struct {
	items []string
	pos   map[string]int
}

func newIndex(decisions []Decision) *index {
	ix := &index{pos: make(map[string]int)}
	for _, d := range decisions {
		ix.add(d.Chosen)
		ix.add(d.Rejected)
	}
	return ix
}

func (ix *index) add(item string) int {
	if p, ok := ix.pos[item]; ok {
		return p
	}
	p := len(ix.items)
	ix.pos[item] = p
	ix.items = append(ix.items, item)
	return p
}
