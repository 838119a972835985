package models

// Pair holds one counter per side, indexed by Side. It marshals to the
// positional JSON array form used on the wire, e.g. [6,4].
type Pair [2]int

func NewPair(a, b int) Pair {
	return Pair{a, b}
}

func (p Pair) Get(s Side) int {
	return p[s]
}

// Incr returns a copy with the given side's counter incremented.
func (p Pair) Incr(s Side) Pair {
	p[s]++
	return p
}

func (p Pair) Sum() int {
	return p[SideA] + p[SideB]
}

// Lead is how far the given side is ahead of the other; negative when behind.
func (p Pair) Lead(s Side) int {
	return p[s] - p[s.Other()]
}

func (p Pair) IsZero() bool {
	return p[SideA] == 0 && p[SideB] == 0
}

// Leader reports the side with the higher counter, false on a tie.
func (p Pair) Leader() (Side, bool) {
	switch {
	case p[SideA] > p[SideB]:
		return SideA, true
	case p[SideB] > p[SideA]:
		return SideB, true
	default:
		return SideA, false
	}
}
