package genie

import (
	"fmt"
	"math"
	"slices"
)

// Direction is the side of the window the anchor lies on, and so the way
// the window travels when it collapses.
type Direction uint8

const (
	Bottom Direction = iota
	Top
	Left
	Right
)

// evaluationOrder is the tie-break order: earlier directions win ties.
var evaluationOrder = [...]Direction{Bottom, Top, Left, Right}

// AllDirections returns every direction in evaluation order.
func AllDirections() []Direction {
	return evaluationOrder[:]
}

func (d Direction) String() string {
	switch d {
	case Bottom:
		return "bottom"
	case Top:
		return "top"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection parses a lower-case direction name.
func ParseDirection(s string) (Direction, error) {
	for _, d := range evaluationOrder {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("genie: unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// vertical reports whether slices for d are horizontal bands stacked along Y.
func (d Direction) vertical() bool {
	return d == Bottom || d == Top
}

// StepLength returns how many quantum-sized steps separate the window from
// the anchor along d, measured between their origin corners. Negative
// results mean the anchor lies on the opposite side.
func StepLength(d Direction, anchor, window Rect, quantum float64) int {
	quantum = clampQuantum(quantum)
	var delta float64
	switch d {
	case Bottom:
		delta = anchor.Top - window.Top
	case Top:
		delta = window.Top - anchor.Top
	case Right:
		delta = anchor.Left - window.Left
	case Left:
		delta = window.Left - anchor.Left
	}
	return int(math.Ceil(delta / quantum))
}

// SelectDirection returns the allowed direction with the strictly largest
// step length between anchor and window. Ties go to the direction evaluated
// first (bottom, top, left, right). An empty allow-list permits all four.
func SelectDirection(anchor, window Rect, quantum float64, allowed []Direction) Direction {
	best := Bottom
	bestLen := math.MinInt
	for _, d := range evaluationOrder {
		if len(allowed) > 0 && !slices.Contains(allowed, d) {
			continue
		}
		if n := StepLength(d, anchor, window, quantum); n > bestLen {
			best, bestLen = d, n
		}
	}
	return best
}
