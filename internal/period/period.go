// Package period computes the 14-day windows that budgets are viewed in.
//
// Windows are phase-aligned to an anchor date (usually a payday) and tile the
// calendar without gaps or overlaps. Nothing about a window is stored: it is
// recomputed from the anchor each time, so moving the anchor re-buckets every
// entry on the next view.
package period

import (
	"fmt"

	"github.com/biweekly-dev/biweekly/internal/types"
)

// Length is the number of days in a period.
const Length = 14

// Period is an inclusive range of Length calendar days.
type Period struct {
	Start types.Date `json:"start"`
	End   types.Date `json:"end"`
}

// Containing returns the period that contains reference, aligned to anchor.
func Containing(reference, anchor types.Date) Period {
	rem := floorMod(reference.DaysSince(anchor), Length)
	start := reference.AddDays(-rem)
	return Period{Start: start, End: start.AddDays(Length - 1)}
}

// Previous returns the period immediately before p.
func Previous(p Period, anchor types.Date) Period {
	return Containing(p.Start.AddDays(-1), anchor)
}

// Next returns the period immediately after p.
func Next(p Period, anchor types.Date) Period {
	return Containing(p.End.AddDays(1), anchor)
}

// Shift moves n periods forward, or backward when n is negative.
func Shift(p Period, anchor types.Date, n int) Period {
	return Containing(p.Start.AddDays(n*Length), anchor)
}

// Contains reports whether d falls inside p. Both ends are inclusive.
func (p Period) Contains(d types.Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return fmt.Sprintf("%s to %s", p.Start, p.End)
}

// floorMod returns a mod m in [0, m), unlike Go's % which keeps the sign of a.
func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
