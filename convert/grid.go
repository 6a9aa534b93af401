package convert

import (
	"math"

	"github.com/pkg/errors"
)

// GridDivisions is the number of grid cells per beat (a 64th note).
const GridDivisions = 16

// Grid maps absolute tick positions onto 64th-note indices.
type Grid struct {
	ticks float64 // ticks per cell, fractional for odd resolutions
}

// NewGrid derives the grid from the file resolution.
func NewGrid(ticksPerBeat int) (Grid, error) {
	if ticksPerBeat <= 0 {
		return Grid{}, errors.Wrapf(ErrMalformedResolution, "ticks per beat %d", ticksPerBeat)
	}
	return Grid{ticks: float64(ticksPerBeat) / GridDivisions}, nil
}

// CellTicks returns the width of one grid cell in ticks.
func (g Grid) CellTicks() float64 {
	return g.ticks
}

// Start quantizes a note-on or state-change position. Halves round to
// even.
func (g Grid) Start(tick int64) int {
	return int(math.RoundToEven(float64(tick) / g.ticks))
}

// End quantizes a note-off position, always rounding up so a note never
// ends before its rounded start.
func (g Grid) End(tick int64) int {
	return int(math.Ceil(float64(tick) / g.ticks))
}
