package mcpserver

import (
	"math"

	"canvas/internal/domain"
)

const (
	GridSize = 20.0 // matches the interaction snap grid
	Padding  = 40.0 // 2 grid cells between components
	MaxRowW  = 1600.0
)

// LayoutEngine places agent-created components on the canvas so they don't
// overlap existing ones.
type LayoutEngine struct {
	gridSize float64
	padding  float64
	maxRowW  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
		maxRowW:  MaxRowW,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// padded grows r by the layout padding on every side.
func (le *LayoutEngine) padded(r domain.Rect) domain.Rect {
	return domain.Rect{
		X:      r.X - le.padding,
		Y:      r.Y - le.padding,
		Width:  r.Width + le.padding*2,
		Height: r.Height + le.padding*2,
	}
}

// overlaps is a strict intersection test: touching edges do not overlap.
func overlaps(a, b domain.Rect) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

// NextPosition finds the next free grid position for a component of size
// (newW, newH). Hidden components still reserve their space.
func (le *LayoutEngine) NextPosition(existing []domain.Component, newW, newH float64) (float64, float64) {
	if len(existing) == 0 {
		return 0, 0
	}

	occupied := make([]domain.Rect, len(existing))
	for i, c := range existing {
		occupied[i] = le.padded(c.Rect())
	}

	// Scan rows top-to-bottom, columns left-to-right
	candidate := domain.Rect{Width: newW, Height: newH}
	for y := 0.0; y < 100000; y += le.gridSize {
		for x := 0.0; x < le.maxRowW; x += le.gridSize {
			candidate.X = le.snap(x)
			candidate.Y = le.snap(y)

			free := true
			for _, occ := range occupied {
				if overlaps(candidate, occ) {
					free = false
					break
				}
			}
			if free {
				return candidate.X, candidate.Y
			}
		}
	}

	// Fallback: place below everything
	maxY := 0.0
	for _, c := range existing {
		maxY = math.Max(maxY, c.Y+c.Height)
	}
	return 0, le.snap(maxY + le.padding)
}

// ArrangeGroup lays components out in rows starting from (startX, startY),
// wrapping at the maximum row width. Positions are modified in place.
func (le *LayoutEngine) ArrangeGroup(cs []domain.Component, startX, startY float64) []domain.Component {
	x := le.snap(startX)
	y := le.snap(startY)
	rowHeight := 0.0

	for i := range cs {
		cs[i].X = x
		cs[i].Y = y
		rowHeight = math.Max(rowHeight, cs[i].Height)

		x += le.snap(cs[i].Width + le.padding)

		// Wrap to next row
		if x+cs[i].Width > le.maxRowW {
			x = le.snap(startX)
			y += le.snap(rowHeight + le.padding)
			rowHeight = 0
		}
	}

	return cs
}
