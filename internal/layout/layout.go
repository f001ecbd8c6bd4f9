// Package layout computes non-overlapping screen regions for panes.
package layout

// Orientation selects how panes divide the screen.
type Orientation int

const (
	// Vertical stacks panes top to bottom.
	Vertical Orientation = iota
	// Horizontal places panes side by side.
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Rect is a screen region in cell coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Split divides area into count equal shares along the orientation's axis,
// each inset by margin on all sides. Pure function, no error conditions:
// degenerate areas yield degenerate (zero-size) rectangles.
func Split(o Orientation, count int, area Rect, margin int) []Rect {
	if count <= 0 {
		return nil
	}
	rects := make([]Rect, count)
	if o == Horizontal {
		share := area.Width / count
		for i := range rects {
			w := share
			if i == count-1 {
				w = area.Width - share*(count-1) // last pane absorbs the remainder
			}
			rects[i] = inset(Rect{X: area.X + i*share, Y: area.Y, Width: w, Height: area.Height}, margin)
		}
		return rects
	}
	share := area.Height / count
	for i := range rects {
		h := share
		if i == count-1 {
			h = area.Height - share*(count-1)
		}
		rects[i] = inset(Rect{X: area.X, Y: area.Y + i*share, Width: area.Width, Height: h}, margin)
	}
	return rects
}

// inset shrinks r by m cells on every side, clamping at zero size.
func inset(r Rect, m int) Rect {
	r.X += m
	r.Y += m
	r.Width -= 2 * m
	r.Height -= 2 * m
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}
