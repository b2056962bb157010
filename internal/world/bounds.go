package world

// Bounds is an inclusive rectangle of lattice cells.
type Bounds struct {
	Min, Max Point
}

// Width returns the number of columns covered.
func (b Bounds) Width() int {
	return b.Max.X - b.Min.X + 1
}

// Height returns the number of rows covered.
func (b Bounds) Height() int {
	return b.Max.Y - b.Min.Y + 1
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Extend returns the bounds grown to include p.
func (b Bounds) Extend(p Point) Bounds {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	return b
}
