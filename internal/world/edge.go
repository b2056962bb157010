package world

// straightEdges lists, per rotation bucket, which sides of a right triangle
// are legs. At 0 degrees the right angle sits in the bottom-left corner.
var straightEdges = [4][2]Direction{
	{Down, Left},  // 0
	{Down, Right}, // 90
	{Up, Right},   // 180
	{Up, Left},    // 270
}

// IsEdgeStraight reports whether the edge of a shape facing dir is
// axis-aligned. Squares and triangles are straight on every side; a right
// triangle is straight only on its two legs.
func IsEdgeStraight(kind ShapeKind, rot Rotation, dir Direction) bool {
	if kind != RightTriangle {
		return true
	}
	legs := straightEdges[rot.Bucket()]
	return dir == legs[0] || dir == legs[1]
}

// Compatible reports whether shape b may sit next to shape a in direction
// dir. Only pairs involving a right triangle are checked.
func Compatible(aKind ShapeKind, aRot Rotation, bKind ShapeKind, bRot Rotation, dir Direction) bool {
	if aKind != RightTriangle && bKind != RightTriangle {
		return true
	}
	return IsEdgeStraight(aKind, aRot, dir) && IsEdgeStraight(bKind, bRot, dir.Opposite())
}
