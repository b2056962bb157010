package world

import "testing"

func TestIsEdgeStraightRightTriangle(t *testing.T) {
	tests := []struct {
		rot      Rotation
		straight [2]Direction
	}{
		{0, [2]Direction{Down, Left}},
		{90, [2]Direction{Down, Right}},
		{180, [2]Direction{Up, Right}},
		{270, [2]Direction{Up, Left}},
	}

	for _, tt := range tests {
		count := 0
		for _, d := range AllDirections {
			got := IsEdgeStraight(RightTriangle, tt.rot, d)
			want := d == tt.straight[0] || d == tt.straight[1]
			if got != want {
				t.Errorf("IsEdgeStraight(RightTriangle, %d, %v) = %v, want %v", tt.rot, d, got, want)
			}
			if got {
				count++
			}
		}
		if count != 2 {
			t.Errorf("rotation %d has %d straight edges, want 2", tt.rot, count)
		}
	}
}

func TestStraightSetRotatesOneStepPerQuarterTurn(t *testing.T) {
	// Each quarter turn moves every leg one position counterclockwise.
	ccw := map[Direction]Direction{Up: Left, Left: Down, Down: Right, Right: Up}

	for rot := Rotation(0); rot < 360; rot += 90 {
		for _, d := range AllDirections {
			got := IsEdgeStraight(RightTriangle, rot.Next(), ccw[d])
			want := IsEdgeStraight(RightTriangle, rot, d)
			if got != want {
				t.Errorf("IsEdgeStraight(RightTriangle, %d, %v) = %v, want %v (from %d, %v)",
					rot.Next(), ccw[d], got, want, rot, d)
			}
		}
	}
}

func TestSquareAndTriangleAlwaysStraight(t *testing.T) {
	for _, kind := range []ShapeKind{Square, Triangle} {
		for rot := Rotation(0); rot < 360; rot += 90 {
			for _, d := range AllDirections {
				if !IsEdgeStraight(kind, rot, d) {
					t.Errorf("IsEdgeStraight(%v, %d, %v) = false, want true", kind, rot, d)
				}
			}
		}
	}
}

func TestCompatibleRightTrianglePairs(t *testing.T) {
	for aRot := Rotation(0); aRot < 360; aRot += 90 {
		for bRot := Rotation(0); bRot < 360; bRot += 90 {
			for _, d := range AllDirections {
				want := IsEdgeStraight(RightTriangle, aRot, d) && IsEdgeStraight(RightTriangle, bRot, d.Opposite())
				got := Compatible(RightTriangle, aRot, RightTriangle, bRot, d)
				if got != want {
					t.Errorf("Compatible(rt %d, rt %d, %v) = %v, want %v", aRot, bRot, d, got, want)
				}
			}
		}
	}
}

func TestCompatibleWithoutRightTriangle(t *testing.T) {
	kinds := []ShapeKind{Square, Triangle}
	for _, a := range kinds {
		for _, b := range kinds {
			for _, d := range AllDirections {
				if !Compatible(a, 0, b, 90, d) {
					t.Errorf("Compatible(%v, %v, %v) = false, want true", a, b, d)
				}
			}
		}
	}
}

func TestCompatibleMixedWithSquare(t *testing.T) {
	// A 0 degree right triangle has its hypotenuse facing up and right.
	if Compatible(Square, 0, RightTriangle, 0, Left) {
		t.Error("right triangle placed left of a square shows its hypotenuse and should be rejected")
	}
	if !Compatible(Square, 0, RightTriangle, 0, Right) {
		t.Error("square whose right neighbor shows its left leg should be compatible")
	}
	if Compatible(RightTriangle, 0, Square, 0, Up) {
		t.Error("placing above a 0 degree right triangle should hit the hypotenuse")
	}
}
