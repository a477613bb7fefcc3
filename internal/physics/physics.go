// Package physics provides vector math, play-field bounds and collision tests.
package physics

import "math"

// Vec2 is a 2D vector in world units. The world origin is the centre of the
// play field and +Y points up.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the vector length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// ClampLen shortens v to at most max.
func (v Vec2) ClampLen(max float64) Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// Heading returns the unit vector for a rotation in degrees, where 0 points
// up (+Y) and positive angles turn counter-clockwise.
func Heading(deg float64) Vec2 {
	r := deg * math.Pi / 180
	return Vec2{X: -math.Sin(r), Y: math.Cos(r)}
}

// UnitFromAngle returns the unit vector at angle radians from +X.
func UnitFromAngle(rad float64) Vec2 {
	return Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec2) float64 {
	d := b.Sub(a)
	return d.X*d.X + d.Y*d.Y
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(p, c Vec2, radius float64) bool {
	return DistanceSquared(p, c) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a, b) < minDist*minDist
}

// Bounds is an axis-aligned rectangle centred on the origin.
type Bounds struct {
	HalfWidth  float64
	HalfHeight float64
}

// NewBounds creates bounds of the given full width and height.
func NewBounds(width, height float64) Bounds {
	return Bounds{HalfWidth: width / 2, HalfHeight: height / 2}
}

// Width returns the full width.
func (b Bounds) Width() float64 { return b.HalfWidth * 2 }

// Height returns the full height.
func (b Bounds) Height() float64 { return b.HalfHeight * 2 }

// Contains reports whether p lies strictly inside the bounds.
func (b Bounds) Contains(p Vec2) bool {
	return p.X > -b.HalfWidth && p.X < b.HalfWidth && p.Y > -b.HalfHeight && p.Y < b.HalfHeight
}

// Wrap moves a point that left the bounds by more than margin to the
// opposite edge (Asteroids-style screen wrapping).
func (b Bounds) Wrap(p Vec2, margin float64) Vec2 {
	maxX := b.HalfWidth + margin
	maxY := b.HalfHeight + margin
	if p.X < -maxX {
		p.X = maxX
	} else if p.X > maxX {
		p.X = -maxX
	}
	if p.Y < -maxY {
		p.Y = maxY
	} else if p.Y > maxY {
		p.Y = -maxY
	}
	return p
}
