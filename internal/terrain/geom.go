package terrain

import "math"

// Vec is a point or direction in world space. +Y points toward the top side.
type Vec struct {
	X, Y float64
}

// V is a convenience constructor for Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Sqrt(Dist2(v, Vec{}))
}

// Normalized returns v scaled to unit length, or the zero vector.
func (v Vec) Normalized() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Dist2 returns the squared distance between a and b. Products are
// rounded explicitly so the compiler never fuses them into a multiply-add;
// dig shapes and vision discs share this to agree on boundary cells.
func Dist2(a, b Vec) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return float64(dx*dx) + float64(dy*dy)
}

// Shape is a dig footprint in world space. A cell is covered when its
// center satisfies Contains.
type Shape interface {
	// Bounds returns the axis-aligned bounding box of the shape.
	Bounds() (min, max Vec)

	// Contains reports whether p lies inside the shape.
	Contains(p Vec) bool
}

// Circle is a disc dig shape. Boundary points are inside.
type Circle struct {
	Center Vec
	Radius float64
}

// Bounds implements Shape.
func (c Circle) Bounds() (Vec, Vec) {
	return Vec{c.Center.X - c.Radius, c.Center.Y - c.Radius},
		Vec{c.Center.X + c.Radius, c.Center.Y + c.Radius}
}

// Contains implements Shape.
func (c Circle) Contains(p Vec) bool {
	return PointInCircle(p, c.Center, c.Radius)
}

// Polygon is an arbitrary simple polygon dig shape.
type Polygon struct {
	Points []Vec
}

// Bounds implements Shape.
func (pg Polygon) Bounds() (Vec, Vec) {
	if len(pg.Points) == 0 {
		return Vec{}, Vec{}
	}
	lo, hi := pg.Points[0], pg.Points[0]
	for _, p := range pg.Points[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// Contains implements Shape.
func (pg Polygon) Contains(p Vec) bool {
	return PointInPolygon(p, pg.Points)
}

// PointInCircle reports whether p lies within radius of center.
func PointInCircle(p, center Vec, radius float64) bool {
	return Dist2(p, center) <= radius*radius
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
// Polygons with fewer than three points contain nothing.
func PointInPolygon(p Vec, polygon []Vec) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > p.Y) != (yj > p.Y)) &&
			(p.X < float64((xj-xi)*(p.Y-yi))/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Rect returns an axis-aligned rectangle polygon.
func Rect(min, max Vec) Polygon {
	return Polygon{Points: []Vec{
		{min.X, min.Y}, {max.X, min.Y}, {max.X, max.Y}, {min.X, max.Y},
	}}
}

// clamp restricts a value to be within [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// clampF restricts a float64 value to be within [lo, hi].
func clampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
