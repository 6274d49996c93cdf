package geom

import (
	"fmt"
	"math"
)

// Point is a 2D position in micrometres.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul scales p by num/den, rounding to the nearest micrometre.
// A zero den returns p unchanged.
func (p Point) Mul(num, den int64) Point {
	if den == 0 {
		return p
	}
	f := float64(num) / float64(den)
	return Point{round(float64(p.X) * f), round(float64(p.Y) * f)}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) int64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the cross product of p and q.
func (p Point) Cross(q Point) int64 { return p.X*q.Y - p.Y*q.X }

// Size2 returns the squared length of p.
func (p Point) Size2() int64 { return p.X*p.X + p.Y*p.Y }

// Size returns the length of p, rounded.
func (p Point) Size() int64 { return round(math.Hypot(float64(p.X), float64(p.Y))) }

// Normal returns p rescaled to the given length. The zero vector is
// returned unchanged.
func (p Point) Normal(length int64) Point {
	size := math.Hypot(float64(p.X), float64(p.Y))
	if size == 0 {
		return p
	}
	f := float64(length) / size
	return Point{round(float64(p.X) * f), round(float64(p.Y) * f)}
}

// String formats p as "(x, y)".
func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Dist returns the distance between a and b.
func Dist(a, b Point) int64 { return a.Sub(b).Size() }

func round(f float64) int64 { return int64(math.Round(f)) }
