package geometry

import (
	"errors"
	"math"
	"strconv"
)

// Point is a vertex position in model space
type Point struct {
	X, Y, Z float64
}

// Key identifies a point by the exact bits of its coordinates
type Key [3]uint64

// NewPoint creates a new point
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Key returns the deduplication key of the point.
// Negative zero maps onto positive zero so keys agree with ==,
// and identical NaN bit patterns share a key.
func (p Point) Key() Key {
	return Key{coordBits(p.X), coordBits(p.Y), coordBits(p.Z)}
}

func coordBits(v float64) uint64 {
	if v == 0 {
		return 0
	}
	return math.Float64bits(v)
}

// Add returns the sum of two points
func (p Point) Add(other Point) Point {
	return Point{
		X: p.X + other.X,
		Y: p.Y + other.Y,
		Z: p.Z + other.Z,
	}
}

// Sub returns the difference between two points
func (p Point) Sub(other Point) Point {
	return Point{
		X: p.X - other.X,
		Y: p.Y - other.Y,
		Z: p.Z - other.Z,
	}
}

// Mul multiplies the point by a scalar
func (p Point) Mul(scalar float64) Point {
	return Point{
		X: p.X * scalar,
		Y: p.Y * scalar,
		Z: p.Z * scalar,
	}
}

// Cross returns the cross product of two vectors
func (p Point) Cross(other Point) Point {
	return Point{
		X: p.Y*other.Z - p.Z*other.Y,
		Y: p.Z*other.X - p.X*other.Z,
		Z: p.X*other.Y - p.Y*other.X,
	}
}

// Length returns the magnitude of the vector
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Distance returns the distance between two points
func (p Point) Distance(other Point) float64 {
	return p.Sub(other).Length()
}

// Min returns a point with the minimum components of two points
func (p Point) Min(other Point) Point {
	return Point{
		X: math.Min(p.X, other.X),
		Y: math.Min(p.Y, other.Y),
		Z: math.Min(p.Z, other.Z),
	}
}

// Max returns a point with the maximum components of two points
func (p Point) Max(other Point) Point {
	return Point{
		X: math.Max(p.X, other.X),
		Y: math.Max(p.Y, other.Y),
		Z: math.Max(p.Z, other.Z),
	}
}

// ParseTriple parses the first three tokens as X, Y and Z.
// Every token must be a complete floating point number; tokens after the
// third are ignored. Out of range values saturate to ±Inf or zero.
func ParseTriple(tokens []string) (Point, bool) {
	if len(tokens) < 3 {
		return Point{}, false
	}
	var coords [3]float64
	for i := range coords {
		v, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Point{}, false
		}
		coords[i] = v
	}
	return NewPoint(coords[0], coords[1], coords[2]), true
}

// Finite reports whether no coordinate is NaN or infinite
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}
