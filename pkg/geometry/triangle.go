package geometry

// Triangle is a triangle spanned by three points
type Triangle struct {
	V1, V2, V3 Point
}

// NewTriangle creates a new triangle
func NewTriangle(v1, v2, v3 Point) Triangle {
	return Triangle{
		V1: v1,
		V2: v2,
		V3: v3,
	}
}

// Normal computes the unit normal from the winding order
func (t Triangle) Normal() Point {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	n := edge1.Cross(edge2)
	length := n.Length()
	if length == 0 {
		return Point{}
	}
	return n.Mul(1.0 / length)
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Length() / 2.0
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	return t.V1.Distance(t.V2) + t.V2.Distance(t.V3) + t.V3.Distance(t.V1)
}

// Degenerate reports whether the triangle has no area
func (t Triangle) Degenerate() bool {
	return t.Area() == 0
}
