// Package model holds the format independent mesh representation that every
// importer produces and the 3MF exporter consumes.
package model

import (
	"github.com/philipparndt/convertto3mf/pkg/geometry"
)

// Face is an ordered polygon boundary.
// Faces with fewer than three points are kept as parsed; the exporter drops them.
type Face []geometry.Point

// Mesh is an ordered list of faces belonging to one object
type Mesh struct {
	Name  string
	Faces []Face
}

// Model is the root aggregate produced by an importer
type Model struct {
	Meshes []Mesh
}

// NewMesh creates a new empty mesh
func NewMesh(name string) Mesh {
	return Mesh{
		Name:  name,
		Faces: make([]Face, 0),
	}
}

// AddFace appends a face to the mesh
func (m *Mesh) AddFace(face Face) {
	m.Faces = append(m.Faces, face)
}

// PointCount returns the number of face corners in the mesh, duplicates included
func (m Mesh) PointCount() int {
	count := 0
	for _, face := range m.Faces {
		count += len(face)
	}
	return count
}

// Triangles returns the triangle fan decomposition of a face.
// The result is empty for faces with fewer than three points.
func (f Face) Triangles() []geometry.Triangle {
	if len(f) < 3 {
		return nil
	}
	triangles := make([]geometry.Triangle, 0, len(f)-2)
	first, last := f[0], f[1]
	for _, p := range f[2:] {
		triangles = append(triangles, geometry.NewTriangle(first, last, p))
		last = p
	}
	return triangles
}

// Exportable reports whether the face can be written to a 3MF mesh: it has
// at least three points and every coordinate is finite.
func (f Face) Exportable() bool {
	if len(f) < 3 {
		return false
	}
	for _, p := range f {
		if !p.Finite() {
			return false
		}
	}
	return true
}

// FaceCount returns the number of faces over all meshes
func (m Model) FaceCount() int {
	count := 0
	for _, mesh := range m.Meshes {
		count += len(mesh.Faces)
	}
	return count
}

// PointCount returns the number of face corners over all meshes
func (m Model) PointCount() int {
	count := 0
	for _, mesh := range m.Meshes {
		count += mesh.PointCount()
	}
	return count
}

// BoundingBox calculates the bounding box of the entire model
func (m Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, mesh := range m.Meshes {
		for _, face := range mesh.Faces {
			for _, p := range face {
				bbox.Extend(p)
			}
		}
	}
	return bbox
}
