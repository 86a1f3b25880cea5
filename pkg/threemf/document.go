// Package threemf writes models as 3MF packages.
//
// Each mesh of the model becomes one 3MF object. Faces are split into
// triangle fans and identical points within a mesh share one vertex.
package threemf

import (
	"github.com/philipparndt/convertto3mf/pkg/geometry"
	"github.com/philipparndt/convertto3mf/pkg/model"
)

// Triangle holds three indices into the vertex buffer of its mesh
type Triangle [3]int

// MeshBuffers is the indexed form of one mesh
type MeshBuffers struct {
	Name      string
	Vertices  []geometry.Point
	Triangles []Triangle
}

// Document is the indexed form of a whole model
type Document struct {
	Meshes []MeshBuffers
}

// FromModel triangulates and deduplicates every mesh of m.
// Faces with fewer than three points or a NaN or infinite coordinate are
// skipped. Faces must be planar, convex and consistently wound for the fan
// triangulation to be geometrically correct; this is not checked.
func FromModel(m model.Model) *Document {
	doc := &Document{Meshes: make([]MeshBuffers, 0, len(m.Meshes))}
	for _, mesh := range m.Meshes {
		doc.Meshes = append(doc.Meshes, indexMesh(mesh))
	}
	return doc
}

func indexMesh(mesh model.Mesh) MeshBuffers {
	buffers := MeshBuffers{
		Name:      mesh.Name,
		Triangles: make([]Triangle, 0, len(mesh.Faces)),
	}
	indices := make(map[geometry.Key]int)

	indexOf := func(p geometry.Point) int {
		key := p.Key()
		if index, ok := indices[key]; ok {
			return index
		}
		index := len(buffers.Vertices)
		indices[key] = index
		buffers.Vertices = append(buffers.Vertices, p)
		return index
	}

	for _, face := range mesh.Faces {
		// Lines, points and non-finite coordinates cannot be represented.
		if !face.Exportable() {
			continue
		}
		first := indexOf(face[0])
		last := indexOf(face[1])
		for _, p := range face[2:] {
			current := indexOf(p)
			buffers.Triangles = append(buffers.Triangles, Triangle{first, last, current})
			last = current
		}
	}
	return buffers
}

// VertexCount returns the number of vertices over all meshes
func (d *Document) VertexCount() int {
	count := 0
	for _, mesh := range d.Meshes {
		count += len(mesh.Vertices)
	}
	return count
}

// TriangleCount returns the number of triangles over all meshes
func (d *Document) TriangleCount() int {
	count := 0
	for _, mesh := range d.Meshes {
		count += len(mesh.Triangles)
	}
	return count
}
