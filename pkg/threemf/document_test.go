package threemf

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/philipparndt/convertto3mf/pkg/geometry"
	"github.com/philipparndt/convertto3mf/pkg/model"
)

func pt(x, y, z float64) geometry.Point {
	return geometry.NewPoint(x, y, z)
}

func singleMesh(faces ...model.Face) model.Model {
	return model.Model{Meshes: []model.Mesh{{Name: "m", Faces: faces}}}
}

func TestFromModelTriangleFan(t *testing.T) {
	doc := FromModel(singleMesh(model.Face{pt(0, 0, 0), pt(1, 0, 0), pt(1, 1, 0), pt(0, 1, 0), pt(-1, 1, 0)}))

	require.Len(t, doc.Meshes, 1)
	mesh := doc.Meshes[0]
	assert.Equal(t, "m", mesh.Name)
	assert.Equal(t, []geometry.Point{pt(0, 0, 0), pt(1, 0, 0), pt(1, 1, 0), pt(0, 1, 0), pt(-1, 1, 0)}, mesh.Vertices)
	assert.Equal(t, []Triangle{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}, mesh.Triangles)
}

func TestFromModelDeduplicatesWithinMesh(t *testing.T) {
	doc := FromModel(singleMesh(
		model.Face{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)},
		model.Face{pt(1, 0, 0), pt(1, 1, 0), pt(0, 1, 0)},
	))

	mesh := doc.Meshes[0]
	assert.Equal(t, []geometry.Point{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0), pt(1, 1, 0)}, mesh.Vertices)
	assert.Equal(t, []Triangle{{0, 1, 2}, {1, 3, 2}}, mesh.Triangles)
}

func TestFromModelMeshesAreIndependent(t *testing.T) {
	face := model.Face{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)}
	doc := FromModel(model.Model{Meshes: []model.Mesh{
		{Faces: []model.Face{face}},
		{Faces: []model.Face{face}},
	}})

	require.Len(t, doc.Meshes, 2)
	assert.Equal(t, doc.Meshes[0], doc.Meshes[1])
	assert.Equal(t, 6, doc.VertexCount())
	assert.Equal(t, 2, doc.TriangleCount())
}

func TestFromModelSkipsShortFaces(t *testing.T) {
	doc := FromModel(singleMesh(
		model.Face{pt(5, 5, 5), pt(6, 6, 6)},
		model.Face{pt(7, 7, 7)},
		model.Face{},
		model.Face{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)},
	))

	mesh := doc.Meshes[0]
	assert.Equal(t, []geometry.Point{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)}, mesh.Vertices)
	assert.Equal(t, []Triangle{{0, 1, 2}}, mesh.Triangles)
}

func TestFromModelEmpty(t *testing.T) {
	doc := FromModel(model.Model{})
	assert.Empty(t, doc.Meshes)

	doc = FromModel(singleMesh())
	require.Len(t, doc.Meshes, 1)
	assert.Empty(t, doc.Meshes[0].Vertices)
	assert.Empty(t, doc.Meshes[0].Triangles)
}

func drawModel(rt *rapid.T) model.Model {
	// A small coordinate pool makes repeated points likely.
	coord := rapid.SampledFrom([]float64{-1, 0, 0.5, 1, 2})
	point := rapid.Custom(func(t *rapid.T) geometry.Point {
		return pt(coord.Draw(t, "x"), coord.Draw(t, "y"), coord.Draw(t, "z"))
	})
	face := rapid.Custom(func(t *rapid.T) model.Face {
		return rapid.SliceOfN(point, 0, 6).Draw(t, "points")
	})
	mesh := rapid.Custom(func(t *rapid.T) model.Mesh {
		return model.Mesh{Faces: rapid.SliceOfN(face, 0, 12).Draw(t, "faces")}
	})
	return model.Model{Meshes: rapid.SliceOfN(mesh, 0, 3).Draw(rt, "meshes")}
}

func TestFromModelProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := drawModel(rt)
		doc := FromModel(m)

		if len(doc.Meshes) != len(m.Meshes) {
			rt.Fatalf("got %d meshes, want %d", len(doc.Meshes), len(m.Meshes))
		}
		for i, mesh := range m.Meshes {
			buffers := doc.Meshes[i]

			distinct := make(map[geometry.Point]bool)
			wantTriangles := 0
			var fan []geometry.Point
			for _, face := range mesh.Faces {
				if len(face) < 3 {
					continue
				}
				for _, p := range face {
					distinct[p] = true
				}
				wantTriangles += len(face) - 2
				for _, tri := range face.Triangles() {
					fan = append(fan, tri.V1, tri.V2, tri.V3)
				}
			}

			if len(buffers.Vertices) != len(distinct) {
				rt.Fatalf("mesh %d: %d vertices, want %d distinct", i, len(buffers.Vertices), len(distinct))
			}
			if len(buffers.Triangles) != wantTriangles {
				rt.Fatalf("mesh %d: %d triangles, want %d", i, len(buffers.Triangles), wantTriangles)
			}
			for j, tri := range buffers.Triangles {
				for k, index := range tri {
					if buffers.Vertices[index] != fan[j*3+k] {
						rt.Fatalf("mesh %d triangle %d corner %d resolves to %v, want %v",
							i, j, k, buffers.Vertices[index], fan[j*3+k])
					}
				}
			}
		}

		again := FromModel(m)
		if len(again.Meshes) != len(doc.Meshes) {
			rt.Fatalf("second export differs in mesh count")
		}
		for i := range doc.Meshes {
			assert.Equal(rt, doc.Meshes[i], again.Meshes[i])
		}
	})
}

func TestFromModelSkipsNonFiniteFaces(t *testing.T) {
	doc := FromModel(singleMesh(
		model.Face{pt(math.Inf(1), 0, 0), pt(1, 0, 0), pt(0, 1, 0)},
		model.Face{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)},
		model.Face{pt(0, 0, 0), pt(math.NaN(), 0, 0), pt(0, 1, 0)},
	))

	mesh := doc.Meshes[0]
	assert.Equal(t, []geometry.Point{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)}, mesh.Vertices)
	assert.Equal(t, []Triangle{{0, 1, 2}}, mesh.Triangles)

	var part strings.Builder
	require.NoError(t, doc.EncodeModel(&part))
	assert.NotContains(t, part.String(), "Inf")
	assert.NotContains(t, part.String(), "NaN")
}
