package stl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/convertto3mf/pkg/geometry"
	"github.com/philipparndt/convertto3mf/pkg/model"
)

func TestReadASCIISingleVertex(t *testing.T) {
	m, err := ReadASCII(strings.NewReader(strings.Join([]string{
		"solid A",
		"facet",
		"outer loop",
		"vertex 1 2 3",
		"endloop",
		"endfacet",
		"endsolid",
	}, "\n")))
	require.NoError(t, err)

	require.Len(t, m.Meshes, 1)
	assert.Equal(t, "A", m.Meshes[0].Name)
	require.Len(t, m.Meshes[0].Faces, 1)
	assert.Equal(t, model.Face{geometry.NewPoint(1, 2, 3)}, m.Meshes[0].Faces[0])
}

func TestReadASCIIMultipleSolids(t *testing.T) {
	m, err := ReadASCII(strings.NewReader(`solid first
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 1 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid first
SOLID second
  FACET NORMAL 0 0 1
    OUTER LOOP
      VERTEX 5 5 5
      VERTEX 6 5 5
      VERTEX 5 6 5
    ENDLOOP
  ENDFACET
ENDSOLID second
`))
	require.NoError(t, err)

	require.Len(t, m.Meshes, 2)
	assert.Equal(t, "first", m.Meshes[0].Name)
	assert.Len(t, m.Meshes[0].Faces, 2)
	assert.Equal(t, "second", m.Meshes[1].Name)
	require.Len(t, m.Meshes[1].Faces, 1)
	assert.Equal(t, model.Face{
		geometry.NewPoint(5, 5, 5),
		geometry.NewPoint(6, 5, 5),
		geometry.NewPoint(5, 6, 5),
	}, m.Meshes[1].Faces[0])
}

func TestReadASCIIDropsVerticesOutsideContext(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  model.Model
	}{
		{
			name:  "no solid",
			lines: []string{"facet", "outer loop", "vertex 1 2 3", "endloop", "endfacet"},
			want:  model.Model{},
		},
		{
			name:  "no facet",
			lines: []string{"solid", "outer loop", "vertex 1 2 3", "endloop", "endsolid"},
			want:  model.Model{Meshes: []model.Mesh{{Name: "", Faces: []model.Face{}}}},
		},
		{
			name:  "no loop",
			lines: []string{"solid", "facet", "vertex 1 2 3", "endfacet", "endsolid"},
			want:  model.Model{Meshes: []model.Mesh{{Name: "", Faces: []model.Face{{}}}}},
		},
		{
			name:  "after endloop",
			lines: []string{"solid", "facet", "outer loop", "endloop", "vertex 1 2 3", "endfacet", "endsolid"},
			want:  model.Model{Meshes: []model.Mesh{{Name: "", Faces: []model.Face{{}}}}},
		},
		{
			name:  "after endsolid",
			lines: []string{"solid", "facet", "outer loop", "endsolid", "vertex 1 2 3"},
			want:  model.Model{Meshes: []model.Mesh{{Name: "", Faces: []model.Face{{}}}}},
		},
		{
			name:  "malformed vertex",
			lines: []string{"solid", "facet", "outer loop", "vertex 1 2", "vertex 1 2 z", "vertex 4 5 6", "endloop", "endfacet", "endsolid"},
			want:  model.Model{Meshes: []model.Mesh{{Name: "", Faces: []model.Face{{geometry.NewPoint(4, 5, 6)}}}}},
		},
		{
			name:  "outer without loop",
			lines: []string{"solid", "facet", "outer", "vertex 1 2 3", "endfacet", "endsolid"},
			want:  model.Model{Meshes: []model.Mesh{{Name: "", Faces: []model.Face{{}}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadASCII(strings.NewReader(strings.Join(tt.lines, "\n")))
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestReadASCIIKeepsCursorsAcrossGrowth(t *testing.T) {
	var b strings.Builder
	b.WriteString("solid grow\n")
	for i := 0; i < 200; i++ {
		b.WriteString("facet\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\n")
	}
	b.WriteString("endsolid\n")

	m, err := ReadASCII(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, m.Meshes, 1)
	require.Len(t, m.Meshes[0].Faces, 200)
	for _, face := range m.Meshes[0].Faces {
		assert.Len(t, face, 3)
	}
}

func TestImportASCIIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid p\nfacet\nouter loop\nvertex 1 1 1\nendloop\nendfacet\nendsolid\n"), 0o644))

	m, err := ImportASCIIFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.FaceCount())

	_, err = ImportASCIIFile(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}
