// Package obj imports Wavefront OBJ files. Only vertex positions and face
// corners are read; everything else in the file is ignored.
package obj

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/convertto3mf/pkg/geometry"
	"github.com/philipparndt/convertto3mf/pkg/model"
)

// Parser holds the vertex table and the faces as indices into it
type Parser struct {
	vertices []geometry.Point
	faces    [][]int
}

// NewParser creates an empty parser
func NewParser() *Parser {
	return &Parser{}
}

// Load parses preprocessed lines. Malformed vertices, and face corners that
// do not resolve to a known vertex, are skipped.
func (p *Parser) Load(lines []string) {
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "v "):
			p.loadVertex(line[2:])
		case strings.HasPrefix(line, "f "):
			p.loadFace(line[2:])
		}
	}
}

func (p *Parser) loadVertex(rest string) {
	point, ok := geometry.ParseTriple(strings.Fields(rest))
	if !ok {
		return
	}
	p.vertices = append(p.vertices, point)
}

func (p *Parser) loadFace(rest string) {
	corners := strings.Fields(rest)
	indices := make([]int, 0, len(corners))
	for _, corner := range corners {
		if index, ok := p.resolve(corner); ok {
			indices = append(indices, index)
		}
	}
	p.faces = append(p.faces, indices)
}

// resolve converts a corner token such as "3", "-1" or "3/7/2" into a
// 0-based index into the vertex table.
func (p *Parser) resolve(corner string) (int, bool) {
	if slash := strings.IndexByte(corner, '/'); slash >= 0 {
		corner = corner[:slash]
	}
	value, err := strconv.ParseInt(corner, 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}

	count := int64(len(p.vertices))
	var index int64
	if value > 0 {
		index = value - 1
	} else {
		index = count + value
	}
	if index < 0 || index >= count {
		return 0, false
	}
	return int(index), true
}

// VertexCount returns the number of vertices parsed so far
func (p *Parser) VertexCount() int {
	return len(p.vertices)
}

// FaceIndices returns the face index lists parsed so far
func (p *Parser) FaceIndices() [][]int {
	return p.faces
}

// Model builds a single mesh model from the parsed data
func (p *Parser) Model(name string) model.Model {
	mesh := model.NewMesh(name)
	for _, indices := range p.faces {
		face := make(model.Face, 0, len(indices))
		for _, index := range indices {
			if index < 0 || index >= len(p.vertices) {
				continue
			}
			face = append(face, p.vertices[index])
		}
		mesh.AddFace(face)
	}
	return model.Model{Meshes: []model.Mesh{mesh}}
}

// Import reads an OBJ document from r
func Import(r io.Reader, name string) (model.Model, error) {
	lines, err := Preprocess(r)
	if err != nil {
		return model.Model{}, err
	}

	parser := NewParser()
	parser.Load(lines)
	return parser.Model(name), nil
}

// ImportFile reads an OBJ file. The mesh is named after the file.
func ImportFile(path string) (model.Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Model{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Import(file, name)
}
