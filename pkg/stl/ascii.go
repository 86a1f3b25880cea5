// Package stl imports ASCII and binary STL files into the common model.
package stl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/philipparndt/convertto3mf/pkg/geometry"
	"github.com/philipparndt/convertto3mf/pkg/model"
)

const maxLineSize = 64 << 20

// asciiReader tracks the open solid, facet and loop as indices into the
// model under construction. A value of -1 means none is open.
type asciiReader struct {
	model  model.Model
	mesh   int
	face   int
	inLoop bool
}

func newASCIIReader() *asciiReader {
	return &asciiReader{mesh: -1, face: -1}
}

func (r *asciiReader) line(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "solid":
		r.model.Meshes = append(r.model.Meshes, model.NewMesh(strings.Join(fields[1:], " ")))
		r.mesh = len(r.model.Meshes) - 1
		r.face = -1
		r.inLoop = false

	case "endsolid":
		r.mesh = -1
		r.face = -1
		r.inLoop = false

	case "facet":
		if r.mesh < 0 {
			return
		}
		mesh := &r.model.Meshes[r.mesh]
		mesh.AddFace(make(model.Face, 0, 3))
		r.face = len(mesh.Faces) - 1
		r.inLoop = false

	case "endfacet":
		r.face = -1
		r.inLoop = false

	case "outer":
		if len(fields) < 2 || !strings.EqualFold(fields[1], "loop") {
			return
		}
		if r.mesh < 0 || r.face < 0 {
			return
		}
		r.inLoop = true

	case "endloop":
		r.inLoop = false

	case "vertex":
		if r.mesh < 0 || r.face < 0 || !r.inLoop {
			return
		}
		point, ok := geometry.ParseTriple(fields[1:])
		if !ok {
			return
		}
		faces := r.model.Meshes[r.mesh].Faces
		faces[r.face] = append(faces[r.face], point)
	}
}

// ReadASCII parses an ASCII STL document. Every solid block becomes one mesh
// and every facet one face. Vertices outside an open loop are ignored.
func ReadASCII(reader io.Reader) (model.Model, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	r := newASCIIReader()
	for scanner.Scan() {
		r.line(strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return model.Model{}, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return r.model, nil
}

// ImportASCIIFile reads an ASCII STL file
func ImportASCIIFile(filename string) (model.Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return model.Model{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadASCII(file)
}
