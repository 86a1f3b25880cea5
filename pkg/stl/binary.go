package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/philipparndt/convertto3mf/pkg/geometry"
	"github.com/philipparndt/convertto3mf/pkg/model"
)

const (
	headerSize = 80
	recordSize = 50
	// maxPrealloc caps how many faces are reserved up front from an
	// untrusted triangle count.
	maxPrealloc = 1 << 20
)

// ReadBinary parses a binary STL stream. The triangle count at offset 80
// drives the read; bytes after the last record are ignored. If the stream
// ends early the triangles read so far are returned.
func ReadBinary(reader io.Reader) (model.Model, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return model.Model{}, fmt.Errorf("failed to read header: %w", err)
	}

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return model.Model{}, fmt.Errorf("failed to read triangle count: %w", err)
	}

	mesh := model.NewMesh(headerName(header))
	mesh.Faces = make([]model.Face, 0, int(min(triangleCount, maxPrealloc)))

	record := make([]byte, recordSize)
	for i := uint32(0); i < triangleCount; i++ {
		if _, err := io.ReadFull(reader, record); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return model.Model{}, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}

		// Bytes 0-11 hold the normal and 48-49 the attribute byte count.
		mesh.AddFace(model.Face{
			readPoint(record[12:24]),
			readPoint(record[24:36]),
			readPoint(record[36:48]),
		})
	}

	return model.Model{Meshes: []model.Mesh{mesh}}, nil
}

func readPoint(b []byte) geometry.Point {
	return geometry.NewPoint(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))),
	)
}

// headerName extracts a printable name from the free form header.
// Headers written by ASCII-minded exporters start with "solid" and are not used.
func headerName(header []byte) string {
	name := strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))
	if name == "" || strings.HasPrefix(strings.ToLower(name), "solid") {
		return ""
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return ""
		}
	}
	return name
}

// ImportBinaryFile reads a binary STL file
func ImportBinaryFile(filename string) (model.Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return model.Model{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadBinary(bufio.NewReader(file))
}

// WriteBinary encodes the faces of all meshes as a binary STL stream.
// Faces are fan triangulated; normals are computed from the winding.
func WriteBinary(w io.Writer, header string, m model.Model) error {
	var triangles []geometry.Triangle
	for _, mesh := range m.Meshes {
		for _, face := range mesh.Faces {
			triangles = append(triangles, face.Triangles()...)
		}
	}
	if uint64(len(triangles)) > math.MaxUint32 {
		return fmt.Errorf("too many triangles for binary STL: %d", len(triangles))
	}

	bw := bufio.NewWriter(w)
	head := make([]byte, headerSize+4)
	copy(head[:headerSize], header)
	binary.LittleEndian.PutUint32(head[headerSize:], uint32(len(triangles)))
	if _, err := bw.Write(head); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]byte, recordSize)
	for i, t := range triangles {
		for j, p := range []geometry.Point{t.Normal(), t.V1, t.V2, t.V3} {
			putPoint(record[j*12:(j+1)*12], p)
		}
		binary.LittleEndian.PutUint16(record[48:], 0)
		if _, err := bw.Write(record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return bw.Flush()
}

func putPoint(b []byte, p geometry.Point) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(float32(p.X)))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(float32(p.Y)))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(float32(p.Z)))
}
