package detect

import (
	"encoding/binary"
	"regexp"
)

const (
	extensionNoise = 0.01
	lineNoise      = 0.01
	// Binary STL files should be exactly 84+50*N bytes, N being stored at offset 80.
	sizeNoise = 0.0001

	stlHeaderSize = 80
	stlRecordSize = 50
)

var objHeuristic = Heuristic{
	Extension:      ".obj",
	ExtensionNoise: extensionNoise,
	Line: regexp.MustCompile(`^\s*$` +
		`|^\s*#.*$` +
		`|^\s*(v|vt|vn|vp)(\s+\S+)+\s*\\?$` +
		`|^\s*(f|l|p)(\s+-?\d+(/-?\d*){0,2})+\s*\\?$` +
		`|^\s*(o|g|s|usemtl|mtllib|cstype|deg|curv|curv2|surf|parm|trim|hole|scrv|sp|end|con|mg|bevel|c_interp|d_interp|lod|maplib|usemap|shadow_obj|trace_obj|ctech|stech|call|csh|bmat|step)(\s.*)?$`),
	LineNoise: lineNoise,
}

var stlASCIIHeuristic = Heuristic{
	Extension:      ".stl",
	ExtensionNoise: extensionNoise,
	Line: regexp.MustCompile(`(?i)^\s*$` +
		`|^\s*solid(\s.*)?$` +
		`|^\s*facet(\s+normal\s.*)?\s*$` +
		`|^\s*outer\s+loop\s*$` +
		`|^\s*vertex\s.*$` +
		`|^\s*endloop\s*$` +
		`|^\s*endfacet\s*$` +
		`|^\s*endsolid(\s.*)?$`),
	LineNoise: lineNoise,
}

var stlBinaryHeuristic = Heuristic{
	Extension:      ".stl",
	ExtensionNoise: extensionNoise,
}

// binarySTLSizeMatches reports whether size equals 84 + 50*N for the count
// stored in the header. head must hold at least the first 84 bytes.
func binarySTLSizeMatches(head []byte, size int64) bool {
	if size < stlHeaderSize+4 || len(head) < stlHeaderSize+4 {
		return false
	}
	count := uint64(binary.LittleEndian.Uint32(head[stlHeaderSize : stlHeaderSize+4]))
	return uint64(size) == stlHeaderSize+4+stlRecordSize*count
}

// Probability estimates the likelihood of format f for the given file name,
// leading bytes and total size.
func Probability(f Format, name string, head []byte, size int64) float64 {
	switch f {
	case OBJ:
		return objHeuristic.Estimate(name, head)
	case STLASCII:
		return stlASCIIHeuristic.Estimate(name, head)
	case STLBinary:
		p := stlBinaryHeuristic.Estimate(name, head)
		if binarySTLSizeMatches(head, size) {
			return Confirm(p, sizeNoise)
		}
		return Contradict(p, sizeNoise)
	default:
		return 0
	}
}
