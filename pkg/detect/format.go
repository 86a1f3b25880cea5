// Package detect guesses the format of a mesh file from its name and its
// first bytes. Every supported format gets an independent probability and the
// most likely one wins; detection never rejects a file.
package detect

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies a supported input format
type Format int

// Declaration order is the tie-break priority.
const (
	OBJ Format = iota
	STLBinary
	STLASCII
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown names
var ErrUnsupportedFormat = errors.New("unsupported format")

// Formats lists all formats in priority order
var Formats = []Format{OBJ, STLBinary, STLASCII}

var formatNames = map[Format]string{
	OBJ:       "obj",
	STLBinary: "stl-binary",
	STLASCII:  "stl-ascii",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat converts a format name as printed by String back into a Format
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range Formats {
		if formatNames[f] == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}
