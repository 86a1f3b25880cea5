package obj

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	trimChars = " \t\n\r\f"
	// maxLineSize bounds a single physical line; continuations may exceed it.
	maxLineSize = 64 << 20
)

// Preprocess reads all lines from r, trims surrounding whitespace and joins
// lines ending in a backslash with the line that follows. The backslash
// becomes a single space.
func Preprocess(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lines := make([]string, 0, 1024)
	continued := false
	for scanner.Scan() {
		line := strings.Trim(scanner.Text(), trimChars)
		if continued {
			last := len(lines) - 1
			prev := lines[last]
			lines[last] = prev[:len(prev)-1] + " " + line
		} else {
			lines = append(lines, line)
		}
		continued = strings.HasSuffix(lines[len(lines)-1], `\`)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}

	return lines, nil
}
