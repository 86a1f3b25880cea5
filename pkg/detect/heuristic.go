package detect

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

// SampleSize is the number of leading bytes inspected for line checks
const SampleSize = 1024

// Heuristic estimates how likely a file is of one format.
// The estimate starts from the file extension and is then updated once per
// sampled line.
type Heuristic struct {
	// Extension is the conventional extension including the dot, e.g. ".obj".
	Extension string
	// ExtensionNoise is the chance that the extension lies about the content.
	ExtensionNoise float64
	// Line matches lines consistent with the format. Nil disables line checks.
	Line *regexp.Regexp
	// LineNoise is the chance that a single line is misleading.
	LineNoise float64
}

// Confirm raises p toward 1 after consistent evidence
func Confirm(p, noise float64) float64 {
	return 1 - (1-p)*noise
}

// Contradict lowers p toward 0 after inconsistent evidence
func Contradict(p, noise float64) float64 {
	return p * noise
}

// Estimate returns the probability for a file with the given name whose
// content starts with sample.
func (h Heuristic) Estimate(name string, sample []byte) float64 {
	var p float64
	if strings.EqualFold(filepath.Ext(name), h.Extension) {
		p = 1 - h.ExtensionNoise
	} else {
		p = h.ExtensionNoise
	}

	if h.Line == nil {
		return p
	}

	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	for _, line := range completeLines(sample) {
		if h.Line.Match(line) {
			p = Confirm(p, h.LineNoise)
		} else {
			p = Contradict(p, h.LineNoise)
		}
	}
	return p
}

// completeLines splits the sample on newlines. A trailing fragment without a
// newline is likely cut off by the sample limit and is not returned.
func completeLines(sample []byte) [][]byte {
	var lines [][]byte
	for {
		i := bytes.IndexByte(sample, '\n')
		if i < 0 {
			return lines
		}
		lines = append(lines, bytes.TrimSuffix(sample[:i], []byte{'\r'}))
		sample = sample[i+1:]
	}
}
