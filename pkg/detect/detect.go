package detect

import (
	"fmt"
	"io"
	"os"
)

// Score is the estimated probability of one format
type Score struct {
	Format      Format
	Probability float64
}

// Detect returns the most likely format of the content in r.
// Scores holds the estimate of every format in priority order. Read errors
// only shrink the inspected sample.
func Detect(name string, r io.ReaderAt, size int64) (Format, []Score) {
	head := readHead(r, size)

	scores := make([]Score, 0, len(Formats))
	best := Formats[0]
	highest := -1.0
	for _, f := range Formats {
		p := Probability(f, name, head, size)
		scores = append(scores, Score{Format: f, Probability: p})
		if p > highest {
			highest = p
			best = f
		}
	}
	return best, scores
}

// DetectFile detects the format of a file on disk
func DetectFile(path string) (Format, []Score, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format, scores := Detect(path, file, info.Size())
	return format, scores, nil
}

func readHead(r io.ReaderAt, size int64) []byte {
	n := int64(SampleSize)
	if size < n {
		n = size
	}
	if n <= 0 {
		return nil
	}
	head := make([]byte, n)
	read, _ := io.ReadFull(io.NewSectionReader(r, 0, n), head)
	return head[:read]
}
