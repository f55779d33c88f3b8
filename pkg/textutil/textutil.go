// Package textutil provides text utilities shared by the style engine and
// the command line: binary detection, line counting and offset mapping.
package textutil

import (
	"bytes"
	"sort"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in text.
// A non-empty text without a trailing newline counts the last partial line.
func CountLines(text string) int {
	if text == "" {
		return 0
	}

	lines := strings.Count(text, "\n")
	if text[len(text)-1] != '\n' {
		lines++
	}

	return lines
}

// LineStarts returns the byte offset of the first byte of every line.
// The result always holds at least one entry.
func LineStarts(text string) []int {
	starts := make([]int, 1, strings.Count(text, "\n")+1)

	for i := range len(text) {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

// Position maps a byte offset to a 1-based line and column.
func Position(starts []int, offset int) (line, column int) {
	idx := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	if idx < 0 {
		idx = 0
	}

	return idx + 1, offset - starts[idx] + 1
}

// LeadingWhitespace returns the run of spaces and tabs that starts line.
func LeadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
