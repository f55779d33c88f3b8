package lint

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Patch renders a line diff from before to after. Removed lines start with
// "-", added lines with "+" and unchanged lines with a space. Equal inputs
// give "".
func Patch(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	var b strings.Builder

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range splitLines(d.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\n")
	}

	return lines
}
