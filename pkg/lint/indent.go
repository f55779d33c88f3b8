package lint

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/astforge/pkg/textutil"
)

var (
	openers = map[string]bool{"(": true, "[": true, "{": true}
	closers = map[string]bool{")": true, "]": true, "}": true}

	// Clause heads sit one level left of the statements they hold.
	clauseTypes = map[string]bool{
		"expression_case":    true,
		"default_case":       true,
		"type_case":          true,
		"communication_case": true,
	}

	// A line ending in one of these continues on the next, one level in.
	continuationOps = map[string]bool{
		"+": true, "-": true, "*": true, "/": true, "%": true,
		"&": true, "|": true, "^": true, "<<": true, ">>": true, "&^": true,
		"&&": true, "||": true, "==": true, "!=": true,
		"<": true, "<=": true, ">": true, ">=": true,
		"=": true, ":=": true,
	}
)

// checkIndent compares the leading whitespace of every line holding the
// start of a token with the expected level. A bracket adds one level to
// the lines after it, however many brackets open on the same line.
func checkIndent(s *source, cfg Config) []finding {
	unit := strings.Repeat(" ", cfg.Indent)
	if cfg.Indent == 0 {
		unit = "\t"
	}

	var (
		out      []finding
		stack    []int
		skip     = make(map[int]bool)
		curLine  = -1
		curLevel int
		prev     *token
	)

	for i := range s.tokens {
		tok := &s.tokens[i]
		line := s.lineOf(tok.start)

		if line != curLine {
			curLine = line

			if !skip[line] {
				curLevel = expectedLevel(tok, prev, stack)
				if f, bad := s.indentFinding(line, curLevel, unit, cfg.Indent == 0); bad {
					out = append(out, f)
				}
			}
		}

		switch {
		case openers[tok.kind]:
			stack = append(stack, curLevel)
		case closers[tok.kind] && len(stack) > 0:
			stack = stack[:len(stack)-1]
		}

		for l := line + 1; l <= s.lineOf(tok.end-1); l++ {
			skip[l] = true
		}

		prev = tok
	}

	return out
}

func expectedLevel(tok, prev *token, stack []int) int {
	level := 0
	if len(stack) > 0 {
		level = stack[len(stack)-1] + 1
	}

	switch {
	case closers[tok.kind] && len(stack) > 0:
		return stack[len(stack)-1]
	case tok.kind == "case" || tok.kind == "default":
		if clauseTypes[tok.parent] {
			return max(0, level-1)
		}
	case tok.kind == "label_name" && tok.parent == "labeled_statement":
		return max(0, level-1)
	case prev != nil && continuationOps[prev.kind]:
		return level + 1
	}

	return level
}

func (s *source) indentFinding(line, level int, unit string, tabs bool) (finding, bool) {
	text := s.line(line)
	actual := textutil.LeadingWhitespace(text)
	want := strings.Repeat(unit, level)

	if actual == want {
		return finding{}, false
	}

	width := len(unit) * level
	unitName := "space"

	if tabs {
		width, unitName = level, "tab"
	}

	msg := fmt.Sprintf("Expected indentation of %s but found %s.", plural(width, unitName), describeIndent(actual))
	start := s.starts[line]

	return s.finding(RuleIndent, start+len(actual), msg, &edit{start: start, end: start + len(actual), text: want}), true
}

func describeIndent(ws string) string {
	spaces := strings.Count(ws, " ")
	tabs := strings.Count(ws, "\t")

	switch {
	case spaces > 0 && tabs > 0:
		return plural(spaces, "space") + " and " + plural(tabs, "tab")
	case spaces > 0:
		return plural(spaces, "space")
	case tabs > 0:
		return plural(tabs, "tab")
	default:
		return "0"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
