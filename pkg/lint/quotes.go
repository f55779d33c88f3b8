package lint

import (
	"strconv"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Strings under these parents keep their quoting: import paths and struct
// tags.
var quoteExempt = map[string]bool{
	"import_spec":       true,
	"field_declaration": true,
}

// checkQuotes reports string literals that could use the preferred quoting
// without escapes.
func checkQuotes(s *source, cfg Config) []finding {
	var out []finding

	walk(s.root, "", func(n sitter.Node, parent string) bool {
		kind := n.Type()
		if kind != "interpreted_string_literal" && kind != "raw_string_literal" {
			return true
		}

		if quoteExempt[parent] {
			return false
		}

		start, end := span(n)
		lit := s.text[start:end]

		if requoted, ok := requote(lit, cfg.Quotes); ok {
			msg := "Strings must use doublequote."
			if cfg.Quotes == QuoteBacktick {
				msg = "Strings must use backtick."
			}

			out = append(out, s.finding(RuleQuotes, start, msg, &edit{start: start, end: end, text: requoted}))
		}

		return false
	})

	return out
}

// requote converts lit to style when that needs no escape sequences.
func requote(lit string, style QuoteStyle) (string, bool) {
	if len(lit) < 2 {
		return "", false
	}

	body := lit[1 : len(lit)-1]

	switch {
	case style == QuoteDouble && lit[0] == '`':
		quoted := strconv.Quote(body)
		if quoted[1:len(quoted)-1] != body {
			return "", false
		}

		return quoted, true
	case style == QuoteBacktick && lit[0] == '"':
		if strings.ContainsRune(body, '\\') || !strconv.CanBackquote(body) {
			return "", false
		}

		return "`" + body + "`", true
	default:
		return "", false
	}
}
