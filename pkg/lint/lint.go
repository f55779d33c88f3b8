// Package lint is the style engine behind the printer: it parses Go text
// with tree-sitter, reports rule violations and applies their fixes.
package lint

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidConfig is returned by New for a configuration it cannot run.
var ErrInvalidConfig = errors.New("invalid lint config")

// QuoteStyle is the preferred quoting of string literals.
type QuoteStyle string

// Quote styles.
const (
	QuoteDouble   QuoteStyle = "double"
	QuoteBacktick QuoteStyle = "backtick"
)

// EOLMode controls the final newline of the text.
type EOLMode string

// End-of-file modes.
const (
	EOLAlways EOLMode = "always"
	EOLNever  EOLMode = "never"
)

// Goal selects how strictly the text is parsed.
type Goal int

// Parse goals. GoalFragment tolerates text that is not a complete file;
// GoalFile reports syntax errors as fatal messages.
const (
	GoalFragment Goal = iota
	GoalFile
)

// String returns the goal name.
func (g Goal) String() string {
	switch g {
	case GoalFragment:
		return "fragment"
	case GoalFile:
		return "file"
	default:
		return "goal(" + strconv.Itoa(int(g)) + ")"
	}
}

// Default indentation width in spaces.
const DefaultIndent = 2

// Config enables the rule set. Indent is the number of spaces per level;
// zero selects tabs.
type Config struct {
	Quotes QuoteStyle
	EOL    EOLMode
	Indent int
	Goal   Goal
}

// DefaultConfig returns two-space indentation, double quotes, a required
// trailing newline and the fragment goal.
func DefaultConfig() Config {
	return Config{
		Indent: DefaultIndent,
		Quotes: QuoteDouble,
		EOL:    EOLAlways,
		Goal:   GoalFragment,
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("%w: negative indent %d", ErrInvalidConfig, c.Indent)
	}

	switch c.Quotes {
	case QuoteDouble, QuoteBacktick:
	default:
		return fmt.Errorf("%w: quote style %q", ErrInvalidConfig, c.Quotes)
	}

	switch c.EOL {
	case EOLAlways, EOLNever:
	default:
		return fmt.Errorf("%w: eol mode %q", ErrInvalidConfig, c.EOL)
	}

	if c.Goal != GoalFragment && c.Goal != GoalFile {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Goal)
	}

	return nil
}

// Message is one diagnostic. Line and Column are 1-based. Fatal messages
// come from syntax errors and carry no rule.
type Message struct {
	RuleID  string `json:"rule_id,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Fatal   bool   `json:"fatal,omitempty"`
}

// String formats the message as "line:column message".
func (m Message) String() string {
	return fmt.Sprintf("%d:%d %s", m.Line, m.Column, m.Message)
}

// Result is the outcome of a verify or fix run. Output is the final text,
// Fixed reports whether it differs from the input, and Messages holds the
// diagnostics that remain.
type Result struct {
	Output   string    `json:"output"`
	Messages []Message `json:"messages,omitempty"`
	Fixed    bool      `json:"fixed"`
}

// HasFatal reports whether any message is a syntax error.
func (r Result) HasFatal() bool {
	for _, m := range r.Messages {
		if m.Fatal {
			return true
		}
	}

	return false
}
