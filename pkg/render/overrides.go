package render

import (
	"github.com/Sumatoshi-tech/astforge/pkg/lint"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
)

// Overrides are per-request printer settings. Nil fields keep the base value.
type Overrides struct {
	Quote           *string `json:"quote,omitempty"            jsonschema:"string quoting: double or backtick"`
	IndentWidth     *int    `json:"indent_width,omitempty"     jsonschema:"spaces per indentation level, 0 for tabs"`
	TrailingNewline *bool   `json:"trailing_newline,omitempty" jsonschema:"end the output with a newline"`
	StripComments   *bool   `json:"strip_comments,omitempty"   jsonschema:"drop comments from the output"`
}

// Apply returns base with every set field replaced.
func (o Overrides) Apply(base printer.Options) printer.Options {
	if o.Quote != nil {
		base.Quote = lint.QuoteStyle(*o.Quote)
	}

	if o.IndentWidth != nil {
		base.IndentWidth = *o.IndentWidth
	}

	if o.TrailingNewline != nil {
		base.TrailingNewline = *o.TrailingNewline
	}

	if o.StripComments != nil {
		base.StripComments = *o.StripComments
	}

	return base
}
