package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/astforge/pkg/lint"
)

func TestPatch(t *testing.T) {
	t.Parallel()

	assert.Empty(t, lint.Patch("a\n", "a\n"))

	got := lint.Patch("func f() {\nreturn\n}\n", "func f() {\n  return\n}\n")
	assert.Equal(t, " func f() {\n-return\n+  return\n }\n", got)
}
