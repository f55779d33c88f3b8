package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/astforge/pkg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"createIdentifier", "createIdentifer", 1},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein.Distance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
		assert.Equal(t, tt.want, levenshtein.Distance(tt.b, tt.a), "%q -> %q", tt.b, tt.a)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	names := []string{"createIdentifier", "createIfStatement", "createImportDeclaration"}

	got, ok := levenshtein.Closest("createidentifer", names, 3)
	assert.True(t, ok)
	assert.Equal(t, "createIdentifier", got)

	_, ok = levenshtein.Closest("bogusThing", names, 3)
	assert.False(t, ok)

	_, ok = levenshtein.Closest("x", nil, 3)
	assert.False(t, ok)
}
