package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/astforge/pkg/version"
)

func TestGet_NeverEmpty(t *testing.T) {
	t.Parallel()

	info := version.Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.Date)
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	info := version.Info{Version: "v1.2.0", Commit: "abc123", Date: "2026-01-02"}
	assert.Equal(t, "astforge v1.2.0 (commit: abc123, built: 2026-01-02)", info.String())
}
