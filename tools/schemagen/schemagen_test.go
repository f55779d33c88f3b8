package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astforge/cmd/astforge/commands"
	"github.com/Sumatoshi-tech/astforge/pkg/mcp"
)

func TestGenerateSchema_PrintRequest(t *testing.T) {
	t.Parallel()

	schema := generateSchema("api_print_request", &commands.PrintRequest{})

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"nodes"}, schema.Required)
	assert.Contains(t, schema.Properties, "mode")
	assert.Equal(t, "#/definitions/Overrides", schema.Properties["options"].Ref)
	require.Contains(t, schema.Definitions, "Overrides")
	assert.Equal(t, "string", schema.Definitions["Overrides"].Properties["quote"].Type)
	assert.NotEmpty(t, schema.Definitions["Overrides"].Properties["quote"].Description)
}

func TestGenerateSchema_MCPInput(t *testing.T) {
	t.Parallel()

	schema := generateSchema("mcp_print_input", &mcp.PrintInput{})

	assert.Empty(t, schema.Properties["nodes"].Type)
	assert.NotEmpty(t, schema.Properties["nodes"].Description)
	assert.Equal(t, "boolean", schema.Properties["validate"].Type)
}

func TestRun_WritesEverySchema(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "schemas")
	require.NoError(t, run(dir))

	for name := range payloads() {
		data, err := os.ReadFile(filepath.Join(dir, name+".json"))
		require.NoError(t, err, name)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded), name)
		assert.Equal(t, "object", decoded["type"], name)
	}
}
