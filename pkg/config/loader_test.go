package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astforge/pkg/config"
	"github.com/Sumatoshi-tech/astforge/pkg/lint"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".astforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultQuoteStyle, cfg.Printer.QuoteStyle)
	assert.Equal(t, config.DefaultIndentWidth, cfg.Printer.IndentWidth)
	assert.Equal(t, config.DefaultTrailingNewline, cfg.Printer.TrailingNewline)
	assert.Equal(t, config.DefaultStripComments, cfg.Printer.StripComments)
	assert.Equal(t, config.DefaultPackageName, cfg.Printer.PackageName)
	assert.Equal(t, config.DefaultInputMaxSize, cfg.Input.MaxSize)
	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultServerReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `
printer:
  quote_style: backtick
  indent_width: 0
  trailing_newline: false
  package_name: gen
input:
  max_size: 512KB
  validate_schema: true
server:
  host: 0.0.0.0
  port: 9000
  read_timeout: 5s
logging:
  level: debug
  json: true
`))
	require.NoError(t, err)

	opts := cfg.Printer.Options()
	assert.Equal(t, lint.QuoteBacktick, opts.Quote)
	assert.Zero(t, opts.IndentWidth)
	assert.False(t, opts.TrailingNewline)
	assert.Equal(t, "gen", cfg.Printer.PackageName)

	size, err := cfg.Input.MaxBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(512000), size)
	assert.True(t, cfg.Input.ValidateSchema)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DefaultServerWriteTimeout, cfg.Server.WriteTimeout)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want    error
		name    string
		content string
	}{
		{name: "quote", content: "printer:\n  quote_style: single\n", want: config.ErrInvalidQuoteStyle},
		{name: "indent", content: "printer:\n  indent_width: -1\n", want: config.ErrInvalidIndentWidth},
		{name: "package", content: "printer:\n  package_name: \"\"\n", want: config.ErrInvalidPackageName},
		{name: "max size", content: "input:\n  max_size: lots\n", want: config.ErrInvalidMaxSize},
		{name: "zero max size", content: "input:\n  max_size: 0B\n", want: config.ErrInvalidMaxSize},
		{name: "port", content: "server:\n  port: 70000\n", want: config.ErrInvalidPort},
		{name: "timeout", content: "server:\n  read_timeout: 0s\n", want: config.ErrInvalidTimeout},
		{name: "log level", content: "logging:\n  level: loud\n", want: config.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("ASTFORGE_PRINTER_INDENT_WIDTH", "4")
	t.Setenv("ASTFORGE_SERVER_PORT", "9100")

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Printer.IndentWidth)
	assert.Equal(t, 9100, cfg.Server.Port)
}
