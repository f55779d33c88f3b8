// Package config provides YAML and environment based configuration for
// astforge.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/astforge/pkg/lint"
	"github.com/Sumatoshi-tech/astforge/pkg/printer"
)

// Sentinel validation errors.
var (
	ErrInvalidQuoteStyle  = errors.New("quote style must be double or backtick")
	ErrInvalidIndentWidth = errors.New("indent width must not be negative")
	ErrInvalidPackageName = errors.New("package name must not be empty")
	ErrInvalidMaxSize     = errors.New("invalid input max size")
	ErrInvalidPort        = errors.New("invalid server port")
	ErrInvalidTimeout     = errors.New("server timeouts must be positive")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

const maxPort = 65535

// Config holds all configuration for astforge.
type Config struct {
	Printer PrinterConfig `mapstructure:"printer"`
	Input   InputConfig   `mapstructure:"input"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PrinterConfig holds the default print style.
type PrinterConfig struct {
	QuoteStyle      string `mapstructure:"quote_style"`
	PackageName     string `mapstructure:"package_name"`
	IndentWidth     int    `mapstructure:"indent_width"`
	TrailingNewline bool   `mapstructure:"trailing_newline"`
	StripComments   bool   `mapstructure:"strip_comments"`
}

// InputConfig bounds and checks serialized documents.
type InputConfig struct {
	// MaxSize is a human readable byte size, e.g. "4MB".
	MaxSize        string `mapstructure:"max_size"`
	ValidateSchema bool   `mapstructure:"validate_schema"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Port         int           `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Options converts the printer section to printer options.
func (p PrinterConfig) Options() printer.Options {
	return printer.Options{
		Quote:           lint.QuoteStyle(p.QuoteStyle),
		IndentWidth:     p.IndentWidth,
		TrailingNewline: p.TrailingNewline,
		StripComments:   p.StripComments,
	}
}

// MaxBytes parses MaxSize.
func (i InputConfig) MaxBytes() (int64, error) {
	size, err := humanize.ParseBytes(strings.TrimSpace(i.MaxSize))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxSize, i.MaxSize, err)
	}

	if size == 0 || size > uint64(maxInputBytes) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxSize, i.MaxSize)
	}

	return int64(size), nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	printerErr := c.validatePrinter()
	if printerErr != nil {
		return printerErr
	}

	_, sizeErr := c.Input.MaxBytes()
	if sizeErr != nil {
		return sizeErr
	}

	serverErr := c.validateServer()
	if serverErr != nil {
		return serverErr
	}

	_, levelErr := c.Logging.SlogLevel()

	return levelErr
}

func (c *Config) validatePrinter() error {
	switch lint.QuoteStyle(c.Printer.QuoteStyle) {
	case lint.QuoteDouble, lint.QuoteBacktick:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidQuoteStyle, c.Printer.QuoteStyle)
	}

	if c.Printer.IndentWidth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndentWidth, c.Printer.IndentWidth)
	}

	if strings.TrimSpace(c.Printer.PackageName) == "" {
		return ErrInvalidPackageName
	}

	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}
