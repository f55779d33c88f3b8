package config

import "time"

// Printer defaults.
const (
	DefaultQuoteStyle      = "double"
	DefaultIndentWidth     = 2
	DefaultTrailingNewline = true
	DefaultStripComments   = false
	DefaultPackageName     = "main"
)

// Input defaults.
const (
	DefaultInputMaxSize        = "4MB"
	DefaultInputValidateSchema = false

	// maxInputBytes caps any configured input size.
	maxInputBytes = 1 << 30
)

// Server defaults.
const (
	DefaultServerHost         = "127.0.0.1"
	DefaultServerPort         = 8080
	DefaultServerReadTimeout  = 30 * time.Second
	DefaultServerWriteTimeout = 30 * time.Second
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)
