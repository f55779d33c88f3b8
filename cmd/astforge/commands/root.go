// Package commands implements the astforge CLI subcommands.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astforge/pkg/config"
	"github.com/Sumatoshi-tech/astforge/pkg/observability"
	"github.com/Sumatoshi-tech/astforge/pkg/version"
)

// exitCodeFailure is the exit code for a failed command.
const exitCodeFailure = 1

// envOTLPInsecure disables TLS for the OTLP exporter when set to "true".
const envOTLPInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

// exitError carries a process exit code. Reported errors were already
// written to the terminal by the command.
type exitError struct {
	err      error
	code     int
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// ExitCode returns the process exit code for an error returned by a command.
func ExitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	return exitCodeFailure
}

// IsReported reports whether the command already printed err.
func IsReported(err error) bool {
	var ee *exitError

	return errors.As(err, &ee) && ee.reported
}

// app is the state shared by every subcommand. It is filled in by the
// root command's pre-run hook.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	configPath string
	level      slog.Level
	verbose    bool
	quiet      bool
	logJSON    bool
}

// NewRootCommand builds the astforge command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "astforge",
		Short: "Print Go source code from serialized syntax trees",
		Long: `astforge turns a JSON document of node-construction calls into
formatted, style-clean Go source code.

Commands:
  print      Deserialize a document and print Go code
  validate   Check a document against the node schema
  lint       Check or fix the style of Go text
  ops        List the node-construction operations
  serve      Start the HTTP API
  mcp        Start the MCP server for AI agents`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is ./.astforge.yaml or $HOME/.astforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")
	rootCmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log in JSON format")

	rootCmd.AddCommand(newPrintCommand(a))
	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newLintCommand(a))
	rootCmd.AddCommand(newOpsCommand())
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newMCPCommand(a))
	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// load reads .env, the config file and the environment, then builds the
// logger. Flags override the configured log settings.
func (a *app) load(cmd *cobra.Command) error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	a.cfg, err = config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	level, err := a.cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}

	switch {
	case a.quiet:
		level = slog.LevelError
	case a.verbose:
		level = slog.LevelDebug
	}

	a.level = level
	a.logger = observability.NewLogger(a.telemetry(observability.ModeCLI), cmd.ErrOrStderr())

	return nil
}

// telemetry returns the observability settings for mode. The OTLP exporter
// is configured from the standard OTEL_* environment variables.
func (a *app) telemetry(mode observability.AppMode) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Get().Version
	cfg.Mode = mode
	cfg.LogLevel = a.level
	cfg.LogJSON = a.logJSON || (a.cfg != nil && a.cfg.Logging.JSON)
	cfg.OTLPEndpoint = os.Getenv(observability.EnvOTLPEndpoint)
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(observability.EnvOTLPHeaders))
	cfg.OTLPInsecure = os.Getenv(envOTLPInsecure) == "true"

	return cfg
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}
