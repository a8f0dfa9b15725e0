package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/flowgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(msg string) error {
	return &ExitError{Code: 2, Message: msg}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("flowgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowgrid - Runs visual ETL pipelines of sources, transforms and sinks.

Usage:
  flowgrid [options] PIPELINE

Arguments:
  PIPELINE
    A .json, .yaml or .hcl pipeline file, or a directory of .hcl files.
    The run result is printed to stdout as one JSON line.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline file or directory (shorthand).")
	planFlag := flagSet.Bool("plan", false, "Print the execution order and components instead of running.")
	watchFlag := flagSet.Bool("watch", false, "Re-run the pipeline whenever its file changes.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Time bound for a single transform, e.g. '500ms'. 0 uses the default of 2s.")
	languageFlag := flagSet.String("language", "js", "Language of transforms that do not name one. Options: 'js' or 'hcl'.")
	notifyFlag := flagSet.String("notify-url", "", "Socket.io server to publish each result to, e.g. 'http://localhost:3000/socket.io/'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError(err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	switch {
	case *pipelineFlag != "":
		path = *pipelineFlag
	case *pFlag != "":
		path = *pFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}
	slog.Debug("Pipeline path determined.", "path", path)

	if path == "" {
		slog.Debug("No pipeline path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError(fmt.Sprintf("expected one pipeline path, got %d", flagSet.NArg()))
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if *planFlag && *watchFlag {
		return nil, false, usageError("--plan and --watch cannot be combined")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		PipelinePath:    path,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Timeout:         *timeoutFlag,
		DefaultLanguage: strings.ToLower(*languageFlag),
		HealthcheckPort: *healthPortFlag,
		NotifyURL:       *notifyFlag,
		Watch:           *watchFlag,
		Plan:            *planFlag,
	})
	if err != nil {
		return nil, false, usageError(err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
