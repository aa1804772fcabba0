// Package logging configures the process-wide zerolog logger. Records go
// to stderr for the operator and to a log file under the XDG state home so
// a failed deployment can be inspected afterwards.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AppName names the log directory under the XDG state home
const AppName = "paldeploy"

// Level maps the -v count to a level: info by default, then debug, then trace
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.InfoLevel
	case verbosity == 1:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger installs the global logger for verbosity. When the log file
// cannot be opened logging continues on the console only.
func SetupLogger(verbosity int) {
	zerolog.SetGlobalLevel(Level(verbosity))

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}}

	path := LogFilePath()
	file, fileErr := openLogFile(path)
	if fileErr == nil {
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("log_file", path).Msg("Logger initialized")
}

// LogFilePath returns $XDG_STATE_HOME/paldeploy/paldeploy.log
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// GetLogger returns a logger tagged with the component name
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ForRun returns a component logger that also carries the run id, so the
// records of one deployment can be picked out of the shared log file
func ForRun(component, runID string) zerolog.Logger {
	return log.With().Str("component", component).Str("run_id", runID).Logger()
}

// LogCommand records an external process about to be started
func LogCommand(logger zerolog.Logger, dir, line string) {
	logger.Debug().Str("dir", dir).Str("command", line).Msg("Running")
}

// Timed logs the start of operation and returns the function that logs its
// end, with the duration and the error it finished with
func Timed(logger zerolog.Logger, operation string) func(err error) {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func(err error) {
		ev := logger.Debug()
		if err != nil {
			ev = logger.Error().Err(err)
		}
		ev.Str("operation", operation).Dur("duration", time.Since(start)).Msg("Operation finished")
	}
}
