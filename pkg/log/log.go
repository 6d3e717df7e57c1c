// Package log builds the process logger from configuration.
package log

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/venturelinkhq/venturelink/pkg/config"
)

// NewLogger builds the root logger for the process. When cfg.Log.Path is set
// the returned file is the open log sink and the caller owns closing it.
func NewLogger(cfg *config.Config) (*log.Logger, *os.File, error) {
	if cfg == nil {
		return nil, nil, config.ErrNilConfig
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.Log.TimeFormat,
		Formatter:       parseFormat(cfg.Log.Format),
	})

	// Verbose implies debug.
	switch {
	case config.IsVerbose():
		logger.SetReportCaller(true)
		fallthrough
	case config.IsDebug():
		logger.SetLevel(log.DebugLevel)
	}

	if cfg.Log.Path == "" {
		return logger, nil, nil
	}

	f, err := os.OpenFile(cfg.Log.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}
	logger.SetOutput(f)
	return logger, f, nil
}

func parseFormat(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
