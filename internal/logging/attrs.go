package logging

import (
	"log/slog"
	"time"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Error(err error) Attr { return slog.Any("error", err) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key, value string) Attr { return slog.String(key, value) }

// WithComponent tags a logger with the owning component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil || component == "" {
		return logger
	}
	return logger.With(String(FieldComponent, component))
}

// WithRun tags a logger with a build run identifier.
func WithRun(logger *slog.Logger, runID string) *slog.Logger {
	if logger == nil || runID == "" {
		return logger
	}
	return logger.With(String(FieldRunID, runID))
}

// WithStep tags a logger with the current pipeline step name.
func WithStep(logger *slog.Logger, step string) *slog.Logger {
	if logger == nil || step == "" {
		return logger
	}
	return logger.With(String(FieldStep, step))
}
