// Package logging provides a minimal logging facade for the binding layer.
//
// This package defines a Logger interface that wraps a subset of the standard
// library's log/slog functionality. Applications can plug in their own
// implementation or hand over a configured *slog.Logger.
//
// # Default Implementation
//
//	import (
//	    "log/slog"
//	    "github.com/hsiuhsiu/opencv-go/pkg/cv/logging"
//	)
//
//	// Use default logger (slog.Default())
//	logger := logging.New(nil)
//
//	// Use custom slog.Logger
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	customLogger := logging.New(slog.New(handler))
//
// # What Gets Logged
//
// The binding logs sparingly: wrappers released by a finalizer instead of
// Close, native mouse events with an unknown event code, transferable-only
// handles borrowed from two goroutines at once (when enabled in cv.Config),
// and library open/close. Records carry the object kind via logging.Kind,
// never a native address:
//
//	logger.Warn(ctx, "released by finalizer", logging.Kind("Mat"))
package logging
