package ffi

import (
	"sync/atomic"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/logging"
)

// Settings are the process-wide knobs of the ownership layer.
type Settings struct {
	Logger logging.Logger

	// DetectConcurrentUse logs a warning when a transferable-only handle is
	// borrowed by two calls at the same time. No locking is ever performed.
	DetectConcurrentUse bool

	// LogLeaks raises finalizer releases from debug to warn level.
	LogLeaks bool
}

var settings atomic.Pointer[Settings]

func init() {
	settings.Store(&Settings{Logger: logging.New(nil)})
}

// Configure replaces the current settings. A nil Logger keeps slog.Default().
func Configure(s Settings) {
	if s.Logger == nil {
		s.Logger = logging.New(nil)
	}
	settings.Store(&s)
}

// CurrentSettings returns a copy of the active settings.
func CurrentSettings() Settings {
	return *settings.Load()
}

// Log returns the configured logger.
func Log() logging.Logger {
	return settings.Load().Logger
}
