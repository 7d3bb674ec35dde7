package cv

import (
	"context"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/text"
)

// Library represents the opened native OpenCV library. Open applies a Config
// to the process; Close restores the settings that were active before.
type Library struct {
	cfg    Config
	prev   ffi.Settings
	closed bool
}

// Open validates cfg, installs its logger and ownership settings, and applies
// the runtime knobs. It fails with ErrNotBuilt when the binary was built
// without the native bindings.
func Open(cfg Config) (*Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !backend.Available() {
		return nil, ErrNotBuilt
	}

	prev := ffi.CurrentSettings()
	log := cfg.logger()
	ffi.Configure(ffi.Settings{
		Logger:              log,
		DetectConcurrentUse: cfg.DetectConcurrentUse,
		LogLeaks:            cfg.LogLeaks,
	})

	n := backend.Current()
	if cfg.NumThreads != 0 {
		n.SetNumThreads(int32(cfg.NumThreads))
	}
	if cfg.UseOptimized != nil {
		n.SetUseOptimized(*cfg.UseOptimized)
	}
	log.Info(context.Background(), "opencv opened",
		"version", n.Version(), "threads", n.NumThreads(), "optimized", n.UseOptimized())

	return &Library{cfg: cfg, prev: prev}, nil
}

// Config returns the configuration the library was opened with.
func (l *Library) Config() Config { return l.cfg }

// TesseractParams returns Tesseract parameters for lang using the configured
// tessdata directory.
func (l *Library) TesseractParams(lang string) text.TesseractParams {
	return text.TesseractParams{DataPath: l.cfg.TessdataDir, Language: lang}
}

// Close restores the settings active before Open. Wrappers created while the
// library was open stay valid. A second Close returns ErrLibraryClosed.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	if l.closed {
		return ErrLibraryClosed
	}
	ffi.Log().Info(context.Background(), "opencv closed")
	ffi.Configure(l.prev)
	l.closed = true
	return nil
}
