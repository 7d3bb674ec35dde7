package cv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/logging"
)

// validate is shared; a validator caches struct metadata.
var validate = validator.New()

// Config holds the process-wide settings applied by Open.
type Config struct {
	// NumThreads sets OpenCV's worker pool size. Zero leaves the current
	// setting alone and -1 restores OpenCV's default.
	NumThreads int `yaml:"num_threads" json:"num_threads,omitempty" validate:"min=-1,max=1024" jsonschema:"minimum=-1,maximum=1024"`

	// UseOptimized toggles SIMD and IPP code paths; nil leaves them alone.
	UseOptimized *bool `yaml:"use_optimized" json:"use_optimized,omitempty"`

	// TessdataDir is the default tessdata directory for Tesseract OCR.
	TessdataDir string `yaml:"tessdata_dir" json:"tessdata_dir,omitempty" validate:"omitempty,dir"`

	// DetectConcurrentUse logs a warning whenever a handle that is not safe
	// for concurrent use is used by two goroutines at once.
	DetectConcurrentUse bool `yaml:"detect_concurrent_use" json:"detect_concurrent_use,omitempty"`

	// LogLeaks reports wrappers released by the garbage collector instead of
	// Close at warn rather than debug level.
	LogLeaks bool `yaml:"log_leaks" json:"log_leaks,omitempty"`

	// LogLevel applies when Logger is nil.
	LogLevel string `yaml:"log_level" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`

	// Logger receives the binding layer's records. Nil logs to stderr at
	// LogLevel.
	Logger logging.Logger `yaml:"-" json:"-"`
}

// Validate checks every field. Failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return RemapError(err)
	}
	return nil
}

func (c Config) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	var level slog.Level
	if c.LogLevel != "" {
		// Validate limits LogLevel to names slog understands.
		_ = level.UnmarshalText([]byte(c.LogLevel))
	}
	return logging.New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// LoadConfig reads a YAML config file and validates it. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cv: read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigSchema returns the JSON Schema of Config, for editors and config
// linting.
func ConfigSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(&Config{})
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cv: marshal config schema: %w", err)
	}
	return out, nil
}
