package cv_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv"
)

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     cv.Config
		wantErr bool
	}{
		{name: "zero value", cfg: cv.Config{}},
		{name: "full", cfg: cv.Config{NumThreads: 4, TessdataDir: dir, LogLevel: "debug", LogLeaks: true}},
		{name: "default threads", cfg: cv.Config{NumThreads: -1}},
		{name: "negative threads", cfg: cv.Config{NumThreads: -2}, wantErr: true},
		{name: "too many threads", cfg: cv.Config{NumThreads: 5000}, wantErr: true},
		{name: "unknown level", cfg: cv.Config{LogLevel: "verbose"}, wantErr: true},
		{name: "missing tessdata", cfg: cv.Config{TessdataDir: filepath.Join(dir, "nope")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, cv.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"num_threads: 2\nuse_optimized: false\ntessdata_dir: "+dir+"\nlog_level: warn\ndetect_concurrent_use: true\n"), 0o600))

	cfg, err := cv.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.NumThreads)
	require.NotNil(t, cfg.UseOptimized)
	assert.False(t, *cfg.UseOptimized)
	assert.Equal(t, dir, cfg.TessdataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.DetectConcurrentUse)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cfg, err := cv.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cv.Config{}, cfg)
}

func TestLoadConfigRejects(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"unknown key":   "num_threadz: 2\n",
		"wrong type":    "num_threads: many\n",
		"out of range":  "num_threads: 4096\n",
		"bad log level": "log_level: loud\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := cv.LoadConfig(path)
			require.ErrorIs(t, err, cv.ErrInvalidConfig)
		})
	}

	_, err := cv.LoadConfig(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, cv.ErrInvalidConfig)
}

func TestConfigSchema(t *testing.T) {
	out, err := cv.ConfigSchema()
	require.NoError(t, err)

	var schema struct {
		Properties map[string]struct {
			Type    string   `json:"type"`
			Minimum *float64 `json:"minimum"`
			Enum    []string `json:"enum"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(out, &schema))

	assert.Contains(t, schema.Properties, "num_threads")
	assert.Contains(t, schema.Properties, "tessdata_dir")
	assert.NotContains(t, schema.Properties, "Logger")
	require.NotNil(t, schema.Properties["num_threads"].Minimum)
	assert.Equal(t, float64(-1), *schema.Properties["num_threads"].Minimum)
	assert.Equal(t, []string{"debug", "info", "warn", "error"}, schema.Properties["log_level"].Enum)
}
