package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 0.8, cfg.Gesture.OKConfidence)
	assert.Equal(t, 0.1, cfg.Gesture.OKDistance)
	assert.Equal(t, 0.2, cfg.Gesture.FistRadius)
	assert.False(t, cfg.Camera.Enabled)
	assert.Equal(t, 2, cfg.Detector.MaxHands)
	assert.True(t, cfg.Detector.Faces)
	assert.False(t, cfg.Detector.Humans)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
camera:
  enabled: true
  device_id: 2
  width: 1280
  height: 720
  fps: 10
detector:
  humans: true
gesture:
  fist_radius: 0.25
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.Camera.Enabled)
	assert.Equal(t, 2, cfg.Camera.DeviceID)
	assert.Equal(t, 10, cfg.Camera.FPS)
	assert.Equal(t, 1280, cfg.Camera.Width)
	assert.Equal(t, 720, cfg.Camera.Height)
	assert.Equal(t, 0.25, cfg.Gesture.FistRadius)
	assert.True(t, cfg.Detector.Humans)
	assert.True(t, cfg.Detector.Faces)
	// untouched keys keep their defaults
	assert.Equal(t, 0.8, cfg.Gesture.OKConfidence)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MUDRA_ADDR", "127.0.0.1:7000")
	t.Setenv("MUDRA_CAMERA_ID", "1")
	t.Setenv("MUDRA_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, `addr: ":9090"`))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
	assert.Equal(t, 1, cfg.Camera.DeviceID)
	assert.True(t, cfg.Camera.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("MUDRA_CAMERA_ID", "front")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "negative fps", body: "camera:\n  fps: -1\n"},
		{name: "tiny frame", body: "camera:\n  width: 10\n"},
		{name: "confidence above one", body: "gesture:\n  ok_confidence: 1.5\n"},
		{name: "unknown log level", body: "log:\n  level: loud\n"},
		{name: "empty addr", body: "addr: \"\"\n"},
		{name: "no hands", body: "detector:\n  max_hands: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "addr: [unterminated"))
	assert.Error(t, err)
}
