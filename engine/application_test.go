package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/platform"
	"github.com/spaghettifunk/planar/engine/tracking"
)

func TestParseConfigOverridesDefaults(t *testing.T) {
	config, err := ParseConfig([]byte(`
[application]
name = "Ballpark"
target_fps = 30

[session]
plane_detection = "both"
recording = "session.toml"

[overlay]
colour = [0.0, 1.0, 0.0, 0.5]
`))
	require.NoError(t, err)

	assert.Equal(t, "Ballpark", config.Application.Name)
	assert.Equal(t, uint32(30), config.Application.TargetFPS)
	// untouched keys keep their defaults
	assert.Equal(t, uint32(1280), config.Application.StartWidth)
	assert.Equal(t, "models/ballpark.scn", config.Assets.Model)

	detection, err := config.PlaneDetection()
	require.NoError(t, err)
	assert.Equal(t, tracking.PlaneDetectionHorizontalAndVertical, detection)

	kind, err := config.PlatformKind()
	require.NoError(t, err)
	assert.Equal(t, platform.KindHeadless, kind)

	colour, err := config.OverlayColour()
	require.NoError(t, err)
	assert.Equal(t, math.NewVec4(0, 1, 0, 0.5), colour)
}

func TestDefaultOverlayColour(t *testing.T) {
	colour, err := DefaultConfig().OverlayColour()
	require.NoError(t, err)
	assert.Equal(t, math.NewVec4(1, 1, 1, 0.4), colour)
}

func TestParseConfigRejectsUnknownKeys(t *testing.T) {
	_, err := ParseConfig([]byte(`
[session]
recording = "session.toml"
detection = "horizontal"
`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ApplicationConfig)
	}{
		{"missing recording", func(c *ApplicationConfig) { c.Session.Recording = "" }},
		{"empty name", func(c *ApplicationConfig) { c.Application.Name = "" }},
		{"zero width", func(c *ApplicationConfig) { c.Application.StartWidth = 0 }},
		{"bad log level", func(c *ApplicationConfig) { c.Application.LogLevel = "loud" }},
		{"no model", func(c *ApplicationConfig) { c.Assets.Model = "" }},
		{"bad detection", func(c *ApplicationConfig) { c.Session.PlaneDetection = "diagonal" }},
		{"bad platform", func(c *ApplicationConfig) { c.Platform.Kind = "phone" }},
		{"short colour", func(c *ApplicationConfig) { c.Overlay.Colour = []float32{1, 1, 1} }},
		{"colour out of range", func(c *ApplicationConfig) { c.Overlay.Colour = []float32{2, 1, 1, 1} }},
		{"zero snapshot", func(c *ApplicationConfig) {
			c.Snapshot.Path = "out.png"
			c.Snapshot.Width = 0
		}},
		{"zero scale", func(c *ApplicationConfig) {
			c.Snapshot.Path = "out.png"
			c.Snapshot.PixelsPerMeter = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Session.Recording = "session.toml"
			tt.mutate(config)
			assert.ErrorIs(t, config.Validate(), core.ErrInvalidConfig)
		})
	}
}

func TestLoadConfigSample(t *testing.T) {
	config, err := LoadConfig(filepath.Join("..", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "assets/recordings/ballpark.toml", config.Session.Recording)
	assert.Equal(t, "snapshot.png", config.Snapshot.Path)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
