package engine

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/platform"
	"github.com/spaghettifunk/planar/engine/tracking"
)

// ApplicationConfig is read from a TOML file, see config.toml.
type ApplicationConfig struct {
	Application WindowConfig   `toml:"application"`
	Assets      AssetsConfig   `toml:"assets"`
	Session     SessionConfig  `toml:"session"`
	Platform    PlatformConfig `toml:"platform"`
	Overlay     OverlayConfig  `toml:"overlay"`
	Snapshot    SnapshotConfig `toml:"snapshot"`
}

type WindowConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position, if applicable.
	StartPosX uint32 `toml:"x"`
	StartPosY uint32 `toml:"y"`
	// Window starting size. Headless touches are scaled to it too.
	StartWidth  uint32 `toml:"width"`
	StartHeight uint32 `toml:"height"`
	LogLevel    string `toml:"log_level"`
	// Zero runs the loop as fast as it goes.
	TargetFPS      uint32 `toml:"target_fps"`
	ShowStatistics bool   `toml:"show_statistics"`
}

type AssetsConfig struct {
	Dir string `toml:"dir"`
	// Model placed on every tap, relative to Dir.
	Model string `toml:"model"`
}

type SessionConfig struct {
	PlaneDetection string `toml:"plane_detection"`
	// Recording replayed by the tracking provider.
	Recording string `toml:"recording"`
}

type PlatformConfig struct {
	Kind string `toml:"kind"`
}

type OverlayConfig struct {
	Colour []float32 `toml:"colour"`
}

type SnapshotConfig struct {
	// Empty disables the snapshot.
	Path           string  `toml:"path"`
	Width          uint32  `toml:"width"`
	Height         uint32  `toml:"height"`
	PixelsPerMeter float32 `toml:"pixels_per_meter"`
}

func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Application: WindowConfig{
			Name:        "Planar",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			LogLevel:    "info",
			TargetFPS:   60,
		},
		Assets: AssetsConfig{
			Dir:   "assets",
			Model: "models/ballpark.scn",
		},
		Session: SessionConfig{
			PlaneDetection: "horizontal",
		},
		Platform: PlatformConfig{Kind: string(platform.KindHeadless)},
		Overlay:  OverlayConfig{Colour: []float32{1, 1, 1, 0.4}},
		Snapshot: SnapshotConfig{
			Width:          800,
			Height:         800,
			PixelsPerMeter: 100,
		},
	}
}

// LoadConfig reads path over the defaults.
func LoadConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

func ParseConfig(data []byte) (*ApplicationConfig, error) {
	config := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), core.ErrInvalidConfig)
	}
	if c.Application.Name == "" {
		return invalid("application name is required")
	}
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		return invalid("application size must not be zero")
	}
	if _, err := c.LogLevel(); err != nil {
		return invalid("log level %q", c.Application.LogLevel)
	}
	if c.Assets.Dir == "" {
		return invalid("assets dir is required")
	}
	if c.Assets.Model == "" {
		return invalid("assets model is required")
	}
	if _, err := c.PlaneDetection(); err != nil {
		return err
	}
	if c.Session.Recording == "" {
		return invalid("session recording is required")
	}
	if _, err := c.PlatformKind(); err != nil {
		return err
	}
	if _, err := c.OverlayColour(); err != nil {
		return err
	}
	if c.Snapshot.Path != "" {
		if c.Snapshot.Width == 0 || c.Snapshot.Height == 0 {
			return invalid("snapshot size must not be zero")
		}
		if c.Snapshot.PixelsPerMeter <= 0 {
			return invalid("snapshot pixels_per_meter must be positive")
		}
	}
	return nil
}

func (c *ApplicationConfig) LogLevel() (core.LogLevel, error) {
	return core.ParseLogLevel(c.Application.LogLevel)
}

func (c *ApplicationConfig) PlaneDetection() (tracking.PlaneDetection, error) {
	return tracking.ParsePlaneDetection(c.Session.PlaneDetection)
}

func (c *ApplicationConfig) PlatformKind() (platform.Kind, error) {
	return platform.ParseKind(c.Platform.Kind)
}

func (c *ApplicationConfig) OverlayColour() (math.Vec4, error) {
	rgba := c.Overlay.Colour
	if len(rgba) != 4 {
		return math.Vec4{}, fmt.Errorf("overlay colour needs 4 values, got %d: %w", len(rgba), core.ErrInvalidConfig)
	}
	for _, v := range rgba {
		if v < 0 || v > 1 {
			return math.Vec4{}, fmt.Errorf("overlay colour values must be between 0.0 and 1.0: %w", core.ErrInvalidConfig)
		}
	}
	return math.NewVec4(rgba[0], rgba[1], rgba[2], rgba[3]), nil
}
