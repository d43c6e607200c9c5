package tracking

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/planar/engine/core"
)

// PlaneDetection selects which surfaces the session reports.
type PlaneDetection uint8

const (
	PlaneDetectionOff PlaneDetection = iota
	PlaneDetectionHorizontal
	PlaneDetectionHorizontalAndVertical
)

func (p PlaneDetection) String() string {
	switch p {
	case PlaneDetectionOff:
		return "off"
	case PlaneDetectionHorizontal:
		return "horizontal"
	case PlaneDetectionHorizontalAndVertical:
		return "horizontal+vertical"
	default:
		return fmt.Sprintf("PlaneDetection(%d)", uint8(p))
	}
}

// Allows reports whether planes with the given alignment are surfaced.
func (p PlaneDetection) Allows(alignment PlaneAlignment) bool {
	switch p {
	case PlaneDetectionHorizontal:
		return alignment == PlaneAlignmentHorizontal
	case PlaneDetectionHorizontalAndVertical:
		return true
	default:
		return false
	}
}

func ParsePlaneDetection(s string) (PlaneDetection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return PlaneDetectionOff, nil
	case "horizontal":
		return PlaneDetectionHorizontal, nil
	case "horizontal+vertical", "horizontal_and_vertical", "both":
		return PlaneDetectionHorizontalAndVertical, nil
	default:
		return PlaneDetectionOff, fmt.Errorf("unknown plane detection %q: %w", s, core.ErrInvalidConfig)
	}
}

// Configuration is handed to Session.Run.
type Configuration struct {
	PlaneDetection PlaneDetection
}

// NewWorldTrackingConfiguration returns a configuration with plane detection off.
func NewWorldTrackingConfiguration() Configuration {
	return Configuration{PlaneDetection: PlaneDetectionOff}
}
