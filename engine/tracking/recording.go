package tracking

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
)

// Recording is the on-disk form of a tracking session, stored as TOML. Angles
// are in degrees. Taps are not used by the session itself, they are replayed
// by the headless platform against the same frame counter.
type Recording struct {
	FrameIntervalMS int              `toml:"frame_interval_ms"`
	Frames          []RecordingFrame `toml:"frames"`
}

type RecordingFrame struct {
	Camera  *RecordedCamera  `toml:"camera"`
	Anchors []RecordedAnchor `toml:"anchors"`
	Taps    []RecordedTap    `toml:"taps"`
}

type RecordedCamera struct {
	Position []float32 `toml:"position"`
	Rotation []float32 `toml:"rotation"`
}

type RecordedAnchor struct {
	// add, update or remove
	Op        string    `toml:"op"`
	ID        string    `toml:"id"`
	Kind      string    `toml:"kind"`
	Alignment string    `toml:"alignment"`
	Position  []float32 `toml:"position"`
	// rotation about the world up axis
	Yaw    float32   `toml:"yaw"`
	Center []float32 `toml:"center"`
	Extent []float32 `toml:"extent"`
}

// RecordedTap is a touch in viewport units: 0 to 1, origin top-left.
type RecordedTap struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
}

// Tap is a recorded touch, due once the session has applied Frame.
type Tap struct {
	Frame uint64
	Point math.Vec2
}

func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rec, err := ParseRecording(data)
	if err != nil {
		return nil, fmt.Errorf("recording %s: %w", path, err)
	}
	return rec, nil
}

func ParseRecording(data []byte) (*Recording, error) {
	rec := &Recording{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return nil, err
	}
	if rec.FrameIntervalMS < 0 {
		return nil, fmt.Errorf("frame_interval_ms must not be negative: %w", core.ErrInvalidConfig)
	}
	// Validate eagerly so a broken file fails at load, not mid-replay.
	if _, err := rec.BuildFrames(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Taps lists the recorded touches in frame order. Frame indices start at 1.
func (r *Recording) Taps() []Tap {
	var taps []Tap
	for i, f := range r.Frames {
		for _, t := range f.Taps {
			taps = append(taps, Tap{Frame: uint64(i + 1), Point: math.NewVec2(t.X, t.Y)})
		}
	}
	return taps
}

// BuildFrames converts the recording into provider frames. The camera pose
// carries over from the previous frame when a frame does not set one.
func (r *Recording) BuildFrames() ([]*Frame, error) {
	frames := make([]*Frame, 0, len(r.Frames))
	camera := CameraPose{}
	for i, rf := range r.Frames {
		f := &Frame{Index: uint64(i + 1)}
		if rf.Camera != nil {
			pos, err := vec3Field("camera.position", rf.Camera.Position, math.NewVec3Zero())
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", i+1, err)
			}
			rot, err := vec3Field("camera.rotation", rf.Camera.Rotation, math.NewVec3Zero())
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", i+1, err)
			}
			camera = CameraPose{
				Position:      pos,
				EulerRotation: math.NewVec3(math.DegToRad(rot.X), math.DegToRad(rot.Y), math.DegToRad(rot.Z)),
			}
		}
		f.Camera = camera

		for j, ra := range rf.Anchors {
			if err := ra.apply(f); err != nil {
				return nil, fmt.Errorf("frame %d anchor %d: %w", i+1, j, err)
			}
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func (ra RecordedAnchor) apply(f *Frame) error {
	if ra.ID == "" {
		return fmt.Errorf("anchor id is required: %w", core.ErrInvalidConfig)
	}
	id := AnchorIDFromName(ra.ID)

	if ra.Op == "remove" {
		f.Removed = append(f.Removed, id)
		return nil
	}

	anchor, err := ra.anchor()
	if err != nil {
		return err
	}
	switch ra.Op {
	case "add":
		f.Added = append(f.Added, anchor)
	case "update":
		f.Updated = append(f.Updated, anchor)
	default:
		return fmt.Errorf("unknown anchor op %q: %w", ra.Op, core.ErrInvalidConfig)
	}
	return nil
}

func (ra RecordedAnchor) anchor() (Anchor, error) {
	position, err := vec3Field("position", ra.Position, math.NewVec3Zero())
	if err != nil {
		return Anchor{}, err
	}
	rotation := math.NewQuatFromAxisAngle(math.NewVec3Up(), math.DegToRad(ra.Yaw), true)
	transform := rotation.ToMat4().WithTranslation(position)
	id := AnchorIDFromName(ra.ID)

	switch ra.Kind {
	case "point":
		return NewPointAnchor(id, transform), nil
	case "", "plane":
		center, err := vec3Field("center", ra.Center, math.NewVec3Zero())
		if err != nil {
			return Anchor{}, err
		}
		extent, err := vec3Field("extent", ra.Extent, math.NewVec3Zero())
		if err != nil {
			return Anchor{}, err
		}
		if extent.X < 0 || extent.Z < 0 {
			return Anchor{}, fmt.Errorf("extent must not be negative: %w", core.ErrInvalidConfig)
		}
		alignment := PlaneAlignmentHorizontal
		switch ra.Alignment {
		case "", "horizontal":
		case "vertical":
			alignment = PlaneAlignmentVertical
		default:
			return Anchor{}, fmt.Errorf("unknown alignment %q: %w", ra.Alignment, core.ErrInvalidConfig)
		}
		return NewPlaneAnchor(id, transform, PlaneData{
			Alignment: alignment,
			Center:    center,
			Extent:    extent,
		}), nil
	default:
		return Anchor{}, fmt.Errorf("unknown anchor kind %q: %w", ra.Kind, core.ErrInvalidConfig)
	}
}

func vec3Field(name string, values []float32, fallback math.Vec3) (math.Vec3, error) {
	switch len(values) {
	case 0:
		return fallback, nil
	case 3:
		return math.NewVec3(values[0], values[1], values[2]), nil
	default:
		return math.Vec3{}, fmt.Errorf("%s needs 3 values, got %d: %w", name, len(values), core.ErrInvalidConfig)
	}
}
