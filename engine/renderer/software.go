package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"sort"

	"golang.org/x/image/vector"

	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/scene"
)

// DefaultPixelsPerMeter frames roughly a 6m square in a 600px image.
const DefaultPixelsPerMeter float32 = 100

var backgroundColour = color.NRGBA{R: 24, G: 26, B: 32, A: 255}

type triangle struct {
	points [3]math.Vec3
	colour color.NRGBA
	height float32
}

/**
 * @brief Rasterizes geometries seen from straight above with an
 * orthographic projection: world x runs right, world -z runs up the image,
 * and Center lands in the middle of it. Triangles are drawn lowest first
 * so higher surfaces cover lower ones.
 */
type SoftwareBackend struct {
	Center         math.Vec3
	PixelsPerMeter float32

	width, height int
	rasterizer    *vector.Rasterizer
	frame         *image.NRGBA
	pending       []triangle
}

func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{PixelsPerMeter: DefaultPixelsPerMeter}
}

func (b *SoftwareBackend) Initialize(width, height uint32) error {
	return b.Resized(width, height)
}

func (b *SoftwareBackend) Resized(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid snapshot size %dx%d", width, height)
	}
	b.width, b.height = int(width), int(height)
	b.rasterizer = vector.NewRasterizer(b.width, b.height)
	b.frame = image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	return nil
}

func (b *SoftwareBackend) Shutdown() error {
	b.pending = nil
	return nil
}

func (b *SoftwareBackend) BeginFrame(deltaTime float64) error {
	if b.frame == nil {
		return errors.New("software backend is not initialized")
	}
	b.pending = b.pending[:0]
	return nil
}

func (b *SoftwareBackend) DrawGeometry(data *GeometryRenderData) {
	config := data.Geometry.Config()
	material := data.Geometry.Material()
	if material == nil {
		material = scene.NewDefaultMaterial()
	}
	colour := shade(material.DiffuseColour)

	for i := 0; i+2 < len(config.Indices); i += 3 {
		var t triangle
		for k := 0; k < 3; k++ {
			t.points[k] = config.Vertices[config.Indices[i+k]].Position.Transform(data.Model)
		}
		t.height = (t.points[0].Y + t.points[1].Y + t.points[2].Y) / 3
		normal := t.points[1].Sub(t.points[0]).Cross(t.points[2].Sub(t.points[0])).Normalized()
		t.colour = light(colour, normal)
		b.pending = append(b.pending, t)
	}
}

func (b *SoftwareBackend) EndFrame(deltaTime float64) error {
	draw.Draw(b.frame, b.frame.Bounds(), image.NewUniform(backgroundColour), image.Point{}, draw.Src)

	sort.SliceStable(b.pending, func(i, j int) bool {
		return b.pending[i].height < b.pending[j].height
	})
	for _, t := range b.pending {
		b.rasterizer.Reset(b.width, b.height)
		b.rasterizer.DrawOp = draw.Over
		x, y := b.project(t.points[0])
		b.rasterizer.MoveTo(x, y)
		x, y = b.project(t.points[1])
		b.rasterizer.LineTo(x, y)
		x, y = b.project(t.points[2])
		b.rasterizer.LineTo(x, y)
		b.rasterizer.ClosePath()
		b.rasterizer.Draw(b.frame, b.frame.Bounds(), image.NewUniform(t.colour), image.Point{})
	}
	return nil
}

// Image returns the last finished frame.
func (b *SoftwareBackend) Image() *image.NRGBA {
	return b.frame
}

// WritePNG stores the last finished frame.
func (b *SoftwareBackend) WritePNG(path string) error {
	if b.frame == nil {
		return errors.New("no frame rendered")
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, b.frame); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Project maps a world position to image coordinates.
func (b *SoftwareBackend) Project(p math.Vec3) (float32, float32) {
	return b.project(p)
}

func (b *SoftwareBackend) project(p math.Vec3) (float32, float32) {
	x := float32(b.width)*0.5 + (p.X-b.Center.X)*b.PixelsPerMeter
	y := float32(b.height)*0.5 + (p.Z-b.Center.Z)*b.PixelsPerMeter
	return x, y
}

func shade(c math.Vec4) color.NRGBA {
	return color.NRGBA{
		R: channel(c.X),
		G: channel(c.Y),
		B: channel(c.Z),
		A: channel(c.W),
	}
}

// light darkens surfaces that face away from the viewer above. Faces seen
// edge on keep a little colour so they stay visible.
func light(c color.NRGBA, normal math.Vec3) color.NRGBA {
	factor := math.Clamp(0.35+0.65*abs32(normal.Y), 0, 1)
	c.R = uint8(float32(c.R)*factor + 0.5)
	c.G = uint8(float32(c.G)*factor + 0.5)
	c.B = uint8(float32(c.B)*factor + 0.5)
	return c
}

func channel(v float32) uint8 {
	return uint8(math.Clamp(v, 0, 1)*255 + 0.5)
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
