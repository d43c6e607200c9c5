package scene

import (
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

/**
 * @brief Represents the configuration for a geometry: the raw vertex and
 * index data a renderer consumes.
 */
type GeometryConfig struct {
	Vertices []math.Vertex3D
	Indices  []uint32

	Center  math.Vec3
	Extents math.Extents3D

	/** @brief The Name of the geometry. */
	Name string
}

// Geometry is anything a node can draw.
type Geometry interface {
	Name() string
	// Generation is bumped every time the geometry changes shape.
	Generation() uint16
	Material() *Material
	SetMaterial(m *Material)
	// Config returns the current vertex data in the geometry's local space.
	Config() *GeometryConfig
}

// PlaneGeometry is a flat rectangle in the local x/y plane, facing +z,
// centered on the origin. Width runs along x and Height along y.
type PlaneGeometry struct {
	name           string
	width          float32
	height         float32
	widthSegments  uint32
	heightSegments uint32
	generation     uint16
	material       *Material
}

func NewPlaneGeometry(name string, width, height float32) *PlaneGeometry {
	if len(name) == 0 {
		name = DefaultGeometryName
	}
	return &PlaneGeometry{
		name:           name,
		width:          width,
		height:         height,
		widthSegments:  1,
		heightSegments: 1,
		material:       NewDefaultMaterial(),
	}
}

func (p *PlaneGeometry) Name() string            { return p.name }
func (p *PlaneGeometry) Generation() uint16      { return p.generation }
func (p *PlaneGeometry) Material() *Material     { return p.material }
func (p *PlaneGeometry) SetMaterial(m *Material) { p.material = m }
func (p *PlaneGeometry) Width() float32          { return p.width }
func (p *PlaneGeometry) Height() float32         { return p.height }

// SetSize mutates the plane in place.
func (p *PlaneGeometry) SetSize(width, height float32) {
	if p.width == width && p.height == height {
		return
	}
	p.width = width
	p.height = height
	p.generation++
}

func (p *PlaneGeometry) SetSegments(x, y uint32) {
	p.widthSegments = x
	p.heightSegments = y
	p.generation++
}

/**
 * @brief Generates the vertex configuration for the plane.
 * Zero sizes or segment counts are clamped to one, as planes with no
 * area cannot be rendered.
 */
func (p *PlaneGeometry) Config() *GeometryConfig {
	width, height := p.width, p.height
	xSegmentCount, ySegmentCount := p.widthSegments, p.heightSegments
	if width <= 0 {
		core.LogWarn("plane %s: width must be positive. Defaulting to one.", p.name)
		width = 1.0
	}
	if height <= 0 {
		core.LogWarn("plane %s: height must be positive. Defaulting to one.", p.name)
		height = 1.0
	}
	if xSegmentCount < 1 {
		xSegmentCount = 1
	}
	if ySegmentCount < 1 {
		ySegmentCount = 1
	}

	config := &GeometryConfig{
		Vertices: make([]math.Vertex3D, xSegmentCount*ySegmentCount*4), // 4 verts per segment
		Indices:  make([]uint32, xSegmentCount*ySegmentCount*6),        // 6 indices per segment
		Name:     p.name,
	}

	segWidth := width / float32(xSegmentCount)
	segHeight := height / float32(ySegmentCount)
	halfWidth := width * 0.5
	halfHeight := height * 0.5
	normal := math.NewVec3(0, 0, 1)
	for y := uint32(0); y < ySegmentCount; y++ {
		for x := uint32(0); x < xSegmentCount; x++ {
			minX := (float32(x) * segWidth) - halfWidth
			minY := (float32(y) * segHeight) - halfHeight
			maxX := minX + segWidth
			maxY := minY + segHeight
			minU := float32(x) / float32(xSegmentCount)
			minV := float32(y) / float32(ySegmentCount)
			maxU := float32(x+1) / float32(xSegmentCount)
			maxV := float32(y+1) / float32(ySegmentCount)

			vOffset := ((y * xSegmentCount) + x) * 4
			config.Vertices[vOffset+0] = math.Vertex3D{Position: math.NewVec3(minX, minY, 0), Normal: normal, Texcoord: math.NewVec2(minU, minV)}
			config.Vertices[vOffset+1] = math.Vertex3D{Position: math.NewVec3(maxX, maxY, 0), Normal: normal, Texcoord: math.NewVec2(maxU, maxV)}
			config.Vertices[vOffset+2] = math.Vertex3D{Position: math.NewVec3(minX, maxY, 0), Normal: normal, Texcoord: math.NewVec2(minU, maxV)}
			config.Vertices[vOffset+3] = math.Vertex3D{Position: math.NewVec3(maxX, minY, 0), Normal: normal, Texcoord: math.NewVec2(maxU, minV)}

			iOffset := ((y * xSegmentCount) + x) * 6
			config.Indices[iOffset+0] = vOffset + 0
			config.Indices[iOffset+1] = vOffset + 1
			config.Indices[iOffset+2] = vOffset + 2
			config.Indices[iOffset+3] = vOffset + 0
			config.Indices[iOffset+4] = vOffset + 3
			config.Indices[iOffset+5] = vOffset + 1
		}
	}

	config.Extents = math.Extents3D{
		Min: math.NewVec3(-halfWidth, -halfHeight, 0),
		Max: math.NewVec3(halfWidth, halfHeight, 0),
	}
	return config
}

// MeshGeometry is an indexed triangle list, typically loaded from a model file.
type MeshGeometry struct {
	name       string
	vertices   []math.Vertex3D
	indices    []uint32
	generation uint16
	material   *Material
}

func NewMeshGeometry(name string, vertices []math.Vertex3D, indices []uint32) *MeshGeometry {
	if len(name) == 0 {
		name = DefaultGeometryName
	}
	return &MeshGeometry{
		name:     name,
		vertices: vertices,
		indices:  indices,
		material: NewDefaultMaterial(),
	}
}

func (g *MeshGeometry) Name() string            { return g.name }
func (g *MeshGeometry) Generation() uint16      { return g.generation }
func (g *MeshGeometry) Material() *Material     { return g.material }
func (g *MeshGeometry) SetMaterial(m *Material) { g.material = m }

func (g *MeshGeometry) Config() *GeometryConfig {
	ext := math.GeometryExtents(g.vertices)
	return &GeometryConfig{
		Vertices: g.vertices,
		Indices:  g.indices,
		Extents:  ext,
		Center:   ext.Min.Add(ext.Max).MulScalar(0.5),
		Name:     g.name,
	}
}
