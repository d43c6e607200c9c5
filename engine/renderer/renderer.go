// Package renderer draws the scene graph. The only backend is a software
// rasterizer producing a top-down image of the scene, which is enough to
// inspect a session without a GPU.
package renderer

import (
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/scene"
)

type RendererBackend interface {
	Initialize(width, height uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	DrawGeometry(data *GeometryRenderData)
	EndFrame(deltaTime float64) error
}

// GeometryRenderData is one geometry with its world transform.
type GeometryRenderData struct {
	Model    math.Mat4
	Geometry scene.Geometry
}

type RenderPacket struct {
	DeltaTime  float64
	Geometries []*GeometryRenderData
}

type Renderer struct {
	backend RendererBackend
}

func New(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(width, height uint32) error {
	return r.backend.Initialize(width, height)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) error {
	return r.backend.Resized(width, height)
}

func (r *Renderer) DrawFrame(renderPacket *RenderPacket) error {
	if err := r.backend.BeginFrame(renderPacket.DeltaTime); err != nil {
		core.LogError(err.Error())
		return err
	}
	for _, g := range renderPacket.Geometries {
		r.backend.DrawGeometry(g)
	}
	if err := r.backend.EndFrame(renderPacket.DeltaTime); err != nil {
		core.LogError("renderer EndFrame failed: %s", err)
		return err
	}
	return nil
}

// BuildPacket collects every node with a geometry.
func BuildPacket(s *scene.Scene, deltaTime float64) *RenderPacket {
	packet := &RenderPacket{DeltaTime: deltaTime}
	if s == nil {
		return packet
	}
	s.RootNode.Walk(func(n *scene.Node) bool {
		if n.Geometry != nil {
			packet.Geometries = append(packet.Geometries, &GeometryRenderData{
				Model:    n.WorldTransform(),
				Geometry: n.Geometry,
			})
		}
		return true
	})
	return packet
}
