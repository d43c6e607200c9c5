package renderer

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/scene"
)

func overlayScene() (*scene.Scene, *scene.Node) {
	s := scene.New()
	plane := scene.NewPlaneGeometry("overlay", 1, 1)
	plane.SetMaterial(&scene.Material{Name: "overlay", DiffuseColour: math.NewVec4(1, 1, 1, 0.4)})
	overlay := scene.NewNodeWithGeometry("overlay", plane)
	overlay.SetEulerAngles(math.NewVec3(-math.K_HALF_PI, 0, 0))
	s.RootNode.AddChild(overlay)
	return s, overlay
}

func render(t *testing.T, s *scene.Scene) *SoftwareBackend {
	t.Helper()
	backend := NewSoftwareBackend()
	r := New(backend)
	require.NoError(t, r.Initialize(200, 200))
	require.NoError(t, r.DrawFrame(BuildPacket(s, 0.016)))
	return backend
}

func TestBuildPacket_CollectsGeometryNodes(t *testing.T) {
	s, overlay := overlayScene()
	anchor := scene.NewNode("anchor")
	anchor.SetPosition(math.NewVec3(2, 0, 0))
	s.RootNode.AddChild(anchor)
	anchor.AddChild(overlay)

	packet := BuildPacket(s, 0.5)
	require.Len(t, packet.Geometries, 1)
	assert.Equal(t, 0.5, packet.DeltaTime)
	assert.True(t, packet.Geometries[0].Model.Translation().Compare(math.NewVec3(2, 0, 0), 1e-6))

	assert.Empty(t, BuildPacket(nil, 0).Geometries)
}

func TestSoftwareBackend_BlendsTranslucentOverlay(t *testing.T) {
	s, _ := overlayScene()
	img := render(t, s).Image()

	// off the diagonal shared by the two triangles
	center := img.NRGBAAt(120, 120)
	assert.InDelta(t, 116, int(center.R), 3)
	assert.Equal(t, uint8(255), center.A)

	// the plane is 1m wide, 100px, so 80px off center is background
	assert.Equal(t, backgroundColour, img.NRGBAAt(100, 20))
	assert.Equal(t, backgroundColour, img.NRGBAAt(20, 100))
}

func TestSoftwareBackend_HigherSurfacesDrawOnTop(t *testing.T) {
	s, _ := overlayScene()
	box := scene.NewPlaneGeometry("table", 0.4, 0.4)
	box.SetMaterial(&scene.Material{Name: "red", DiffuseColour: math.NewVec4(1, 0, 0, 1)})
	table := scene.NewNodeWithGeometry("table", box)
	table.SetEulerAngles(math.NewVec3(-math.K_HALF_PI, 0, 0))
	table.SetPosition(math.NewVec3(0, 0.7, 0))
	s.RootNode.AddChild(table)

	img := render(t, s).Image()
	center := img.NRGBAAt(110, 110)
	assert.Equal(t, uint8(255), center.R)
	assert.Equal(t, uint8(0), center.G)
}

func TestSoftwareBackend_ProjectsTopDown(t *testing.T) {
	backend := NewSoftwareBackend()
	require.NoError(t, backend.Initialize(200, 100))

	x, y := backend.Project(math.NewVec3(1, 5, -0.5))
	assert.Equal(t, float32(200), x)
	assert.Equal(t, float32(0), y)

	backend.Center = math.NewVec3(1, 0, -0.5)
	x, y = backend.Project(math.NewVec3(1, 0, -0.5))
	assert.Equal(t, float32(100), x)
	assert.Equal(t, float32(50), y)
}

func TestSoftwareBackend_WritePNG(t *testing.T) {
	s, _ := overlayScene()
	backend := render(t, s)

	path := filepath.Join(t.TempDir(), "snapshot.png")
	require.NoError(t, backend.WritePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestSoftwareBackend_RejectsEmptySize(t *testing.T) {
	assert.Error(t, NewSoftwareBackend().Initialize(0, 10))
	assert.Error(t, NewSoftwareBackend().BeginFrame(0))
	assert.Error(t, NewSoftwareBackend().WritePNG(filepath.Join(t.TempDir(), "x.png")))
}
