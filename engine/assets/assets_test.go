package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/scene"
)

const quadObj = `
v -1 0 -1
v  1 0 -1
v  1 0  1
v -1 0  1
f 1 4 3 2
`

const grassAmt = `
name = grass
diffuse_colour = 0.2 0.6 0.2 1.0
shininess = 4.0
`

const fieldScn = `
name = "field"

[[nodes]]
name = "ground"
mesh = "meshes/quad.obj"
material = "materials/grass.amt"
scale = [2.0, 1.0, 2.0]

[[nodes.children]]
name = "mound"
mesh = "meshes/quad.obj"
position = [0.0, 0.2, 0.0]
rotation = [0.0, 90.0, 0.0]
`

func writeFile(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func newManager(t *testing.T) (*AssetManager, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "meshes/quad.obj", quadObj)
	writeFile(t, root, "materials/grass.amt", grassAmt)
	writeFile(t, root, "models/field.scn", fieldScn)
	writeFile(t, root, "README.txt", "not an asset")

	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(root))
	t.Cleanup(func() { am.Close() })
	return am, root
}

func TestAssetManager_IndexesKnownTypes(t *testing.T) {
	am, _ := newManager(t)

	var paths []string
	for _, a := range am.Assets() {
		paths = append(paths, a.Path)
	}
	assert.Equal(t, []string{"materials/grass.amt", "meshes/quad.obj", "models/field.scn"}, paths)
	assert.True(t, am.Has("./models/field.scn"))
	assert.False(t, am.Has("README.txt"))
}

func TestAssetManager_LoadScene(t *testing.T) {
	am, _ := newManager(t)

	root, err := am.LoadScene("models/field.scn")
	require.NoError(t, err)
	assert.Equal(t, "field", root.Name)
	require.Equal(t, 1, root.ChildCount())

	ground := root.FirstChild()
	assert.Equal(t, "ground", ground.Name)
	assert.Equal(t, math.NewVec3(2, 1, 2), ground.Scale())
	require.NotNil(t, ground.Geometry)
	assert.Equal(t, "grass", ground.Geometry.Material().Name)
	assert.Len(t, ground.Geometry.Config().Indices, 6)

	mound := ground.FirstChild()
	require.NotNil(t, mound)
	assert.Equal(t, math.NewVec3(0, 0.2, 0), mound.Position())
	assert.Equal(t, scene.DefaultMaterialName, mound.Geometry.Material().Name)
}

func TestAssetManager_LoadSceneReturnsIndependentCopies(t *testing.T) {
	am, _ := newManager(t)

	first, err := am.LoadScene("models/field.scn")
	require.NoError(t, err)
	second, err := am.LoadScene("models/field.scn")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	first.SetPosition(math.NewVec3(1, 0, -2))
	assert.Equal(t, math.NewVec3Zero(), second.Position())

	first.FirstChild().Geometry.Material().DiffuseColour.W = 0.5
	assert.Equal(t, float32(1), second.FirstChild().Geometry.Material().DiffuseColour.W)
}

func TestAssetManager_LoadBareMesh(t *testing.T) {
	am, _ := newManager(t)

	node, err := am.LoadScene("meshes/quad.obj")
	require.NoError(t, err)
	assert.Equal(t, "quad", node.Name)
	assert.NotNil(t, node.Geometry)
}

func TestAssetManager_Errors(t *testing.T) {
	am, root := newManager(t)

	_, err := am.LoadScene("models/missing.scn")
	assert.ErrorIs(t, err, core.ErrAssetNotFound)

	_, err = am.LoadScene("materials/grass.amt")
	assert.ErrorIs(t, err, core.ErrUnknownAssetType)

	writeFile(t, root, "models/broken.scn", "name = \"broken\"\n[[nodes]]\nname = \"a\"\nmesh = \"meshes/nope.obj\"\n")
	am.handleFileEvent(filepath.Join(root, "models", "broken.scn"))
	_, err = am.LoadScene("models/broken.scn")
	assert.ErrorIs(t, err, core.ErrAssetNotFound)
}

func TestAssetManager_PicksUpNewFiles(t *testing.T) {
	am, root := newManager(t)

	writeFile(t, root, "models/later.scn", "name = \"later\"\n[[nodes]]\nname = \"a\"\n")
	require.Eventually(t, func() bool { return am.Has("models/later.scn") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(root, "models", "later.scn")))
	require.Eventually(t, func() bool { return !am.Has("models/later.scn") }, 2*time.Second, 10*time.Millisecond)
}

func TestAssetManager_ReloadsChangedFiles(t *testing.T) {
	am, root := newManager(t)

	res, err := am.LoadAsset("materials/grass.amt")
	require.NoError(t, err)
	assert.Equal(t, "grass", res.Name)

	writeFile(t, root, "materials/grass.amt", "name = turf\n")
	require.Eventually(t, func() bool {
		res, err := am.LoadAsset("materials/grass.amt")
		return err == nil && res.Name == "turf"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAssetManager_InitializeRejectsMissingDir(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	defer am.Close()

	assert.Error(t, am.Initialize(filepath.Join(t.TempDir(), "nope")))
}

func TestAssetManager_LoadsPackagedBallpark(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(filepath.Join("..", "..", "assets")))
	defer am.Close()

	root, err := am.LoadScene("models/ballpark.scn")
	require.NoError(t, err)
	assert.Equal(t, "ballpark", root.Name)

	field := root.FirstChild()
	require.NotNil(t, field)
	assert.Equal(t, "grass", field.Geometry.Material().Name)
	// six-sided fan
	assert.Len(t, field.Geometry.Config().Indices, 12)

	var names []string
	for _, child := range field.ChildNodes() {
		names = append(names, child.Name)
		assert.Equal(t, "dirt", child.Geometry.Material().Name)
	}
	assert.Equal(t, []string{"infield", "mound"}, names)
}
