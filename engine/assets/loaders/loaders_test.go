package loaders

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/resources"
)

func TestParseObj_TriangulatesAndShares(t *testing.T) {
	src := `
# a unit quad
o quad
v 0 0 0
v 1 0 0
v 1 0 -1
v 0 0 -1
vt 0 0
vt 1 1
vn 0 1 0
f 1/1/1 2/2/1 3/2/1 4/1/1
`
	mesh, err := ParseObj("quad", strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Equal(t, math.NewVec3Up(), mesh.Vertices[0].Normal)
	assert.Equal(t, math.NewVec2(1, 1), mesh.Vertices[1].Texcoord)
}

func TestParseObj_NegativeIndicesAndGeneratedNormals(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	mesh, err := ParseObj("tri", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, mesh.Vertices, 3)
	for _, v := range mesh.Vertices {
		assert.True(t, v.Normal.Compare(math.NewVec3(0, 0, 1), 1e-6))
	}
}

func TestParseObj_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"no faces":      "v 0 0 0\n",
		"out of range":  "v 0 0 0\nv 1 0 0\nf 1 2 3\n",
		"short face":    "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad number":    "v 0 zero 0\n",
		"bad reference": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/a 2 3\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseObj(name, strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestParseMaterial(t *testing.T) {
	src := `
# outfield
name = outfield
diffuse_colour = 0.1 0.5 0.1 0.9
shininess = 12
double_sided = true
shader = Builtin.MaterialShader
`
	m, err := ParseMaterial(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "outfield", m.Name)
	assert.Equal(t, math.NewVec4(0.1, 0.5, 0.1, 0.9), m.DiffuseColour)
	assert.Equal(t, float32(12), m.Shininess)
	assert.True(t, m.DoubleSided)
	assert.True(t, m.IsTranslucent())
}

func TestParseMaterial_Validation(t *testing.T) {
	for name, src := range map[string]string{
		"no name":       "shininess = 1\n",
		"colour range":  "name = a\ndiffuse_colour = 2 0 0 1\n",
		"colour count":  "name = a\ndiffuse_colour = 1 0 0\n",
		"shininess":     "name = a\nshininess = -1\n",
		"bad bool":      "name = a\ndouble_sided = maybe\n",
		"bad shininess": "name = a\nshininess = shiny\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMaterial(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestParseSceneDescriptor(t *testing.T) {
	src := `
name = "ballpark"

[[nodes]]
name = "field"
mesh = "models/field.obj"
rotation = [0.0, 45.0, 0.0]

[[nodes.children]]
name = "mound"
position = [0.0, 0.1, 0.0]
`
	d, err := ParseSceneDescriptor([]byte(src))
	require.NoError(t, err)

	want := &resources.SceneDescriptor{
		Name: "ballpark",
		Nodes: []resources.NodeDescriptor{{
			Name:     "field",
			Mesh:     "models/field.obj",
			Rotation: []float32{0, 45, 0},
			Children: []resources.NodeDescriptor{{
				Name:     "mound",
				Position: []float32{0, 0.1, 0},
			}},
		}},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSceneDescriptor_Validation(t *testing.T) {
	for name, src := range map[string]string{
		"no name":       "[[nodes]]\nname = \"a\"\n",
		"no nodes":      "name = \"s\"\n",
		"unnamed node":  "name = \"s\"\n[[nodes]]\nmesh = \"a.obj\"\n",
		"short vector":  "name = \"s\"\n[[nodes]]\nname = \"a\"\nscale = [1.0]\n",
		"unknown field": "name = \"s\"\ncolour = 1\n[[nodes]]\nname = \"a\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSceneDescriptor([]byte(src))
			assert.Error(t, err)
		})
	}

	_, err := ParseSceneDescriptor([]byte("name = \"s\"\n"))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}
