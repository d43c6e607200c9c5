package scene

import "github.com/spaghettifunk/planar/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

// Material describes how a geometry is shaded. Colours are straight (not
// premultiplied) RGBA in [0, 1].
type Material struct {
	Name          string
	DiffuseColour math.Vec4
	Shininess     float32
	DoubleSided   bool
}

func NewDefaultMaterial() *Material {
	return &Material{
		Name:          DefaultMaterialName,
		DiffuseColour: math.NewVec4(1, 1, 1, 1),
	}
}

// IsTranslucent reports whether the diffuse alpha lets the background through.
func (m *Material) IsTranslucent() bool {
	return m != nil && m.DiffuseColour.W < 1
}
