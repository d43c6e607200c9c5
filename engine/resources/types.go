package resources

import "github.com/spaghettifunk/planar/engine/math"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Files the asset manager does not know how to load. */
	ResourceTypeNone ResourceType = iota
	/** @brief Scene descriptor: a tree of nodes referencing meshes and materials. */
	ResourceTypeScene
	/** @brief Mesh resource type (a single indexed triangle list). */
	ResourceTypeMesh
	/** @brief Material resource type. */
	ResourceTypeMaterial
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeScene:
		return "scene"
	case ResourceTypeMesh:
		return "mesh"
	case ResourceTypeMaterial:
		return "material"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/**
	 * @brief The resource data: *MeshData, *SceneDescriptor or
	 * *scene.Material depending on Type.
	 */
	Data interface{}
}

/**
 * @brief Raw geometry as read from a model file, shared by every node
 * instantiated from it. Treat as read-only.
 */
type MeshData struct {
	Name     string
	Vertices []math.Vertex3D
	Indices  []uint32
}

// SceneDescriptor is the TOML form of a model scene.
type SceneDescriptor struct {
	Name  string           `toml:"name"`
	Nodes []NodeDescriptor `toml:"nodes"`
}

// NodeDescriptor describes one node. Mesh and Material are paths relative
// to the assets directory. Rotation is in degrees, applied x, y, z.
type NodeDescriptor struct {
	Name     string           `toml:"name"`
	Position []float32        `toml:"position"`
	Rotation []float32        `toml:"rotation"`
	Scale    []float32        `toml:"scale"`
	Mesh     string           `toml:"mesh"`
	Material string           `toml:"material"`
	Children []NodeDescriptor `toml:"children"`
}
