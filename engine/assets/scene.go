package assets

import (
	"fmt"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/resources"
	"github.com/spaghettifunk/planar/engine/scene"
)

// LoadScene instantiates a model as a fresh node tree and returns its root.
// Scene descriptors (.scn) and bare meshes (.obj) are accepted. Every call
// returns an independent copy; only the vertex data is shared.
func (am *AssetManager) LoadScene(path string) (*scene.Node, error) {
	resource, err := am.LoadAsset(path)
	if err != nil {
		return nil, err
	}

	switch data := resource.Data.(type) {
	case *resources.SceneDescriptor:
		root := scene.NewNode(data.Name)
		for _, nd := range data.Nodes {
			node, err := am.instantiate(nd)
			if err != nil {
				return nil, fmt.Errorf("scene %s: %w", path, err)
			}
			root.AddChild(node)
		}
		return root, nil
	case *resources.MeshData:
		node := scene.NewNodeWithGeometry(data.Name, scene.NewMeshGeometry(data.Name, data.Vertices, data.Indices))
		return node, nil
	default:
		return nil, fmt.Errorf("%s is a %s, not a scene: %w", path, resource.Type, core.ErrUnknownAssetType)
	}
}

func (am *AssetManager) instantiate(nd resources.NodeDescriptor) (*scene.Node, error) {
	node := scene.NewNode(nd.Name)
	if len(nd.Position) == 3 {
		node.SetPosition(math.NewVec3(nd.Position[0], nd.Position[1], nd.Position[2]))
	}
	if len(nd.Rotation) == 3 {
		node.SetEulerAngles(math.NewVec3(
			math.DegToRad(nd.Rotation[0]),
			math.DegToRad(nd.Rotation[1]),
			math.DegToRad(nd.Rotation[2]),
		))
	}
	if len(nd.Scale) == 3 {
		node.SetScale(math.NewVec3(nd.Scale[0], nd.Scale[1], nd.Scale[2]))
	}

	if nd.Mesh != "" {
		resource, err := am.LoadAsset(nd.Mesh)
		if err != nil {
			return nil, err
		}
		mesh, ok := resource.Data.(*resources.MeshData)
		if !ok {
			return nil, fmt.Errorf("node %s: %s is not a mesh: %w", nd.Name, nd.Mesh, core.ErrUnknownAssetType)
		}
		node.Geometry = scene.NewMeshGeometry(mesh.Name, mesh.Vertices, mesh.Indices)
	}
	if nd.Material != "" {
		if node.Geometry == nil {
			return nil, fmt.Errorf("node %s has a material but no mesh: %w", nd.Name, core.ErrInvalidConfig)
		}
		resource, err := am.LoadAsset(nd.Material)
		if err != nil {
			return nil, err
		}
		material, ok := resource.Data.(*scene.Material)
		if !ok {
			return nil, fmt.Errorf("node %s: %s is not a material: %w", nd.Name, nd.Material, core.ErrUnknownAssetType)
		}
		instance := *material
		node.Geometry.SetMaterial(&instance)
	}

	for _, child := range nd.Children {
		c, err := am.instantiate(child)
		if err != nil {
			return nil, err
		}
		node.AddChild(c)
	}
	return node, nil
}
