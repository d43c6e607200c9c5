package loaders

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/resources"
)

// SceneLoader reads .scn scene descriptors (TOML).
type SceneLoader struct{}

func (sl *SceneLoader) Load(path string) (*resources.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	descriptor, err := ParseSceneDescriptor(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return &resources.Resource{
		Name:     descriptor.Name,
		FullPath: path,
		Type:     resources.ResourceTypeScene,
		Data:     descriptor,
	}, nil
}

func ParseSceneDescriptor(data []byte) (*resources.SceneDescriptor, error) {
	descriptor := &resources.SceneDescriptor{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(descriptor); err != nil {
		return nil, err
	}
	if descriptor.Name == "" {
		return nil, fmt.Errorf("scene name is required: %w", core.ErrInvalidConfig)
	}
	if len(descriptor.Nodes) == 0 {
		return nil, fmt.Errorf("scene %s has no nodes: %w", descriptor.Name, core.ErrInvalidConfig)
	}
	for i := range descriptor.Nodes {
		if err := validateNode(&descriptor.Nodes[i]); err != nil {
			return nil, err
		}
	}
	return descriptor, nil
}

func validateNode(node *resources.NodeDescriptor) error {
	if node.Name == "" {
		return fmt.Errorf("node name is required: %w", core.ErrInvalidConfig)
	}
	for field, values := range map[string][]float32{
		"position": node.Position,
		"rotation": node.Rotation,
		"scale":    node.Scale,
	} {
		if len(values) != 0 && len(values) != 3 {
			return fmt.Errorf("node %s: %s needs 3 values: %w", node.Name, field, core.ErrInvalidConfig)
		}
	}
	for i := range node.Children {
		if err := validateNode(&node.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

func (sl *SceneLoader) Unload(*resources.Resource) error {
	return nil
}
