package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/resources"
	"github.com/spaghettifunk/planar/engine/scene"
)

// MaterialLoader reads .amt files: one "key = value" per line.
type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string) (*resources.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	material, err := ParseMaterial(file)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", path, err)
	}
	return &resources.Resource{
		Name:     material.Name,
		FullPath: path,
		Type:     resources.ResourceTypeMaterial,
		Data:     material,
	}, nil
}

func ParseMaterial(r io.Reader) (*scene.Material, error) {
	scanner := bufio.NewScanner(r)
	material := &scene.Material{DiffuseColour: math.NewVec4(1, 1, 1, 1)}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		// Split key-value pairs by the first "=" sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			core.LogWarn("Skipping invalid line: %s", line)
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "name":
			material.Name = value
		case "diffuse_colour":
			colourValues := strings.Fields(value)
			if len(colourValues) != 4 {
				return nil, fmt.Errorf("invalid diffuse_colour, expected 4 values: %s", line)
			}
			var rgba [4]float32
			for i, v := range colourValues {
				f, err := strconv.ParseFloat(v, 32)
				if err != nil {
					return nil, fmt.Errorf("invalid diffuse_colour value: %s", v)
				}
				rgba[i] = float32(f)
			}
			material.DiffuseColour = math.NewVec4(rgba[0], rgba[1], rgba[2], rgba[3])
		case "shininess":
			shininess, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid shininess value: %s", value)
			}
			material.Shininess = float32(shininess)
		case "double_sided":
			doubleSided, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("invalid double_sided value: %s", value)
			}
			material.DoubleSided = doubleSided
		default:
			core.LogWarn("Unknown key '%s' found in material. Skipping...", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := validateMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

func validateMaterial(material *scene.Material) error {
	if material.Name == "" {
		return fmt.Errorf("material name is required")
	}
	// Check that DiffuseColour values are within [0.0, 1.0] range
	if !isValidVec4(material.DiffuseColour) {
		return fmt.Errorf("diffuse_colour values must be between 0.0 and 1.0")
	}
	if material.Shininess < 0 {
		return fmt.Errorf("shininess must be a non-negative value")
	}
	return nil
}

func isValidVec4(v math.Vec4) bool {
	return inRange(v.X) && inRange(v.Y) && inRange(v.Z) && inRange(v.W)
}

func inRange(value float32) bool {
	return value >= 0.0 && value <= 1.0
}

func (ml *MaterialLoader) Unload(*resources.Resource) error {
	return nil
}
