package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/resources"
)

// ObjLoader reads Wavefront .obj meshes. Only geometry is read (v, vt, vn
// and f); polygons are triangulated as fans and every object in the file is
// merged into one mesh.
type ObjLoader struct{}

func (ol *ObjLoader) Load(path string) (*resources.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mesh, err := ParseObj(name, file)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", path, err)
	}
	return &resources.Resource{
		Name:     name,
		FullPath: path,
		Type:     resources.ResourceTypeMesh,
		Data:     mesh,
	}, nil
}

// objIndex points into the position, texcoord and normal lists. Zero means
// absent.
type objIndex struct {
	position, texcoord, normal int
}

func ParseObj(name string, r io.Reader) (*resources.MeshData, error) {
	var (
		positions []math.Vec3
		texcoords []math.Vec2
		normals   []math.Vec3
	)
	mesh := &resources.MeshData{Name: name}
	seen := make(map[objIndex]uint32)
	hasNormals := true

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			positions = append(positions, math.NewVec3(v[0], v[1], v[2]))
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			texcoords = append(texcoords, math.NewVec2(v[0], v[1]))
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			normals = append(normals, math.NewVec3(v[0], v[1], v[2]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNumber)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, field := range fields[1:] {
				idx, err := parseFaceIndex(field, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
				if idx.normal == 0 {
					hasNormals = false
				}
				vertex, ok := seen[idx]
				if !ok {
					vertex = uint32(len(mesh.Vertices))
					seen[idx] = vertex
					v := math.Vertex3D{Position: positions[idx.position-1]}
					if idx.texcoord > 0 {
						v.Texcoord = texcoords[idx.texcoord-1]
					}
					if idx.normal > 0 {
						v.Normal = normals[idx.normal-1]
					}
					mesh.Vertices = append(mesh.Vertices, v)
				}
				corners = append(corners, vertex)
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.Indices = append(mesh.Indices, corners[0], corners[i], corners[i+1])
			}
		case "o", "g", "s", "usemtl", "mtllib":
			// grouping and materials come from the scene descriptor
		default:
			core.LogDebug("obj %s: skipping '%s' on line %d", name, fields[0], lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("no faces found")
	}
	if !hasNormals {
		math.GeometryGenerateNormals(mesh.Vertices, mesh.Indices)
	}
	return mesh, nil
}

func parseFloats(fields []string, count int) ([]float32, error) {
	if len(fields) < count {
		return nil, fmt.Errorf("expected %d values, got %d", count, len(fields))
	}
	out := make([]float32, count)
	for i := 0; i < count; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceIndex reads "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices
// count back from the last element read so far.
func parseFaceIndex(field string, positions, texcoords, normals int) (objIndex, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return objIndex{}, fmt.Errorf("invalid face vertex %q", field)
	}
	resolve := func(s string, count int, required bool) (int, error) {
		if s == "" {
			if required {
				return 0, fmt.Errorf("invalid face vertex %q", field)
			}
			return 0, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid face vertex %q", field)
		}
		if i < 0 {
			i = count + i + 1
		}
		if i < 1 || i > count {
			return 0, fmt.Errorf("face index %d out of range in %q", i, field)
		}
		return i, nil
	}

	var idx objIndex
	var err error
	if idx.position, err = resolve(parts[0], positions, true); err != nil {
		return objIndex{}, err
	}
	if len(parts) > 1 {
		if idx.texcoord, err = resolve(parts[1], texcoords, false); err != nil {
			return objIndex{}, err
		}
	}
	if len(parts) > 2 {
		if idx.normal, err = resolve(parts[2], normals, false); err != nil {
			return objIndex{}, err
		}
	}
	return idx, nil
}

func (ol *ObjLoader) Unload(*resources.Resource) error {
	return nil
}
