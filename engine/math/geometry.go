package math

// GeometryGenerateNormals writes a face normal into every vertex of each triangle.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		normal := edge1.Cross(edge2).Normalized()

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

// GeometryExtents returns the axis aligned bounds of the vertex positions.
func GeometryExtents(vertices []Vertex3D) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		p := v.Position
		ext.Min = Vec3{min(ext.Min.X, p.X), min(ext.Min.Y, p.Y), min(ext.Min.Z, p.Z)}
		ext.Max = Vec3{max(ext.Max.X, p.X), max(ext.Max.Y, p.Y), max(ext.Max.Z, p.Z)}
	}
	return ext
}
