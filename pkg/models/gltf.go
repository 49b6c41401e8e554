package models

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gsingh93/game-engine/pkg/math3d"
)

// LoadGLTF loads a glTF or GLB file into a triangle Mesh. All triangle
// primitives of all meshes in the document are merged. Vertices carry
// position, UV, and normal; flat normals are computed when the file has
// none.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	hasNormals := false

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("read positions of %q: %w", gm.Name, err)
			}

			var uvs [][2]float32
			if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("read uvs of %q: %w", gm.Name, err)
				}
			}

			var normals [][3]float32
			if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = modeler.ReadNormal(doc, doc.Accessors[nIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("read normals of %q: %w", gm.Name, err)
				}
				hasNormals = true
			}

			base := len(mesh.Vertices)
			for i, p := range positions {
				v := Vertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
				if i < len(uvs) {
					// glTF V=0 is at the top; flip for bottom-left origin.
					v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
				}
				if i < len(normals) {
					v.Normal = math3d.V3(float64(normals[i][0]), float64(normals[i][1]), float64(normals[i][2]))
				}
				mesh.Vertices = append(mesh.Vertices, v)
			}

			if prim.Indices != nil {
				indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("read indices of %q: %w", gm.Name, err)
				}
				for _, idx := range indices {
					mesh.Indices = append(mesh.Indices, base+int(idx))
				}
			} else {
				for i := range positions {
					mesh.Indices = append(mesh.Indices, base+i)
				}
			}
		}
	}

	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("gltf %q: no triangle primitives", path)
	}

	if !hasNormals {
		mesh.CalculateNormals()
	}
	mesh.CalculateBounds()

	slog.Debug("loaded gltf mesh",
		"path", path,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())
	return mesh, nil
}
