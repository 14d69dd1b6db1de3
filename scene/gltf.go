package scene

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF opens a .glb or .gltf file and returns a scene subtree of
// Transform nodes with Shape leaves. PBR metallic-roughness materials are
// approximated to Phong.
func LoadGLTF(path string) (*Group, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	texCache := make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img, err := loadGLTFImage(doc, dir, *gt.Source)
		if err != nil {
			continue
		}
		tex := NewTexture()
		tex.SetName(img.Name())
		tex.Image = img
		texCache[i] = tex
	}

	matCache := make([]*Material, len(doc.Materials))
	texByMat := make([]*Texture, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := NewMaterial()
		mat.SetName(gm.Name)
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.DiffuseColor = mgl32.Vec3{float32(cf[0]), float32(cf[1]), float32(cf[2])}
			mat.Transparency = 1 - float32(cf[3])
			roughness := float32(pbr.RoughnessFactorOrDefault())
			mat.Shininess = (1 - roughness) * (1 - roughness)
			metallic := float32(pbr.MetallicFactorOrDefault())
			s := 0.1 + 0.6*metallic
			mat.SpecularColor = mgl32.Vec3{s, s, s}
			if pbr.BaseColorTexture != nil {
				idx := int(pbr.BaseColorTexture.Index)
				if idx < len(texCache) {
					texByMat[i] = texCache[idx]
				}
			}
		}
		matCache[i] = mat
	}

	meshShapes := make([][]*Shape, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			mesh, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				continue
			}
			shape := NewShape(mesh.Name())
			shape.Mesh = mesh
			if prim.Material != nil && int(*prim.Material) < len(matCache) {
				shape.Material = matCache[*prim.Material]
				shape.Texture = texByMat[*prim.Material]
			}
			meshShapes[mi] = append(meshShapes[mi], shape)
		}
	}

	nodes := make([]*Transform, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := NewTransform(name)
		t := gn.TranslationOrDefault()
		n.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
		r := gn.RotationOrDefault() // x, y, z, w
		n.Rotation = mgl32.Quat{
			W: float32(r[3]),
			V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
		}
		sc := gn.ScaleOrDefault()
		n.Scale = mgl32.Vec3{float32(sc[0]), float32(sc[1]), float32(sc[2])}

		if gn.Mesh != nil && int(*gn.Mesh) < len(meshShapes) {
			for _, s := range meshShapes[*gn.Mesh] {
				n.AddChild(s)
			}
		}
		nodes[i] = n
	}
	for i, gn := range doc.Nodes {
		for _, ci := range gn.Children {
			nodes[i].AddChild(nodes[ci])
		}
	}

	root := NewGroup(filepath.Base(path))
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil {
			si = int(*doc.Scene)
		}
		for _, ni := range doc.Scenes[si].Nodes {
			root.AddChild(nodes[ni])
		}
	} else {
		for _, n := range nodes {
			root.AddChild(n)
		}
	}
	return root, nil
}

func loadGLTFImage(doc *gltf.Document, dir string, source int) (*Image, error) {
	img := doc.Images[source]
	name := img.Name
	if name == "" {
		name = fmt.Sprintf("gltf_img_%d", source)
	}
	if img.BufferView != nil {
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("gltf image %d: %w", source, err)
		}
		decoded, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gltf image %d: %w", source, err)
		}
		return imageFromGo(name, decoded), nil
	}
	if img.URI != "" && !img.IsEmbeddedResource() {
		return LoadImage(filepath.Join(dir, img.URI))
	}
	return nil, fmt.Errorf("gltf image %d: no usable source", source)
}

func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIndex int, prim *gltf.Primitive) (*Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no positions")
	}

	mesh := NewMesh(fmt.Sprintf("%s_%d", meshName, primIndex))

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	mesh.Vertices = make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		mesh.Vertices[i] = mgl32.Vec3{p[0], p[1], p[2]}
	}

	if ni, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[ni], nil)
		if err == nil {
			mesh.Normals = make([]mgl32.Vec3, len(normals))
			for i, n := range normals {
				mesh.Normals[i] = mgl32.Vec3{n[0], n[1], n[2]}
			}
		}
	}

	if ti, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[ti], nil)
		if err == nil {
			mesh.TexCoords = make([]mgl32.Vec2, len(uvs))
			for i, uv := range uvs {
				mesh.TexCoords[i] = mgl32.Vec2{uv[0], uv[1]}
			}
		}
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		mesh.TriangleVertices = make([]int32, len(indices))
		for i, idx := range indices {
			mesh.TriangleVertices[i] = int32(idx)
		}
	} else {
		mesh.TriangleVertices = make([]int32, len(positions))
		for i := range mesh.TriangleVertices {
			mesh.TriangleVertices[i] = int32(i)
		}
	}

	mesh.Solid = true
	return mesh, nil
}
