package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/internal/opengl"
	"scenegl/scene"
)

// The handlers assert against interfaces instead of concrete types so a
// custom node embedding one of the built-in node types dispatches here and
// still renders correctly.
type groupLike interface {
	scene.Node
	Children() []scene.Node
}

type transformLike interface {
	groupLike
	Matrix() mgl32.Mat4
}

// newNodeFunctionSet wires the built-in node types to their handlers.
func newNodeFunctionSet() *NodeFunctionSet {
	s := NewNodeFunctionSet()
	s.Set((*scene.Group)(nil), renderGroupNode)
	s.Set((*scene.Transform)(nil), renderTransformNode)
	s.Set((*scene.Switch)(nil), renderSwitchNode)
	s.Set((*scene.UnpickableGroup)(nil), renderUnpickableGroupNode)
	s.Set((*scene.Shape)(nil), renderShapeNode)
	s.Set((*scene.PointSet)(nil), renderPointSetNode)
	s.Set((*scene.LineSet)(nil), renderLineSetNode)
	s.Set((*scene.Overlay)(nil), renderOverlayNode)
	s.Set((*scene.OutlineGroup)(nil), renderOutlineGroupNode)
	s.Set((*scene.SimplifiedRenderingGroup)(nil), renderSimplifiedRenderingGroupNode)
	return s
}

// ── Structural nodes ──────────────────────────────────────────────────────────

func renderGroupNode(r *Renderer, node scene.Node) {
	g, ok := node.(groupLike)
	if !ok {
		return
	}
	r.pushPickNode(node)
	r.renderChildren(g)
	r.popPickNode()
}

func renderTransformNode(r *Renderer, node scene.Node) {
	t, ok := node.(transformLike)
	if !ok {
		return
	}
	r.pushPickNode(node)
	r.pushModelMatrix(r.currentModelMatrix().Mul4(t.Matrix()))
	r.renderChildren(t)
	r.popModelMatrix()
	r.popPickNode()
}

func renderSwitchNode(r *Renderer, node scene.Node) {
	s, ok := node.(interface {
		groupLike
		IsTurnedOn() bool
	})
	if !ok || !s.IsTurnedOn() {
		return
	}
	r.pushPickNode(node)
	r.renderChildren(s)
	r.popPickNode()
}

// renderUnpickableGroupNode skips the whole subtree during pick passes so
// unpickable geometry never writes into the pick buffer and cannot occlude
// pickable nodes behind it.
func renderUnpickableGroupNode(r *Renderer, node scene.Node) {
	g, ok := node.(groupLike)
	if !ok || r.picking {
		return
	}
	r.renderChildren(g)
}

// ── Shapes ────────────────────────────────────────────────────────────────────

func renderShapeNode(r *Renderer, node scene.Node) {
	shape, ok := node.(*scene.Shape)
	if !ok {
		return
	}
	mesh := shape.Mesh
	if mesh == nil || !mesh.HasVertices() || mesh.NumTriangles() == 0 {
		return
	}

	pickID := r.pushPickNode(node)
	if !r.renderingShadowMap && shape.Material != nil && shape.Material.Transparency > 0 {
		// Transparent shapes are deferred to the blended pass, with the
		// model matrix and pick id captured at traversal time.
		model := r.currentModelMatrix()
		r.transparentRenderingFunctions = append(r.transparentRenderingFunctions, func() {
			r.renderShapeMain(shape, model, pickID)
		})
	} else {
		r.renderShapeMain(shape, r.currentModelMatrix(), pickID)
	}
	r.popPickNode()
}

func (r *Renderer) renderShapeMain(shape *scene.Shape, model mgl32.Mat4, pickID int) {
	mesh := shape.Mesh
	material := shape.Material
	if material == nil {
		material = r.defaultMaterial
	}

	if r.picking {
		r.solidColorProgram.SetColor(opengl.EncodePickColor(pickID))
	} else if !r.renderingShadowMap {
		r.currentProgram.SetMaterial(material)
		if phong, ok := r.currentProgram.(*opengl.PhongShadowLightingProgram); ok {
			textured := false
			if shape.Texture != nil && mesh.HasTexCoords() {
				textured = r.renderTexture(shape.Texture)
			}
			phong.SetTextureEnabled(textured)
			phong.SetVertexColorEnabled(mesh.HasColors())
		}
		if sc, ok := r.currentProgram.(*opengl.SolidColorProgram); ok {
			sc.EnableColorArray(mesh.HasColors())
		}
	}

	resource := r.cache.GetOrCreate(mesh, func() opengl.Resource {
		return opengl.NewVertexResource(mesh)
	}).(*opengl.VertexResource)
	if !resource.IsValid() {
		opengl.WriteMeshVertices(resource, mesh, shape.Texture, r.smoothShading, r.texCoordEncoding)
	}

	cull := false
	switch r.backFaceCullingMode {
	case EnableBackFaceCulling:
		cull = mesh.Solid
	case ForceBackFaceCulling:
		cull = true
	}
	r.setCullFace(cull)

	r.drawResource(resource, model)

	if r.normalVisualizationLength > 0 && r.actuallyRendering && !r.picking && !r.renderingShadowMap {
		r.renderNormalVisualization(resource, mesh, model)
	}
}

// renderTexture makes the shape's texture current, uploading or refreshing
// the GPU copy when needed. Reports whether a usable texture is bound.
func (r *Renderer) renderTexture(tex *scene.Texture) bool {
	if tex.Image == nil || tex.Image.Empty() {
		return false
	}
	resource := r.cache.GetOrCreate(tex, func() opengl.Resource {
		return opengl.NewTextureResource(tex.Image)
	}).(*opengl.TextureResource)

	if !resource.Loaded || resource.ImageUpdateNeeded {
		if err := opengl.LoadTexture(resource, tex); err != nil {
			r.logf("texture upload: %v", err)
			return false
		}
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, resource.TextureID)
	gl.BindSampler(0, resource.SamplerID)
	return true
}

func (r *Renderer) renderNormalVisualization(resource *opengl.VertexResource, mesh *scene.Mesh, model mgl32.Mat4) {
	if resource.NormalVisualization == nil {
		normals := opengl.ResolveNormals(mesh, r.smoothShading)
		if normals == nil {
			return
		}
		resource.NormalVisualization = opengl.BuildNormalVisualization(
			mesh, normals, r.normalVisualizationLength, r.normalVisualizationMaterial)
		if resource.NormalVisualizationResource != nil {
			resource.NormalVisualizationResource.Release()
			resource.NormalVisualizationResource = nil
		}
	}
	lineSet := resource.NormalVisualization
	if resource.NormalVisualizationResource == nil {
		resource.NormalVisualizationResource = opengl.NewVertexResource(lineSet)
	}
	r.PushProgram(r.solidColorProgram)
	r.setLineWidth(float32(r.defaultLineWidth))
	r.drawPlot(&lineSet.Plot, resource.NormalVisualizationResource, gl.LINES,
		func() []mgl32.Vec3 { return opengl.LineSetVertices(lineSet) }, model, 0)
	r.PopProgram()
}

// ── Plots ─────────────────────────────────────────────────────────────────────

func renderPointSetNode(r *Renderer, node scene.Node) {
	ps, ok := node.(*scene.PointSet)
	if !ok || !ps.HasVertices() {
		return
	}
	if r.renderingShadowMap {
		return
	}
	r.PushProgram(r.solidColorProgram)
	size := float32(ps.PointSize)
	if size <= 0 {
		size = float32(r.defaultPointSize)
	}
	r.setPointSize(size)
	r.renderPlot(node, &ps.Plot, gl.POINTS, func() []mgl32.Vec3 { return ps.Vertices })
	r.PopProgram()
}

func renderLineSetNode(r *Renderer, node scene.Node) {
	ls, ok := node.(*scene.LineSet)
	if !ok || !ls.HasVertices() || ls.NumLines() == 0 {
		return
	}
	if r.renderingShadowMap {
		return
	}
	r.PushProgram(r.solidColorProgram)
	width := float32(ls.LineWidth)
	if width <= 0 {
		width = float32(r.defaultLineWidth)
	}
	r.setLineWidth(width)
	r.renderPlot(node, &ls.Plot, gl.LINES, func() []mgl32.Vec3 { return opengl.LineSetVertices(ls) })
	r.PopProgram()
}

func (r *Renderer) renderPlot(node scene.Node, plot *scene.Plot, mode uint32, getVertices func() []mgl32.Vec3) {
	pickID := r.pushPickNode(node)

	resource := r.cache.GetOrCreate(node, func() opengl.Resource {
		return opengl.NewVertexResource(node)
	}).(*opengl.VertexResource)

	r.drawPlot(plot, resource, mode, getVertices, r.currentModelMatrix(), pickID)
	r.popPickNode()
}

func (r *Renderer) drawPlot(plot *scene.Plot, resource *opengl.VertexResource, mode uint32, getVertices func() []mgl32.Vec3, model mgl32.Mat4, pickID int) {
	hasColors := plot.HasColors()

	if r.picking {
		r.solidColorProgram.SetColor(opengl.EncodePickColor(pickID))
	} else if hasColors {
		r.solidColorProgram.EnableColorArray(true)
	} else {
		material := plot.Material
		if material == nil {
			material = r.defaultMaterial
		}
		r.solidColorProgram.SetMaterial(material)
	}

	if !resource.IsValid() {
		vertices := getVertices()
		var colors []uint8
		if hasColors {
			colors = opengl.ResolvePlotColors(plot, len(vertices))
		}
		opengl.WritePlotVertices(resource, vertices, colors, mode)
	}
	r.drawResource(resource, model)
}

// ── Deferred-pass groups ──────────────────────────────────────────────────────

func renderOverlayNode(r *Renderer, node scene.Node) {
	overlay, ok := node.(*scene.Overlay)
	if !ok || !r.actuallyRendering || r.renderingShadowMap {
		return
	}

	r.PushProgram(r.solidColorProgram)
	savedPV := r.pv
	r.pushModelMatrix(mgl32.Ident4())

	vv := overlay.CalcViewVolume(r.viewport.Width, r.viewport.Height)
	r.pv = mgl32.Ortho(vv.Left, vv.Right, vv.Bottom, vv.Top, vv.ZNear, vv.ZFar)

	r.pushPickNode(node)
	r.renderChildren(overlay)
	r.popPickNode()

	r.pv = savedPV
	r.popModelMatrix()
	r.PopProgram()
}

func renderOutlineGroupNode(r *Renderer, node scene.Node) {
	outline, ok := node.(*scene.OutlineGroup)
	if !ok {
		return
	}
	if r.renderingShadowMap || r.picking {
		// Shadow casting and pick ids come from the subtree itself; the
		// stroke only exists in the visible image.
		renderGroupNode(r, node)
		return
	}
	model := r.currentModelMatrix()
	r.postRenderingFunctions = append(r.postRenderingFunctions, func() {
		r.renderOutlineGroupMain(outline, model)
	})
}

func (r *Renderer) renderOutlineGroupMain(outline *scene.OutlineGroup, model mgl32.Mat4) {
	r.pushModelMatrix(model)

	// First pass marks the subtree's pixels in the stencil buffer.
	gl.ClearStencil(0)
	gl.Clear(gl.STENCIL_BUFFER_BIT)
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilFunc(gl.ALWAYS, 1, 0xff)
	gl.StencilOp(gl.KEEP, gl.REPLACE, gl.REPLACE)
	r.renderChildren(outline)

	// Second pass draws fat wireframe everywhere the stencil is clear,
	// leaving only the silhouette ring.
	gl.StencilFunc(gl.NOTEQUAL, 1, 0xff)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
	r.setLineWidth(outline.LineWidth*2 + 1)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)

	r.PushProgram(r.solidColorProgram)
	r.solidColorProgram.SetColor(outline.Color)
	r.solidColorProgram.SetColorChangeable(false)
	gl.Disable(gl.DEPTH_TEST)
	r.renderChildren(outline)
	gl.Enable(gl.DEPTH_TEST)
	r.solidColorProgram.SetColorChangeable(true)
	r.PopProgram()

	gl.PolygonMode(gl.FRONT_AND_BACK, r.polygonMode.glMode())
	gl.Disable(gl.STENCIL_TEST)
	r.popModelMatrix()
}

func renderSimplifiedRenderingGroupNode(r *Renderer, node scene.Node) {
	g, ok := node.(groupLike)
	if !ok {
		return
	}
	// Outside the lit main pass the children render directly; pick paths
	// name only the nodes below the group.
	if r.renderingShadowMap || r.picking || r.currentLightingProgram == nil {
		r.renderChildren(g)
		return
	}

	r.PushProgram(r.minimumLightingProgram)
	if !r.minimumLightingActivated {
		r.uploadLights(r.minimumLightingProgram)
		r.minimumLightingActivated = true
	}
	r.pushPickNode(node)
	r.renderChildren(g)
	r.popPickNode()
	r.PopProgram()
}
