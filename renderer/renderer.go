package renderer

import (
	"fmt"
	"io"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/core"
	"scenegl/internal/opengl"
	"scenegl/scene"
)

// LightingMode selects which shading program tops the program stack.
type LightingMode int

const (
	FullLighting LightingMode = iota
	MinimumLighting
	SolidColorLighting
	NoLighting
)

// CullingMode controls back-face culling for shape rendering.
type CullingMode int

const (
	// EnableBackFaceCulling culls back faces of meshes marked solid.
	EnableBackFaceCulling CullingMode = iota
	DisableBackFaceCulling
	// ForceBackFaceCulling culls back faces of every mesh.
	ForceBackFaceCulling
)

// PolygonMode selects how the main pass rasterizes triangles.
type PolygonMode int

const (
	FillMode PolygonMode = iota
	LineMode
	PointMode
)

func (m PolygonMode) glMode() uint32 {
	switch m {
	case LineMode:
		return gl.LINE
	case PointMode:
		return gl.POINT
	default:
		return gl.FILL
	}
}

// Point sizes and line widths are widened during picking so thin primitives
// stay clickable.
const minPickPointSize = 5.0

type programState struct {
	program  opengl.Program
	lighting opengl.LightingProgram
}

type shadowPass struct {
	light *scene.Light
	pv    mgl32.Mat4
}

// lightState captures one light slot candidate for the frame, compared
// against the previous frame to skip redundant uniform uploads.
type lightState struct {
	light    *scene.Light
	position mgl32.Mat4
	shadow   bool
}

// Renderer walks a retained scene graph and issues the OpenGL calls to draw
// it: optional shadow map passes, the main pass, deferred post passes for
// outlines, a blended transparent pass, and on demand a color-id pick pass
// into an offscreen buffer.
//
// All methods must run on the thread owning the GL context.
type Renderer struct {
	scene *scene.Scene

	dispatch          *NodeFunctionSet
	pendingExtensions []func(*Renderer)

	nolightingProgram      *opengl.NolightingProgram
	solidColorProgram      *opengl.SolidColorProgram
	minimumLightingProgram *opengl.MinimumLightingProgram
	phongShadowProgram     *opengl.PhongShadowLightingProgram
	shadowMapProgram       *opengl.ShadowMapProgram

	programStack           []programState
	currentProgram         opengl.Program
	currentLightingProgram opengl.LightingProgram

	cache *opengl.ResourceCache

	viewport   core.Viewport
	defaultFBO int32

	projectionMatrix mgl32.Mat4
	viewMatrix       mgl32.Mat4
	pv               mgl32.Mat4
	cameraWorld      mgl32.Mat4
	cameraPosition   mgl32.Vec3
	modelMatrixStack []mgl32.Mat4

	renderingShadowMap bool
	actuallyRendering  bool
	picking            bool

	postRenderingFunctions        []func()
	transparentRenderingFunctions []func()
	shadowPasses                  []shadowPass

	pickNodePaths   [][]scene.Node
	currentNodePath []scene.Node
	pickIDStack     []int
	currentPickID   int
	pickedNodePath  []scene.Node
	pickedPoint     mgl32.Vec3
	pickBuffer      opengl.PickBuffer

	// Tracked GL state, reset on program switches.
	cullFaceKnown  bool
	cullFace       bool
	pointSizeKnown bool
	pointSize      float32
	lineWidthKnown bool
	lineWidth      float32

	lightingMode                LightingMode
	backFaceCullingMode         CullingMode
	polygonMode                 PolygonMode
	smoothShading               bool
	normalVisualizationLength   float32
	normalVisualizationMaterial *scene.Material
	defaultPointSize            float64
	defaultLineWidth            float64
	upsideDown                  bool
	shadowLightIndices          map[int]bool
	shadowOrthoHalfExtent       float32
	texCoordEncoding            opengl.TexCoordEncoding

	minimumLightingActivated bool
	prevFog                  *scene.Fog
	fogUpdated               bool
	fogConnection            scene.Connection

	prevLightProgram opengl.LightingProgram
	prevLights       []lightState
	prevShadowPasses []shadowPass
	lightConnections []scene.Connection
	lightsUpdated    bool

	defaultMaterial *scene.Material

	out         io.Writer
	initialized bool
}

// New creates a renderer for the given scene. InitializeGL must be called
// with the GL context current before the first frame.
func New(sc *scene.Scene) *Renderer {
	nvMaterial := scene.NewMaterial()
	nvMaterial.DiffuseColor = mgl32.Vec3{0, 1, 0}

	r := &Renderer{
		scene:                  sc,
		dispatch:               newNodeFunctionSet(),
		nolightingProgram:      opengl.NewNolightingProgram(),
		solidColorProgram:      opengl.NewSolidColorProgram(),
		minimumLightingProgram: opengl.NewMinimumLightingProgram(),
		phongShadowProgram:     opengl.NewPhongShadowLightingProgram(),
		shadowMapProgram:       opengl.NewShadowMapProgram(),
		cache:                  opengl.NewResourceCache(),

		lightingMode:                FullLighting,
		smoothShading:               true,
		defaultPointSize:            1,
		defaultLineWidth:            1,
		shadowLightIndices:          make(map[int]bool),
		shadowOrthoHalfExtent:       15,
		normalVisualizationMaterial: nvMaterial,
		defaultMaterial:             scene.NewMaterial(),

		out: io.Discard,
	}
	registerRenderer(r)
	return r
}

// Scene returns the scene the renderer draws.
func (r *Renderer) Scene() *scene.Scene { return r.scene }

// SetScene swaps the rendered scene and drops all cached GPU resources at
// the start of the next frame.
func (r *Renderer) SetScene(sc *scene.Scene) {
	r.scene = sc
	r.cache.RequestClear()
}

// InitializeGL loads the GL function pointers and compiles every shader
// program. A shader failure is fatal for the renderer.
func (r *Renderer) InitializeGL() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("initialize OpenGL: %w", err)
	}
	programs := []opengl.Program{
		r.nolightingProgram,
		r.solidColorProgram,
		r.minimumLightingProgram,
		r.phongShadowProgram,
		r.shadowMapProgram,
	}
	for _, p := range programs {
		if err := p.Initialize(); err != nil {
			return err
		}
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &r.defaultFBO)
	// Freshly linked programs hold no uniform state.
	r.prevLightProgram = nil
	r.prevFog = nil
	r.fogUpdated = true
	r.initialized = true
	r.logf("scene renderer initialized: OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))
	return nil
}

// SetViewport sets the output rectangle in window coordinates.
func (r *Renderer) SetViewport(x, y, width, height int) {
	r.viewport = core.Viewport{X: x, Y: y, Width: width, Height: height}
}

func (r *Renderer) Viewport() core.Viewport { return r.viewport }

// ── Frame rendering ───────────────────────────────────────────────────────────

// RenderFrame draws one frame of the scene into the current framebuffer.
func (r *Renderer) RenderFrame() error {
	if !r.initialized {
		return fmt.Errorf("renderer not initialized")
	}
	if r.scene == nil || r.scene.Camera == nil {
		return fmt.Errorf("no scene camera")
	}

	r.applyNewExtensions()
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &r.defaultFBO)
	r.beginRendering(false)

	var top opengl.Program
	switch r.lightingMode {
	case NoLighting:
		top = r.nolightingProgram
	case SolidColorLighting:
		top = r.solidColorProgram
	case MinimumLighting:
		top = r.minimumLightingProgram
		r.minimumLightingActivated = true
	default:
		r.renderShadowMaps()
		top = r.phongShadowProgram
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(r.defaultFBO))
	gl.Viewport(int32(r.viewport.X), int32(r.viewport.Y),
		int32(r.viewport.Width), int32(r.viewport.Height))
	r.actuallyRendering = true

	bg := r.scene.Background
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1)
	gl.PolygonMode(gl.FRONT_AND_BACK, r.polygonMode.glMode())

	r.PushProgram(top)
	r.renderScene()
	r.PopProgram()

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	r.endRendering()
	return nil
}

func (r *Renderer) beginRendering(picking bool) {
	r.picking = picking
	r.cache.BeginFrame(picking)
	r.minimumLightingActivated = false
	r.pickNodePaths = r.pickNodePaths[:0]
	r.currentNodePath = r.currentNodePath[:0]
	r.pickIDStack = r.pickIDStack[:0]
	r.currentPickID = 0
}

func (r *Renderer) endRendering() {
	r.cache.EndFrame()
	r.picking = false
}

// renderShadowMaps runs one depth pass per shadow-enabled light, up to the
// shading program's shadow capacity.
func (r *Renderer) renderShadowMaps() {
	r.shadowPasses = r.shadowPasses[:0]
	if len(r.shadowLightIndices) == 0 {
		return
	}

	r.renderingShadowMap = true
	r.actuallyRendering = false
	for i := 0; i < r.scene.NumLights(); i++ {
		if len(r.shadowPasses) >= r.phongShadowProgram.MaxNumShadows() {
			break
		}
		if !r.shadowLightIndices[i] {
			continue
		}
		light, position := r.scene.LightInfo(i)
		if !light.On {
			continue
		}
		r.renderShadowMapPass(light, position)
	}
	r.renderingShadowMap = false
}

func (r *Renderer) renderShadowMapPass(light *scene.Light, position mgl32.Mat4) {
	lightPV, ok := opengl.ShadowMapViewProjection(light, position, r.shadowOrthoHalfExtent)
	if !ok {
		return
	}
	sm := r.phongShadowProgram.ShadowMapFBO(len(r.shadowPasses))
	sm.Bind()
	gl.Viewport(0, 0, sm.Size, sm.Size)

	r.PushProgram(r.shadowMapProgram)
	r.pv = lightPV
	r.resetModelMatrixStack()
	r.shadowMapProgram.InitializeFrame()
	r.clearGLState()
	r.renderNode(r.scene.Root)
	r.PopProgram()

	r.shadowPasses = append(r.shadowPasses, shadowPass{light: light, pv: lightPV})
}

func (r *Renderer) renderScene() {
	r.renderCamera()
	r.postRenderingFunctions = r.postRenderingFunctions[:0]
	r.transparentRenderingFunctions = r.transparentRenderingFunctions[:0]

	r.renderSceneGraphNodes()

	for _, f := range r.postRenderingFunctions {
		f()
	}
	r.postRenderingFunctions = r.postRenderingFunctions[:0]

	r.renderTransparentObjects()
}

func (r *Renderer) renderCamera() {
	aspect := float32(1)
	if r.viewport.Height > 0 {
		aspect = float32(r.viewport.Width) / float32(r.viewport.Height)
	}
	r.projectionMatrix = r.scene.Camera.ProjectionMatrix(aspect)

	r.cameraWorld = r.scene.CameraPosition
	if r.upsideDown {
		r.cameraWorld = r.cameraWorld.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(180)))
	}
	r.cameraPosition = r.cameraWorld.Col(3).Vec3()
	r.viewMatrix = r.cameraWorld.Inv()
	r.pv = r.projectionMatrix.Mul4(r.viewMatrix)
	r.resetModelMatrixStack()
}

func (r *Renderer) renderSceneGraphNodes() {
	r.currentProgram.InitializeFrame()
	r.clearGLState()
	if r.currentLightingProgram != nil {
		r.renderLights(r.currentLightingProgram)
		r.renderFog(r.currentLightingProgram)
	}
	r.renderNode(r.scene.Root)
}

// renderLights pushes the light uniforms when the light set changed since
// the previous frame. Identity is tracked per light object and position, plus
// the shadow pass matrices; a light mutation signals through its update
// connection.
func (r *Renderer) renderLights(prog opengl.LightingProgram) {
	state := make([]lightState, 0, r.scene.NumLights()+1)
	for i := 0; i < r.scene.NumLights(); i++ {
		light, position := r.scene.LightInfo(i)
		state = append(state, lightState{light: light, position: position, shadow: r.shadowLightIndices[i]})
	}
	if head := r.scene.HeadLight; head != nil {
		state = append(state, lightState{light: head, position: r.cameraWorld})
	}

	if prog == r.prevLightProgram && !r.lightsUpdated &&
		lightStatesEqual(state, r.prevLights) &&
		shadowPassesEqual(r.shadowPasses, r.prevShadowPasses) {
		prog.SetCameraPosition(r.cameraPosition)
		return
	}

	r.watchLights(state)
	r.prevLightProgram = prog
	r.prevLights = state
	r.prevShadowPasses = append(r.prevShadowPasses[:0], r.shadowPasses...)
	r.lightsUpdated = false
	r.uploadLights(prog)
}

func lightStatesEqual(a, b []lightState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func shadowPassesEqual(a, b []shadowPass) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// watchLights resubscribes to the update signals of the current light set.
func (r *Renderer) watchLights(state []lightState) {
	for _, c := range r.lightConnections {
		c.Disconnect()
	}
	r.lightConnections = r.lightConnections[:0]
	for _, s := range state {
		r.lightConnections = append(r.lightConnections,
			s.light.ConnectUpdate(func() { r.lightsUpdated = true }))
	}
}

// uploadLights fills the program's light slots from the scene, then the head
// light if a slot remains, and binds shadow maps to the slots of their
// casting lights.
func (r *Renderer) uploadLights(prog opengl.LightingProgram) {
	prog.SetCameraPosition(r.cameraPosition)
	phong, isPhong := prog.(*opengl.PhongShadowLightingProgram)

	slot := 0
	for i := 0; i < r.scene.NumLights() && slot < prog.MaxNumLights(); i++ {
		light, position := r.scene.LightInfo(i)
		if !light.On {
			continue
		}
		if !prog.SetLight(slot, light, position, r.shadowLightIndices[i]) {
			continue
		}
		if isPhong {
			for si, sp := range r.shadowPasses {
				if sp.light == light {
					phong.SetShadow(si, slot, sp.pv)
				}
			}
		}
		slot++
	}

	if head := r.scene.HeadLight; head != nil && head.On && slot < prog.MaxNumLights() {
		if prog.SetLight(slot, head, r.cameraWorld, false) {
			slot++
		}
	}
	prog.SetNumLights(slot)
	if isPhong {
		phong.SetNumShadows(len(r.shadowPasses))
	}
}

// renderFog re-uploads fog parameters only when the fog object changed
// identity or notified an update.
func (r *Renderer) renderFog(prog opengl.LightingProgram) {
	fog := r.scene.Fog
	if fog != r.prevFog {
		r.fogUpdated = true
		r.fogConnection.Disconnect()
		if fog != nil {
			r.fogConnection = fog.ConnectUpdate(func() { r.fogUpdated = true })
		}
		r.prevFog = fog
	}
	if r.fogUpdated {
		prog.SetFog(fog)
		r.fogUpdated = false
	}
}

func (r *Renderer) renderTransparentObjects() {
	if len(r.transparentRenderingFunctions) == 0 {
		return
	}
	if !r.picking {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	}
	for _, f := range r.transparentRenderingFunctions {
		f()
	}
	if !r.picking {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
	r.transparentRenderingFunctions = r.transparentRenderingFunctions[:0]
}

// ── Node traversal ────────────────────────────────────────────────────────────

// RenderNode dispatches one node through the type table. Extension node
// functions use this to render child subtrees.
func (r *Renderer) RenderNode(node scene.Node) { r.renderNode(node) }

func (r *Renderer) renderNode(node scene.Node) {
	r.dispatch.Dispatch(r, node)
}

func (r *Renderer) renderChildren(g groupLike) {
	for _, child := range g.Children() {
		r.renderNode(child)
	}
}

// RenderCustomGroup renders a custom node that embeds Group with group
// semantics: a pick entry plus child traversal.
func (r *Renderer) RenderCustomGroup(node scene.Node) {
	renderGroupNode(r, node)
}

// RenderCustomTransform renders a custom node that embeds Transform,
// composing its matrix onto the model stack around the children.
func (r *Renderer) RenderCustomTransform(node scene.Node) {
	renderTransformNode(r, node)
}

// ── Program stack ─────────────────────────────────────────────────────────────

// PushProgram makes p the active program, saving the previous one.
func (r *Renderer) PushProgram(p opengl.Program) {
	r.programStack = append(r.programStack, programState{
		program:  r.currentProgram,
		lighting: r.currentLightingProgram,
	})
	r.activateProgram(p)
}

// PopProgram restores the previously active program.
func (r *Renderer) PopProgram() {
	n := len(r.programStack) - 1
	prev := r.programStack[n]
	r.programStack = r.programStack[:n]
	if prev.program != nil {
		r.activateProgram(prev.program)
	}
}

func (r *Renderer) activateProgram(p opengl.Program) {
	if p == r.currentProgram {
		return
	}
	if r.currentProgram != nil {
		r.currentProgram.Deactivate()
	}
	p.Activate()
	r.currentProgram = p
	r.currentLightingProgram, _ = p.(opengl.LightingProgram)
	r.clearGLState()
}

// clearGLState forgets the tracked fixed-function state so the next draw
// sets it explicitly.
func (r *Renderer) clearGLState() {
	r.cullFaceKnown = false
	r.pointSizeKnown = false
	r.lineWidthKnown = false
}

func (r *Renderer) setCullFace(on bool) {
	if r.cullFaceKnown && r.cullFace == on {
		return
	}
	if on {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	r.cullFace = on
	r.cullFaceKnown = true
}

func (r *Renderer) setPointSize(s float32) {
	if r.picking && s < minPickPointSize {
		s = minPickPointSize
	}
	if r.pointSizeKnown && r.pointSize == s {
		return
	}
	r.solidColorProgram.SetPointSize(s)
	r.pointSize = s
	r.pointSizeKnown = true
}

func (r *Renderer) setLineWidth(w float32) {
	if r.picking && w < minPickPointSize {
		w = minPickPointSize
	}
	if r.lineWidthKnown && r.lineWidth == w {
		return
	}
	gl.LineWidth(w)
	r.lineWidth = w
	r.lineWidthKnown = true
}

// ── Model matrix stack ────────────────────────────────────────────────────────

func (r *Renderer) resetModelMatrixStack() {
	r.modelMatrixStack = append(r.modelMatrixStack[:0], mgl32.Ident4())
}

func (r *Renderer) currentModelMatrix() mgl32.Mat4 {
	return r.modelMatrixStack[len(r.modelMatrixStack)-1]
}

func (r *Renderer) pushModelMatrix(m mgl32.Mat4) {
	r.modelMatrixStack = append(r.modelMatrixStack, m)
}

func (r *Renderer) popModelMatrix() {
	r.modelMatrixStack = r.modelMatrixStack[:len(r.modelMatrixStack)-1]
}

func (r *Renderer) drawResource(resource *opengl.VertexResource, model mgl32.Mat4) {
	r.currentProgram.SetTransform(r.pv, model, resource.LocalTransform)
	resource.Draw()
}

// ── Picking ───────────────────────────────────────────────────────────────────

// pushPickNode appends the node to the current path and allocates a pick id
// for it. Outside pick passes the id is 0, which no pick hit ever decodes
// to.
func (r *Renderer) pushPickNode(node scene.Node) int {
	if !r.picking {
		return 0
	}
	r.currentNodePath = append(r.currentNodePath, node)
	path := make([]scene.Node, len(r.currentNodePath))
	copy(path, r.currentNodePath)
	r.pickNodePaths = append(r.pickNodePaths, path)

	r.pickIDStack = append(r.pickIDStack, r.currentPickID)
	r.currentPickID = len(r.pickNodePaths)
	return r.currentPickID
}

func (r *Renderer) popPickNode() {
	if !r.picking {
		return
	}
	r.currentNodePath = r.currentNodePath[:len(r.currentNodePath)-1]
	n := len(r.pickIDStack) - 1
	r.currentPickID = r.pickIDStack[n]
	r.pickIDStack = r.pickIDStack[:n]
}

// Pick renders a one-pixel pick pass at the given viewport position (origin
// bottom-left) and reports whether a pickable node covers it. On a hit,
// PickedNodePath and PickedPoint describe the result.
func (r *Renderer) Pick(x, y int) bool {
	if !r.initialized || r.scene == nil || r.scene.Camera == nil {
		return false
	}
	r.applyNewExtensions()

	if err := r.pickBuffer.Ensure(r.viewport.Width, r.viewport.Height); err != nil {
		r.logf("pick: %v", err)
		return false
	}
	r.pickBuffer.Bind()
	gl.Viewport(int32(r.viewport.X), int32(r.viewport.Y),
		int32(r.viewport.Width), int32(r.viewport.Height))

	r.beginRendering(true)
	r.actuallyRendering = true

	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(x), int32(y), 1, 1)
	gl.ClearColor(0, 0, 0, 1)

	r.PushProgram(r.solidColorProgram)
	r.renderScene()
	r.PopProgram()

	gl.Disable(gl.SCISSOR_TEST)

	index := r.pickBuffer.ReadPickIndex(x, y)
	// Index 0 is the scene root; a pick that resolves only to the root is
	// treated as a miss.
	found := index > 0 && index < len(r.pickNodePaths)
	if found {
		r.pickedNodePath = r.pickNodePaths[index]
		depth := r.pickBuffer.ReadDepth(x, y)
		point, err := mgl32.UnProject(
			mgl32.Vec3{float32(x), float32(y), depth},
			r.viewMatrix, r.projectionMatrix,
			r.viewport.X, r.viewport.Y, r.viewport.Width, r.viewport.Height)
		if err == nil {
			r.pickedPoint = point
		}
	} else {
		r.pickedNodePath = nil
	}

	r.endRendering()
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(r.defaultFBO))
	return found
}

// PickedNodePath returns the root-to-leaf path of the last successful pick.
func (r *Renderer) PickedNodePath() []scene.Node { return r.pickedNodePath }

// PickedPoint returns the world position of the last successful pick.
func (r *Renderer) PickedPoint() mgl32.Vec3 { return r.pickedPoint }

// ── Configuration ─────────────────────────────────────────────────────────────

func (r *Renderer) SetLightingMode(m LightingMode) {
	r.lightingMode = m
}

// SetDefaultSmoothShading toggles between stored smooth normals and flat
// per-triangle normals. Cached vertex buffers are rebuilt.
func (r *Renderer) SetDefaultSmoothShading(on bool) {
	if on != r.smoothShading {
		r.smoothShading = on
		r.cache.RequestClear()
	}
}

// ShowNormalVectors draws a line of the given length along every vertex
// normal. A length of zero or less turns the visualization off.
func (r *Renderer) ShowNormalVectors(length float32) {
	if length < 0 {
		length = 0
	}
	if length != r.normalVisualizationLength {
		r.normalVisualizationLength = length
		r.cache.RequestClear()
	}
}

func (r *Renderer) SetDefaultPointSize(s float64) { r.defaultPointSize = s }
func (r *Renderer) SetDefaultLineWidth(w float64) { r.defaultLineWidth = w }
func (r *Renderer) SetBackFaceCullingMode(m CullingMode) { r.backFaceCullingMode = m }
func (r *Renderer) SetPolygonMode(m PolygonMode) { r.polygonMode = m }
func (r *Renderer) SetUpsideDown(on bool) { r.upsideDown = on }

// EnableShadowOfLight turns shadow casting on or off for the scene light at
// the given index.
func (r *Renderer) EnableShadowOfLight(index int, on bool) {
	if on {
		r.shadowLightIndices[index] = true
	} else {
		delete(r.shadowLightIndices, index)
	}
}

func (r *Renderer) ClearShadows() {
	r.shadowLightIndices = make(map[int]bool)
}

// SetShadowVolumeHalfExtent sets the orthographic half-extent of directional
// light shadow volumes.
func (r *Renderer) SetShadowVolumeHalfExtent(e float32) {
	r.shadowOrthoHalfExtent = e
}

func (r *Renderer) SetTexCoordEncoding(e opengl.TexCoordEncoding) {
	if e != r.texCoordEncoding {
		r.texCoordEncoding = e
		r.cache.RequestClear()
	}
}

// EnableUnusedResourceCheck toggles the cache sweep that evicts GPU
// resources of objects no longer reached by traversal.
func (r *Renderer) EnableUnusedResourceCheck(on bool) {
	r.cache.EnableCheck(on)
}

// RequestToClearResources drops every cached GPU resource at the start of
// the next frame.
func (r *Renderer) RequestToClearResources() {
	r.cache.RequestClear()
}

// SetOutput directs diagnostic messages. The default discards them.
func (r *Renderer) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	r.out = w
}

func (r *Renderer) logf(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Flush submits pending GL commands and rebinds the default framebuffer.
func (r *Renderer) Flush() {
	gl.Flush()
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(r.defaultFBO))
}

// ReleaseGLResources deletes all GPU objects. The context must be current.
func (r *Renderer) ReleaseGLResources() {
	r.cache.ReleaseAll()
	r.pickBuffer.Destroy()
	for _, p := range []opengl.Program{
		r.nolightingProgram,
		r.solidColorProgram,
		r.minimumLightingProgram,
		r.phongShadowProgram,
		r.shadowMapProgram,
	} {
		p.Release()
	}
	r.prevLightProgram = nil
	r.initialized = false
}

// Dispose detaches the renderer without GL calls, for when the context is
// already gone. Cached handles are forgotten, not deleted.
func (r *Renderer) Dispose() {
	r.cache.DiscardAll()
	r.fogConnection.Disconnect()
	for _, c := range r.lightConnections {
		c.Disconnect()
	}
	r.lightConnections = nil
	unregisterRenderer(r)
}
