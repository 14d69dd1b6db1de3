package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scenegl/scene"
)

type gizmoNode struct {
	scene.Group
}

func TestAddExtensionReachesExistingRenderer(t *testing.T) {
	r := New(scene.NewScene())
	defer r.Dispose()

	applied := 0
	AddExtension(func(r *Renderer) {
		applied++
		r.SetNodeFunction((*gizmoNode)(nil), func(r *Renderer, node scene.Node) {})
	})

	r.applyNewExtensions()
	assert.Equal(t, 1, applied)

	// Extension functions run once per renderer.
	r.applyNewExtensions()
	assert.Equal(t, 1, applied)
}

func TestNewRendererReceivesEarlierExtensions(t *testing.T) {
	applied := 0
	AddExtension(func(r *Renderer) { applied++ })

	r := New(scene.NewScene())
	defer r.Dispose()
	r.applyNewExtensions()
	assert.GreaterOrEqual(t, applied, 1)
}

func TestExtensionOverridesDispatch(t *testing.T) {
	r := New(scene.NewScene())
	defer r.Dispose()

	var rendered []string
	AddExtension(func(r *Renderer) {
		r.SetNodeFunction((*gizmoNode)(nil), func(r *Renderer, node scene.Node) {
			rendered = append(rendered, node.Name())
		})
	})
	r.applyNewExtensions()

	n := &gizmoNode{}
	n.SetName("gizmo")
	r.resetModelMatrixStack()
	r.renderNode(n)
	assert.Equal(t, []string{"gizmo"}, rendered)
}
