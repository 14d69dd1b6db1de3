package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scenegl/scene"
)

type customGroupNode struct {
	scene.Group
	extra int
}

type plainNode struct {
	scene.ObjectBase
}

func TestDispatchExactType(t *testing.T) {
	s := NewNodeFunctionSet()
	var got scene.Node
	s.Set((*scene.Group)(nil), func(r *Renderer, node scene.Node) { got = node })

	g := scene.NewGroup("g")
	s.Dispatch(nil, g)
	assert.Equal(t, scene.Node(g), got)
}

func TestDispatchEmbeddedFallback(t *testing.T) {
	s := NewNodeFunctionSet()
	calls := 0
	s.Set((*scene.Group)(nil), func(r *Renderer, node scene.Node) { calls++ })

	// A custom node embedding Group inherits the group function.
	n := &customGroupNode{extra: 1}
	s.Dispatch(nil, n)
	s.Dispatch(nil, n)
	assert.Equal(t, 2, calls)
}

func TestDispatchDerivedOverride(t *testing.T) {
	s := NewNodeFunctionSet()
	var tag string
	s.Set((*scene.Group)(nil), func(r *Renderer, node scene.Node) { tag = "group" })

	n := &customGroupNode{}
	s.Dispatch(nil, n)
	assert.Equal(t, "group", tag)

	// Registering a more specific function replaces the inherited one,
	// even after the fallback has been resolved and cached.
	s.Set((*customGroupNode)(nil), func(r *Renderer, node scene.Node) { tag = "custom" })
	s.Dispatch(nil, n)
	assert.Equal(t, "custom", tag)
}

func TestDispatchUnknownTypeIgnored(t *testing.T) {
	s := NewNodeFunctionSet()
	s.Set((*scene.Group)(nil), func(r *Renderer, node scene.Node) {
		t.Fatal("group function must not run for an unrelated node")
	})
	assert.NotPanics(t, func() {
		s.Dispatch(nil, &plainNode{})
	})
}

func TestDispatchBuiltinTableCoversNodeTypes(t *testing.T) {
	s := newNodeFunctionSet()
	r := &Renderer{}
	r.resetModelMatrixStack()
	nodes := []scene.Node{
		scene.NewGroup("g"),
		scene.NewTransform("t"),
		scene.NewSwitch("s", false),
		scene.NewUnpickableGroup("u"),
		scene.NewOverlay("o"),
		scene.NewOutlineGroup("ol"),
		scene.NewSimplifiedRenderingGroup("sr"),
	}
	for _, n := range nodes {
		// All structural handlers tolerate traversal without GL state as
		// long as the subtree is empty or switched off.
		assert.NotPanics(t, func() { s.Dispatch(r, n) }, "%T", n)
	}
}
