package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegl/internal/opengl"
	"scenegl/scene"
)

func newPickTestRenderer() *Renderer {
	r := &Renderer{
		cache:    opengl.NewResourceCache(),
		dispatch: newNodeFunctionSet(),
	}
	r.resetModelMatrixStack()
	r.beginRendering(true)
	return r
}

func TestPickNodePathRecording(t *testing.T) {
	r := newPickTestRenderer()

	root := scene.NewGroup("root")
	group := scene.NewGroup("group")
	shape := scene.NewShape("shape")

	rootID := r.pushPickNode(root)
	groupID := r.pushPickNode(group)
	shapeID := r.pushPickNode(shape)

	// Ids are 1-based and assigned in traversal order.
	assert.Equal(t, 1, rootID)
	assert.Equal(t, 2, groupID)
	assert.Equal(t, 3, shapeID)

	require.Len(t, r.pickNodePaths, 3)
	assert.Equal(t, []scene.Node{root}, r.pickNodePaths[0])
	assert.Equal(t, []scene.Node{root, group}, r.pickNodePaths[1])
	assert.Equal(t, []scene.Node{root, group, shape}, r.pickNodePaths[2])

	r.popPickNode()
	r.popPickNode()
	r.popPickNode()
	assert.Equal(t, 0, r.currentPickID)
	assert.Empty(t, r.currentNodePath)
}

func TestPickPathsAreIndependentCopies(t *testing.T) {
	r := newPickTestRenderer()

	root := scene.NewGroup("root")
	a := scene.NewShape("a")
	b := scene.NewShape("b")

	r.pushPickNode(root)
	r.pushPickNode(a)
	r.popPickNode()
	r.pushPickNode(b)
	r.popPickNode()
	r.popPickNode()

	// Sibling traversal must not overwrite earlier recorded paths.
	assert.Equal(t, []scene.Node{root, a}, r.pickNodePaths[1])
	assert.Equal(t, []scene.Node{root, b}, r.pickNodePaths[2])
}

// countingNode records how often its handler runs.
type countingNode struct {
	scene.ObjectBase
	visits int
}

func TestUnpickableGroupSkippedDuringPicking(t *testing.T) {
	r := newPickTestRenderer()
	r.dispatch.Set((*countingNode)(nil), func(r *Renderer, node scene.Node) {
		node.(*countingNode).visits++
	})

	leaf := &countingNode{}
	group := scene.NewUnpickableGroup("hidden")
	group.AddChild(leaf)

	// The pick pass must not reach the subtree, so its geometry can neither
	// be picked nor occlude pickable nodes behind it.
	r.renderNode(group)
	assert.Equal(t, 0, leaf.visits)
	assert.Empty(t, r.pickNodePaths)

	// A display pass renders the subtree as usual.
	r.beginRendering(false)
	r.renderNode(group)
	assert.Equal(t, 1, leaf.visits)
}

func TestSimplifiedGroupPickPathsOmitGroup(t *testing.T) {
	r := newPickTestRenderer()

	group := scene.NewSimplifiedRenderingGroup("simplified")
	child := scene.NewGroup("child")
	group.AddChild(child)

	r.renderNode(group)

	// The pick path starts at the child; the group itself is not recorded.
	require.Len(t, r.pickNodePaths, 1)
	assert.Equal(t, []scene.Node{child}, r.pickNodePaths[0])
}

func TestPickIgnoredOutsidePickPass(t *testing.T) {
	r := &Renderer{cache: opengl.NewResourceCache()}
	r.resetModelMatrixStack()
	r.beginRendering(false)

	assert.Equal(t, 0, r.pushPickNode(scene.NewGroup("root")))
	assert.Empty(t, r.pickNodePaths)
	r.popPickNode()
}

func TestBeginRenderingResetsPickState(t *testing.T) {
	r := newPickTestRenderer()
	r.pushPickNode(scene.NewGroup("root"))
	r.pushPickNode(scene.NewShape("leaf"))

	r.beginRendering(true)
	assert.Empty(t, r.pickNodePaths)
	assert.Empty(t, r.currentNodePath)
	assert.Equal(t, 0, r.currentPickID)
}
