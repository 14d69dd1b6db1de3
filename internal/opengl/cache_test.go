package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegl/scene"
)

type fakeResource struct {
	released  bool
	discarded bool
}

func (f *fakeResource) Release() { f.released = true }
func (f *fakeResource) Discard() { f.discarded = true }

func getFake(t *testing.T, c *ResourceCache, obj scene.Object) *fakeResource {
	t.Helper()
	res := c.GetOrCreate(obj, func() Resource { return &fakeResource{} })
	require.NotNil(t, res)
	return res.(*fakeResource)
}

func TestCacheReturnsSameResourceAcrossFrames(t *testing.T) {
	c := NewResourceCache()
	obj := scene.NewGroup("mesh")

	var first *fakeResource
	for frame := 0; frame < 3; frame++ {
		c.BeginFrame(false)
		res := getFake(t, c, obj)
		if first == nil {
			first = res
		} else {
			assert.Same(t, first, res, "frame %d", frame)
		}
		c.EndFrame()
	}
	assert.False(t, first.released)
}

func TestCacheEvictsUntraversedResource(t *testing.T) {
	c := NewResourceCache()
	used := scene.NewGroup("used")
	stale := scene.NewGroup("stale")

	c.BeginFrame(false)
	usedRes := getFake(t, c, used)
	staleRes := getFake(t, c, stale)
	c.EndFrame()

	// The stale object is not traversed this frame.
	c.BeginFrame(false)
	assert.Same(t, usedRes, getFake(t, c, used))
	c.EndFrame()

	assert.False(t, usedRes.released)
	assert.True(t, staleRes.released)

	// A later traversal builds a fresh resource.
	c.BeginFrame(false)
	assert.NotSame(t, staleRes, getFake(t, c, stale))
	c.EndFrame()
}

func TestCachePickFrameDoesNotEvict(t *testing.T) {
	c := NewResourceCache()
	obj := scene.NewGroup("mesh")

	c.BeginFrame(false)
	res := getFake(t, c, obj)
	c.EndFrame()

	// A pick pass between display frames traverses nothing extra and must
	// not sweep.
	c.BeginFrame(true)
	c.EndFrame()

	c.BeginFrame(false)
	assert.Same(t, res, getFake(t, c, obj))
	c.EndFrame()
	assert.False(t, res.released)
}

func TestCacheRequestClear(t *testing.T) {
	c := NewResourceCache()
	obj := scene.NewGroup("mesh")

	c.BeginFrame(false)
	res := getFake(t, c, obj)
	c.EndFrame()

	c.RequestClear()
	c.BeginFrame(false)
	assert.True(t, res.released)
	fresh := getFake(t, c, obj)
	assert.NotSame(t, res, fresh)
	c.EndFrame()
}

func TestCacheCheckDisabled(t *testing.T) {
	c := NewResourceCache()
	c.EnableCheck(false)
	obj := scene.NewGroup("mesh")

	c.BeginFrame(false)
	res := getFake(t, c, obj)
	c.EndFrame()

	// Several empty frames; nothing may be evicted while checking is off.
	for i := 0; i < 3; i++ {
		c.BeginFrame(false)
		c.EndFrame()
	}
	c.BeginFrame(false)
	assert.Same(t, res, getFake(t, c, obj))
	c.EndFrame()
	assert.False(t, res.released)
}

func TestCacheCheckDisabledBetweenFramesKeepsResources(t *testing.T) {
	c := NewResourceCache()
	obj := scene.NewGroup("mesh")

	c.BeginFrame(false)
	res := getFake(t, c, obj)
	c.EndFrame()

	// After a swept frame the live entries sit in the next map; disabling
	// the check must not drop them.
	c.EnableCheck(false)

	c.BeginFrame(false)
	assert.Same(t, res, getFake(t, c, obj))
	c.EndFrame()
	assert.False(t, res.released)
}

func TestCacheCheckDisabledMidFrameStopsSweep(t *testing.T) {
	c := NewResourceCache()
	used := scene.NewGroup("used")
	other := scene.NewGroup("other")

	c.BeginFrame(false)
	usedRes := getFake(t, c, used)
	otherRes := getFake(t, c, other)
	c.EndFrame()

	// Checking is turned off after only one object was traversed; the frame
	// must not evict the untraversed one.
	c.BeginFrame(false)
	assert.Same(t, usedRes, getFake(t, c, used))
	c.EnableCheck(false)
	c.EndFrame()

	assert.False(t, usedRes.released)
	assert.False(t, otherRes.released)

	c.BeginFrame(false)
	assert.Same(t, otherRes, getFake(t, c, other))
	c.EndFrame()
}

func TestCacheDiscardAll(t *testing.T) {
	c := NewResourceCache()
	obj := scene.NewGroup("mesh")

	c.BeginFrame(false)
	res := getFake(t, c, obj)
	c.EndFrame()

	c.DiscardAll()
	assert.True(t, res.discarded)
	assert.False(t, res.released)

	c.BeginFrame(false)
	assert.NotSame(t, res, getFake(t, c, obj))
	c.EndFrame()
}

func TestCacheReleaseAll(t *testing.T) {
	c := NewResourceCache()
	a := scene.NewGroup("a")
	b := scene.NewGroup("b")

	c.BeginFrame(false)
	resA := getFake(t, c, a)
	resB := getFake(t, c, b)
	c.EndFrame()

	c.ReleaseAll()
	assert.True(t, resA.released)
	assert.True(t, resB.released)
}
