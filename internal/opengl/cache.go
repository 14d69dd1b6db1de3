package opengl

import (
	"scenegl/scene"
)

// ResourceCache maps scene objects to their GPU resources with two
// alternating maps. While unused-resource checking is on, every resource
// touched during a frame is copied into the next map; at frame end the
// entries left only in the current map are the ones no traversal reached,
// and they are released. The next map then becomes current on the following
// frame.
//
// Picking frames reuse resources but never sweep, so a pick between two
// display frames cannot evict anything.
type ResourceCache struct {
	maps         [2]map[scene.Object]Resource
	current      int
	checkEnabled bool

	checking       bool
	hasValidNext   bool
	clearRequested bool
}

func NewResourceCache() *ResourceCache {
	c := &ResourceCache{checkEnabled: true}
	c.maps[0] = make(map[scene.Object]Resource)
	c.maps[1] = make(map[scene.Object]Resource)
	return c
}

// RequestClear schedules a full release of all cached resources at the start
// of the next frame, when the GL context is known to be current.
func (c *ResourceCache) RequestClear() {
	c.clearRequested = true
}

// EnableCheck toggles unused-resource sweeping. Turning it off keeps every
// live entry: after a swept frame the live entries sit in the next map, so
// that map is promoted to current before the other is dropped. A sweep
// already marking this frame is abandoned.
func (c *ResourceCache) EnableCheck(on bool) {
	if !on {
		if c.hasValidNext {
			c.current = 1 - c.current
			c.hasValidNext = false
		}
		c.maps[1-c.current] = make(map[scene.Object]Resource)
		c.checking = false
	}
	c.checkEnabled = on
}

// BeginFrame prepares the cache for one traversal.
func (c *ResourceCache) BeginFrame(picking bool) {
	c.checking = !picking && c.checkEnabled

	if c.clearRequested {
		for i := range c.maps {
			for _, res := range c.maps[i] {
				res.Release()
			}
			c.maps[i] = make(map[scene.Object]Resource)
		}
		c.hasValidNext = false
		c.clearRequested = false
		// Everything was just recreated; nothing to sweep this frame.
		c.checking = false
	}

	if c.hasValidNext {
		c.current = 1 - c.current
		c.hasValidNext = false
	}
}

// GetOrCreate returns the resource cached for obj, building it with create
// on a miss. While checking, the entry is also recorded in the next map to
// mark it as used this frame.
func (c *ResourceCache) GetOrCreate(obj scene.Object, create func() Resource) Resource {
	cur := c.maps[c.current]
	res, ok := cur[obj]
	if !ok {
		res = create()
		cur[obj] = res
	}
	if c.checking {
		c.maps[1-c.current][obj] = res
	}
	return res
}

// EndFrame sweeps the resources no traversal touched and promotes the next
// map for the following frame.
func (c *ResourceCache) EndFrame() {
	if !c.checking {
		return
	}
	cur := c.maps[c.current]
	next := c.maps[1-c.current]
	for obj, res := range cur {
		if _, kept := next[obj]; !kept {
			res.Release()
		}
	}
	c.maps[c.current] = make(map[scene.Object]Resource)
	c.hasValidNext = true
}

// DiscardAll forgets every cached handle without GL calls, for use after the
// context has been destroyed.
func (c *ResourceCache) DiscardAll() {
	for i := range c.maps {
		seen := make(map[Resource]bool)
		for _, res := range c.maps[i] {
			if !seen[res] {
				res.Discard()
				seen[res] = true
			}
		}
		c.maps[i] = make(map[scene.Object]Resource)
	}
	c.hasValidNext = false
}

// ReleaseAll deletes every cached GPU object. The context must be current.
func (c *ResourceCache) ReleaseAll() {
	released := make(map[Resource]bool)
	for i := range c.maps {
		for _, res := range c.maps[i] {
			if !released[res] {
				res.Release()
				released[res] = true
			}
		}
		c.maps[i] = make(map[scene.Object]Resource)
	}
	c.hasValidNext = false
}
