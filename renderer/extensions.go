package renderer

import (
	"sync"

	"scenegl/scene"
)

// Extensions let applications teach every renderer about new node types
// without touching this package. An extension function typically registers
// node functions; it runs once per renderer, on that renderer's context
// thread at the start of its next frame.
var (
	extensionMutex     sync.Mutex
	extensionFunctions []func(*Renderer)
	activeRenderers    = make(map[*Renderer]bool)
)

// AddExtension registers f for all current and future renderers.
func AddExtension(f func(*Renderer)) {
	extensionMutex.Lock()
	defer extensionMutex.Unlock()
	extensionFunctions = append(extensionFunctions, f)
	for r := range activeRenderers {
		r.pendingExtensions = append(r.pendingExtensions, f)
	}
}

func registerRenderer(r *Renderer) {
	extensionMutex.Lock()
	defer extensionMutex.Unlock()
	activeRenderers[r] = true
	r.pendingExtensions = append(r.pendingExtensions, extensionFunctions...)
}

func unregisterRenderer(r *Renderer) {
	extensionMutex.Lock()
	defer extensionMutex.Unlock()
	delete(activeRenderers, r)
}

// applyNewExtensions runs queued extension functions and invalidates the
// dispatch resolution cache so new node functions take effect.
func (r *Renderer) applyNewExtensions() {
	extensionMutex.Lock()
	pending := r.pendingExtensions
	r.pendingExtensions = nil
	extensionMutex.Unlock()

	if len(pending) == 0 {
		return
	}
	for _, f := range pending {
		f(r)
	}
	r.dispatch.clearResolved()
}

// SetNodeFunction registers or replaces the rendering function for the
// concrete type of prototype.
func (r *Renderer) SetNodeFunction(prototype scene.Node, f NodeFunction) {
	r.dispatch.Set(prototype, f)
}
