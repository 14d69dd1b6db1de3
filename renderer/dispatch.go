package renderer

import (
	"reflect"

	"scenegl/scene"
)

// NodeFunction renders one scene graph node of a concrete type.
type NodeFunction func(r *Renderer, node scene.Node)

// NodeFunctionSet maps concrete node types to their rendering functions.
// A node type without its own entry inherits the function of an embedded
// node type, so a custom node that embeds scene.Group renders as a group
// until an extension registers something more specific. Resolutions are
// cached and the cache is invalidated whenever an entry changes.
type NodeFunctionSet struct {
	funcs    map[reflect.Type]NodeFunction
	resolved map[reflect.Type]NodeFunction
}

func NewNodeFunctionSet() *NodeFunctionSet {
	return &NodeFunctionSet{
		funcs:    make(map[reflect.Type]NodeFunction),
		resolved: make(map[reflect.Type]NodeFunction),
	}
}

// Set registers f for the concrete type of prototype, replacing any previous
// entry. prototype is only inspected for its type, typically a nil typed
// pointer such as (*scene.Group)(nil).
func (s *NodeFunctionSet) Set(prototype scene.Node, f NodeFunction) {
	s.funcs[reflect.TypeOf(prototype)] = f
	s.clearResolved()
}

func (s *NodeFunctionSet) clearResolved() {
	s.resolved = make(map[reflect.Type]NodeFunction)
}

// Dispatch runs the function registered for node's type, or the closest
// embedded type. Nodes resolving to no function are ignored.
func (s *NodeFunctionSet) Dispatch(r *Renderer, node scene.Node) {
	t := reflect.TypeOf(node)
	f, ok := s.resolved[t]
	if !ok {
		f = s.resolve(t, map[reflect.Type]bool{})
		s.resolved[t] = f
	}
	if f != nil {
		f(r, node)
	}
}

func (s *NodeFunctionSet) resolve(t reflect.Type, visiting map[reflect.Type]bool) NodeFunction {
	if f, ok := s.funcs[t]; ok {
		return f
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true

	// Walk anonymous embedded fields so derived node types fall back to the
	// behavior of their base type.
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		st := t.Elem()
		for i := 0; i < st.NumField(); i++ {
			field := st.Field(i)
			if !field.Anonymous || field.Type.Kind() != reflect.Struct {
				continue
			}
			if f := s.resolve(reflect.PointerTo(field.Type), visiting); f != nil {
				return f
			}
		}
	}
	return nil
}
