package scene

// Object is the shared identity of every element that can live in the scene
// graph or be referenced by one (meshes, materials, images). The renderer
// keys its GPU resource cache on Object identity and subscribes to the
// update signal to invalidate cached buffers.
type Object interface {
	Name() string
	SetName(name string)
	ConnectUpdate(f func()) Connection
	NotifyUpdate()
}

// Connection is a handle for one update subscription. Disconnect is safe to
// call more than once. Connections never own the object they observe.
type Connection struct {
	owner *ObjectBase
	id    int
}

func (c Connection) Disconnect() {
	if c.owner != nil {
		delete(c.owner.listeners, c.id)
	}
}

// ObjectBase implements Object and is embedded by every scene element.
type ObjectBase struct {
	name      string
	listeners map[int]func()
	nextID    int
}

func (o *ObjectBase) Name() string { return o.name }
func (o *ObjectBase) SetName(name string) { o.name = name }

// ConnectUpdate registers f to run whenever NotifyUpdate is called.
func (o *ObjectBase) ConnectUpdate(f func()) Connection {
	if o.listeners == nil {
		o.listeners = make(map[int]func())
	}
	o.nextID++
	o.listeners[o.nextID] = f
	return Connection{owner: o, id: o.nextID}
}

// NotifyUpdate reports that the object's contents changed. The owner of the
// scene graph calls this after mutating geometry or image data so cached GPU
// resources are re-encoded on next use.
func (o *ObjectBase) NotifyUpdate() {
	for _, f := range o.listeners {
		f()
	}
}
