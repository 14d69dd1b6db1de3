package core

// Viewport is the window-space rectangle rendering is mapped onto.
type Viewport struct {
	X, Y, Width, Height int
}
