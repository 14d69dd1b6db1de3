package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/core"
	"scenegl/renderer"
	"scenegl/scene"
)

func buildScene() *scene.Scene {
	sc := scene.NewScene()

	// Ground plane.
	ground := scene.NewShape("Ground")
	ground.Mesh = scene.CreateBox(20, 0.1, 20)
	ground.Material = scene.NewMaterial()
	ground.Material.DiffuseColor = mgl32.Vec3{0.45, 0.5, 0.45}
	groundT := scene.NewTransform("GroundT")
	groundT.Position = mgl32.Vec3{0, -0.05, 0}
	groundT.AddChild(ground)
	sc.AddNode(groundT)

	// A ring of boxes, one of them outlined.
	for i := 0; i < 6; i++ {
		shape := scene.NewShape(fmt.Sprintf("Box%d", i))
		shape.Mesh = scene.CreateBox(1, 1, 1)
		shape.Material = scene.NewMaterial()
		shape.Material.DiffuseColor = mgl32.Vec3{
			0.3 + 0.1*float32(i), 0.4, 0.9 - 0.1*float32(i),
		}
		t := scene.NewTransform(fmt.Sprintf("BoxT%d", i))
		angle := float64(i) / 6 * 2 * math.Pi
		t.Position = mgl32.Vec3{4 * float32(math.Cos(angle)), 0.5, 4 * float32(math.Sin(angle))}
		t.AddChild(shape)

		if i == 0 {
			outline := scene.NewOutlineGroup("Highlight")
			outline.AddChild(t)
			sc.AddNode(outline)
		} else {
			sc.AddNode(t)
		}
	}

	// A transparent box in the center.
	glass := scene.NewShape("Glass")
	glass.Mesh = scene.CreateBox(1.5, 1.5, 1.5)
	glass.Material = scene.NewMaterial()
	glass.Material.DiffuseColor = mgl32.Vec3{0.4, 0.8, 0.9}
	glass.Material.Transparency = 0.5
	glassT := scene.NewTransform("GlassT")
	glassT.Position = mgl32.Vec3{0, 0.75, 0}
	glassT.AddChild(glass)
	sc.AddNode(glassT)

	// A line grid overlayed on the ground.
	grid := scene.NewLineSet("Grid")
	for i := -5; i <= 5; i++ {
		f := float32(i)
		n := int32(len(grid.Vertices))
		grid.Vertices = append(grid.Vertices,
			mgl32.Vec3{f, 0.01, -5}, mgl32.Vec3{f, 0.01, 5},
			mgl32.Vec3{-5, 0.01, f}, mgl32.Vec3{5, 0.01, f})
		grid.AddLine(n, n+1)
		grid.AddLine(n+2, n+3)
	}
	grid.Material = scene.NewMaterial()
	grid.Material.DiffuseColor = mgl32.Vec3{0.2, 0.2, 0.2}
	unpickable := scene.NewUnpickableGroup("GridGroup")
	unpickable.AddChild(grid)
	sc.AddNode(unpickable)

	// Sun with shadows enabled via the renderer.
	sun := scene.NewLight(scene.DirectionalLight)
	sun.Intensity = 0.9
	sunPos := scene.LookAt(mgl32.Vec3{8, 12, 8}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	sc.AddLight(sun, sunPos)

	camera := scene.NewPerspectiveCamera()
	sc.Camera = camera
	sc.CameraPosition = scene.LookAt(
		mgl32.Vec3{7, 5, 7}, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1, 0})

	return sc
}

func main() {
	window, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer window.Destroy()

	sc := buildScene()
	r := renderer.New(sc)
	defer r.Dispose()
	r.SetOutput(os.Stderr)

	if err := r.InitializeGL(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	r.EnableShadowOfLight(0, true)

	wasPressed := false
	for !window.ShouldClose() {
		w, h := window.GetFramebufferSize()
		r.SetViewport(0, 0, w, h)

		pressed := window.IsMouseButtonPressed(glfw.MouseButtonLeft)
		if pressed && !wasPressed {
			x, y := window.GetCursorPos()
			// Cursor coordinates have their origin at the top left.
			if r.Pick(int(x), h-int(y)) {
				path := r.PickedNodePath()
				leaf := path[len(path)-1]
				fmt.Printf("picked %q at %v\n", leaf.Name(), r.PickedPoint())
			} else {
				fmt.Println("picked nothing")
			}
		}
		wasPressed = pressed

		if err := r.RenderFrame(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			break
		}
		window.SwapBuffers()
		window.PollEvents()
	}
}
