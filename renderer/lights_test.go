package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"scenegl/scene"
)

func TestLightStateComparison(t *testing.T) {
	sun := scene.NewLight(scene.DirectionalLight)
	lamp := scene.NewLight(scene.PointLight)

	a := []lightState{
		{light: sun, position: mgl32.Ident4(), shadow: true},
		{light: lamp, position: mgl32.Translate3D(1, 2, 3)},
	}
	b := []lightState{
		{light: sun, position: mgl32.Ident4(), shadow: true},
		{light: lamp, position: mgl32.Translate3D(1, 2, 3)},
	}
	assert.True(t, lightStatesEqual(a, b))

	// A moved light forces a re-upload.
	b[1].position = mgl32.Translate3D(1, 2, 4)
	assert.False(t, lightStatesEqual(a, b))

	// A different light object does too, even with equal parameters.
	b[1] = lightState{light: scene.NewLight(scene.PointLight), position: mgl32.Translate3D(1, 2, 3)}
	assert.False(t, lightStatesEqual(a, b))

	assert.False(t, lightStatesEqual(a, a[:1]))
	assert.True(t, lightStatesEqual(nil, nil))
}

func TestShadowPassComparison(t *testing.T) {
	sun := scene.NewLight(scene.DirectionalLight)
	a := []shadowPass{{light: sun, pv: mgl32.Ident4()}}
	b := []shadowPass{{light: sun, pv: mgl32.Ident4()}}
	assert.True(t, shadowPassesEqual(a, b))

	b[0].pv = mgl32.Translate3D(0, 1, 0)
	assert.False(t, shadowPassesEqual(a, b))
	assert.False(t, shadowPassesEqual(a, nil))
}

func TestWatchLightsSignalsUpdate(t *testing.T) {
	r := &Renderer{}
	sun := scene.NewLight(scene.DirectionalLight)

	r.watchLights([]lightState{{light: sun}})
	assert.False(t, r.lightsUpdated)

	sun.NotifyUpdate()
	assert.True(t, r.lightsUpdated)

	// Resubscribing drops the old connection.
	r.lightsUpdated = false
	lamp := scene.NewLight(scene.PointLight)
	r.watchLights([]lightState{{light: lamp}})

	sun.NotifyUpdate()
	assert.False(t, r.lightsUpdated)
	lamp.NotifyUpdate()
	assert.True(t, r.lightsUpdated)
}
