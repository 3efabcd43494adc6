package viewgeom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/igridvu/igridvu/pkg/viewgeom"
)

const tol = 1e-9

func TestViewportSceneRoundTrip(t *testing.T) {
	transforms := []struct {
		name string
		vt   viewgeom.ViewTransform
	}{
		{"identity", viewgeom.Identity()},
		{"zoomed in", viewgeom.ViewTransform{Scale: 3.5, OffsetX: 40, OffsetY: -12}},
		{"zoomed out", viewgeom.ViewTransform{Scale: 0.25, OffsetX: -100.5, OffsetY: 300.25}},
		{"deep zoom", viewgeom.ViewTransform{Scale: 9.75, OffsetX: 1e4, OffsetY: -1e4}},
	}
	points := []viewgeom.Point2D{
		{X: 0, Y: 0},
		{X: 128.5, Y: 64.25},
		{X: -33.3, Y: 700},
	}

	for _, tc := range transforms {
		t.Run(tc.name, func(t *testing.T) {
			for _, p := range points {
				back := tc.vt.SceneToViewport(tc.vt.ViewportToScene(p))
				assert.InDelta(t, p.X, back.X, tol)
				assert.InDelta(t, p.Y, back.Y, tol)

				fwd := tc.vt.ViewportToScene(tc.vt.SceneToViewport(p))
				assert.InDelta(t, p.X, fwd.X, tol)
				assert.InDelta(t, p.Y, fwd.Y, tol)
			}
		})
	}
}

func TestZoomAtHoldsAnchor(t *testing.T) {
	tests := []struct {
		name   string
		vt     viewgeom.ViewTransform
		anchor viewgeom.Point2D
		factor float64
	}{
		{"zoom in from identity", viewgeom.Identity(), viewgeom.Point2D{X: 200, Y: 150}, 1.15},
		{"zoom out", viewgeom.ViewTransform{Scale: 2, OffsetX: -50, OffsetY: 30}, viewgeom.Point2D{X: 10, Y: 10}, 1 / 1.15},
		{"repeated notches", viewgeom.ViewTransform{Scale: 0.5, OffsetX: 12, OffsetY: 12}, viewgeom.Point2D{X: 333, Y: 1}, 1.15 * 1.15 * 1.15},
		{"clamped at max", viewgeom.ViewTransform{Scale: 9.9, OffsetX: 0, OffsetY: 0}, viewgeom.Point2D{X: 100, Y: 100}, 4},
		{"clamped at min", viewgeom.ViewTransform{Scale: 0.11, OffsetX: 5, OffsetY: 5}, viewgeom.Point2D{X: 40, Y: 80}, 0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.vt.ViewportToScene(tc.anchor)
			zoomed := tc.vt.ZoomAt(tc.anchor, tc.factor, 0.1, 10)
			after := zoomed.ViewportToScene(tc.anchor)
			assert.InDelta(t, before.X, after.X, tol)
			assert.InDelta(t, before.Y, after.Y, tol)
		})
	}
}

func TestZoomAtClampsScale(t *testing.T) {
	vt := viewgeom.Identity()

	in := vt.ZoomAt(viewgeom.Point2D{}, 100, 0.1, 10)
	assert.Equal(t, 10.0, in.Scale)

	out := vt.ZoomAt(viewgeom.Point2D{}, 0.001, 0.1, 10)
	assert.Equal(t, 0.1, out.Scale)
}

func TestZoomAtRecoversFromZeroValue(t *testing.T) {
	var vt viewgeom.ViewTransform
	got := vt.ZoomAt(viewgeom.Point2D{X: 50, Y: 50}, 1.15, 0.1, 10)
	assert.Equal(t, viewgeom.Identity(), got)
}

func TestPanShiftsView(t *testing.T) {
	vt := viewgeom.ViewTransform{Scale: 2, OffsetX: 10, OffsetY: 20}
	panned := vt.Pan(viewgeom.Point2D{X: 5, Y: -7})

	assert.Equal(t, 15.0, panned.OffsetX)
	assert.Equal(t, 13.0, panned.OffsetY)
	assert.Equal(t, vt.Scale, panned.Scale)

	// The scene point under a fixed viewport position moves against the
	// drag by delta/scale.
	pt := viewgeom.Point2D{X: 100, Y: 100}
	before := vt.ViewportToScene(pt)
	after := panned.ViewportToScene(pt)
	assert.InDelta(t, before.X-2.5, after.X, tol)
	assert.InDelta(t, before.Y+3.5, after.Y, tol)
}

func TestFitSceneCenters(t *testing.T) {
	vt := viewgeom.FitScene(256, 256, 512, 512)
	assert.InDelta(t, 2.0, vt.Scale, tol)
	assert.InDelta(t, 0.0, vt.OffsetX, tol)
	assert.InDelta(t, 0.0, vt.OffsetY, tol)

	wide := viewgeom.FitScene(200, 100, 400, 400)
	assert.InDelta(t, 2.0, wide.Scale, tol)
	assert.InDelta(t, 0.0, wide.OffsetX, tol)
	assert.InDelta(t, 100.0, wide.OffsetY, tol)

	assert.Equal(t, viewgeom.Identity(), viewgeom.FitScene(0, 100, 400, 400))
}

func TestScenePixelTruncatesTowardZero(t *testing.T) {
	vt := viewgeom.ViewTransform{Scale: 2, OffsetX: 0, OffsetY: 0}

	tests := []struct {
		viewport viewgeom.Point2D
		want     viewgeom.PointInt
	}{
		{viewgeom.Point2D{X: 0, Y: 0}, viewgeom.PointInt{X: 0, Y: 0}},
		{viewgeom.Point2D{X: 5, Y: 5}, viewgeom.PointInt{X: 2, Y: 2}},
		{viewgeom.Point2D{X: 511.9, Y: 3.9}, viewgeom.PointInt{X: 255, Y: 1}},
		{viewgeom.Point2D{X: -1, Y: -3}, viewgeom.PointInt{X: 0, Y: -1}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, vt.ScenePixel(tc.viewport))
	}
}

func TestVisibleSceneRect(t *testing.T) {
	vt := viewgeom.ViewTransform{Scale: 2, OffsetX: -100, OffsetY: 50}
	r := vt.VisibleSceneRect(800, 600)

	assert.InDelta(t, 50.0, r.X, tol)
	assert.InDelta(t, -25.0, r.Y, tol)
	assert.InDelta(t, 400.0, r.Width, tol)
	assert.InDelta(t, 300.0, r.Height, tol)
	assert.True(t, r.Contains(viewgeom.Point2D{X: 100, Y: 100}))
	assert.False(t, r.Contains(viewgeom.Point2D{X: 0, Y: 0}))
}

func TestEq(t *testing.T) {
	a := viewgeom.ViewTransform{Scale: 1.5, OffsetX: 3, OffsetY: 4}
	b := viewgeom.ViewTransform{Scale: 1.5 + 1e-12, OffsetX: 3, OffsetY: 4}
	c := viewgeom.ViewTransform{Scale: 1.6, OffsetX: 3, OffsetY: 4}

	assert.True(t, a.Eq(b, 1e-9))
	assert.False(t, a.Eq(c, 1e-9))
}
