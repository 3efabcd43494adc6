package viewgeom

import "math"

// ViewTransform maps scene coordinates (image pixels) to viewport
// coordinates (on-screen pixels):
//
//	viewport = scene*Scale + Offset
//
// The zero value has Scale 0 and is not usable; start from Identity.
type ViewTransform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Identity returns the transform that maps the scene 1:1 onto the viewport.
func Identity() ViewTransform {
	return ViewTransform{Scale: 1}
}

// SceneToViewport maps an image-pixel coordinate to on-screen pixels.
func (t ViewTransform) SceneToViewport(p Point2D) Point2D {
	return Point2D{
		X: p.X*t.Scale + t.OffsetX,
		Y: p.Y*t.Scale + t.OffsetY,
	}
}

// ViewportToScene maps an on-screen coordinate back to image pixels.
func (t ViewTransform) ViewportToScene(p Point2D) Point2D {
	return Point2D{
		X: (p.X - t.OffsetX) / t.Scale,
		Y: (p.Y - t.OffsetY) / t.Scale,
	}
}

// ScenePixel returns the integer image pixel under a viewport
// coordinate. Fractional scene coordinates truncate toward zero.
func (t ViewTransform) ScenePixel(p Point2D) PointInt {
	s := t.ViewportToScene(p)
	return PointInt{X: int(s.X), Y: int(s.Y)}
}

// ZoomAt rescales around a viewport anchor so the scene point under the
// anchor stays under it after the zoom. The new scale is clamped to
// [minScale, maxScale] and the offset is derived from the clamped
// value, so the anchor holds even at the limits.
func (t ViewTransform) ZoomAt(anchor Point2D, factor, minScale, maxScale float64) ViewTransform {
	if t.Scale <= 0 {
		return Identity()
	}
	scale := t.Scale * factor
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	ratio := scale / t.Scale
	return ViewTransform{
		Scale:   scale,
		OffsetX: anchor.X - (anchor.X-t.OffsetX)*ratio,
		OffsetY: anchor.Y - (anchor.Y-t.OffsetY)*ratio,
	}
}

// Pan shifts the view by a pointer delta expressed in viewport pixels.
func (t ViewTransform) Pan(delta Point2D) ViewTransform {
	t.OffsetX += delta.X
	t.OffsetY += delta.Y
	return t
}

// FitScene returns a transform that scales a sceneW x sceneH image to
// fit inside a viewport and centers it. Degenerate sizes yield Identity.
func FitScene(sceneW, sceneH, viewportW, viewportH float64) ViewTransform {
	if sceneW <= 0 || sceneH <= 0 || viewportW <= 0 || viewportH <= 0 {
		return Identity()
	}
	scale := math.Min(viewportW/sceneW, viewportH/sceneH)
	return ViewTransform{
		Scale:   scale,
		OffsetX: (viewportW - sceneW*scale) / 2,
		OffsetY: (viewportH - sceneH*scale) / 2,
	}
}

// VisibleSceneRect returns the scene-space rectangle covered by a
// viewport of the given size.
func (t ViewTransform) VisibleSceneRect(viewportW, viewportH float64) Rect {
	tl := t.ViewportToScene(Point2D{})
	br := t.ViewportToScene(Point2D{X: viewportW, Y: viewportH})
	return Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

// Eq reports whether two transforms match within tol.
func (t ViewTransform) Eq(other ViewTransform, tol float64) bool {
	return math.Abs(t.Scale-other.Scale) <= tol &&
		math.Abs(t.OffsetX-other.OffsetX) <= tol &&
		math.Abs(t.OffsetY-other.OffsetY) <= tol
}
