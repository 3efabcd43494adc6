// Package panel provides the zoomable image panel widget.
package panel

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/igridvu/igridvu/internal/imageload"
	"github.com/igridvu/igridvu/pkg/viewgeom"
)

// ChannelMode selects which channel a panel displays. Isolated modes
// replicate the channel value to R, G and B as a grayscale rendering.
type ChannelMode int

const (
	ModeRGB ChannelMode = iota
	ModeR
	ModeG
	ModeB
	ModeA
)

func (m ChannelMode) String() string {
	switch m {
	case ModeR:
		return "R"
	case ModeG:
		return "G"
	case ModeB:
		return "B"
	case ModeA:
		return "A"
	default:
		return "RGB"
	}
}

// Panel displays one dataset member in a pannable, zoomable viewport.
// Wheel zooms around the cursor, drag pans, and pointer movement
// reports the scene pixel under the cursor. Failed members show their
// placeholder text instead of pixels.
type Panel struct {
	widget.BaseWidget

	entry     *imageload.Entry
	transform viewgeom.ViewTransform

	// Channel isolation
	mode    ChannelMode
	derived *image.NRGBA

	// Zoom limits
	minScale float64
	maxScale float64
	zoomStep float64

	// Interaction state
	panning bool

	// Display objects
	raster     *fynecanvas.Raster
	nameBG     *fynecanvas.Rectangle
	nameText   *fynecanvas.Text
	statusText *widget.Label

	// Callbacks, fired for user-driven changes only
	onTransform func(viewgeom.ViewTransform)
	onCursor    func(sceneX, sceneY int)
	onLeave     func()
}

var _ fyne.Widget = (*Panel)(nil)
var _ fyne.Draggable = (*Panel)(nil)
var _ fyne.Scrollable = (*Panel)(nil)
var _ desktop.Hoverable = (*Panel)(nil)

// New creates a panel with the given zoom limits and wheel step.
func New(minScale, maxScale, zoomStep float64) *Panel {
	p := &Panel{
		transform: viewgeom.Identity(),
		minScale:  minScale,
		maxScale:  maxScale,
		zoomStep:  zoomStep,
	}

	p.raster = fynecanvas.NewRaster(p.draw)
	p.raster.ScaleMode = fynecanvas.ImageScalePixels

	p.nameBG = fynecanvas.NewRectangle(color.NRGBA{A: 0x8C})
	p.nameText = fynecanvas.NewText("", color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	p.nameText.TextSize = theme.TextSize()

	p.statusText = widget.NewLabel("")
	p.statusText.Alignment = fyne.TextAlignCenter
	p.statusText.Hide()

	p.ExtendBaseWidget(p)
	return p
}

// SetEntry sets the member this panel displays and resets the derived
// channel buffer. The failure placeholder is shown for unloaded entries.
func (p *Panel) SetEntry(entry *imageload.Entry) {
	p.entry = entry
	p.derived = nil
	p.rebuildDerived()

	if entry == nil {
		p.nameText.Text = ""
		p.statusText.Hide()
	} else {
		p.nameText.Text = entry.Label()
		if entry.Loaded() {
			p.statusText.Hide()
		} else {
			p.statusText.SetText(entry.CellText())
			p.statusText.Show()
		}
	}
	if p.nameText.Text == "" {
		p.nameBG.Hide()
		p.nameText.Hide()
	} else {
		p.nameBG.Show()
		p.nameText.Show()
	}
	p.Refresh()
}

// Entry returns the member this panel displays.
func (p *Panel) Entry() *imageload.Entry {
	return p.entry
}

// Transform returns the panel's current view transform.
func (p *Panel) Transform() viewgeom.ViewTransform {
	return p.transform
}

// ApplyTransform sets the view transform without firing the transform
// callback. Broadcast application uses this to avoid re-triggering.
func (p *Panel) ApplyTransform(t viewgeom.ViewTransform) {
	p.transform = t
	p.raster.Refresh()
}

// SetChannelMode switches the displayed channel and rebuilds the
// derived grayscale buffer if needed.
func (p *Panel) SetChannelMode(mode ChannelMode) {
	if p.mode == mode {
		return
	}
	p.mode = mode
	p.rebuildDerived()
	p.raster.Refresh()
}

// ChannelMode returns the panel's channel mode.
func (p *Panel) ChannelMode() ChannelMode {
	return p.mode
}

// OnTransformChanged sets a callback fired when the user zooms or pans
// this panel. Externally applied transforms do not fire it.
func (p *Panel) OnTransformChanged(callback func(viewgeom.ViewTransform)) {
	p.onTransform = callback
}

// OnCursorMoved sets a callback fired with the scene pixel under the
// pointer as it moves over the panel.
func (p *Panel) OnCursorMoved(callback func(sceneX, sceneY int)) {
	p.onCursor = callback
}

// OnMouseLeave sets a callback fired when the pointer leaves the panel.
func (p *Panel) OnMouseLeave(callback func()) {
	p.onLeave = callback
}

// Scrolled zooms around the cursor. The scene point under the pointer
// stays fixed while the scale changes one step per wheel notch.
func (p *Panel) Scrolled(ev *fyne.ScrollEvent) {
	factor := p.zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / p.zoomStep
	} else if ev.Scrolled.DY == 0 {
		return
	}

	anchor := viewgeom.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)}
	p.userTransform(p.transform.ZoomAt(anchor, factor, p.minScale, p.maxScale))
}

// Dragged pans the view by the pointer delta.
func (p *Panel) Dragged(ev *fyne.DragEvent) {
	p.panning = true
	delta := viewgeom.Point2D{X: float64(ev.Dragged.DX), Y: float64(ev.Dragged.DY)}
	p.userTransform(p.transform.Pan(delta))
}

// DragEnd exits the panning state.
func (p *Panel) DragEnd() {
	p.panning = false
}

// MouseIn implements desktop.Hoverable.
func (p *Panel) MouseIn(ev *desktop.MouseEvent) {
	p.reportCursor(ev.Position)
}

// MouseMoved reports the scene pixel under the pointer. Moves during a
// pan are handled by Dragged and not reported as cursor samples.
func (p *Panel) MouseMoved(ev *desktop.MouseEvent) {
	if p.panning {
		return
	}
	p.reportCursor(ev.Position)
}

// MouseOut implements desktop.Hoverable.
func (p *Panel) MouseOut() {
	if p.onLeave != nil {
		p.onLeave()
	}
}

// userTransform applies a user-driven transform change and notifies.
func (p *Panel) userTransform(t viewgeom.ViewTransform) {
	p.transform = t
	p.raster.Refresh()
	if p.onTransform != nil {
		p.onTransform(t)
	}
}

func (p *Panel) reportCursor(pos fyne.Position) {
	if p.onCursor == nil {
		return
	}
	sp := p.transform.ScenePixel(viewgeom.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
	p.onCursor(sp.X, sp.Y)
}

// rebuildDerived recomputes the channel-isolated buffer. ModeRGB drops
// the derived buffer and renders the original.
func (p *Panel) rebuildDerived() {
	p.derived = nil
	if p.mode == ModeRGB || p.entry == nil || !p.entry.Loaded() {
		return
	}
	p.derived = isolateChannel(p.entry.Image, p.mode)
}

// displayImage returns the buffer to render: the derived channel
// buffer when isolating, the member's pixels otherwise.
func (p *Panel) displayImage() *image.NRGBA {
	if p.derived != nil {
		return p.derived
	}
	if p.entry != nil && p.entry.Loaded() {
		return p.entry.Image
	}
	return nil
}

// isolateChannel builds a grayscale buffer with the selected channel
// replicated to R, G and B.
func isolateChannel(src *image.NRGBA, mode ChannelMode) *image.NRGBA {
	var off int
	switch mode {
	case ModeR:
		off = 0
	case ModeG:
		off = 1
	case ModeB:
		off = 2
	case ModeA:
		off = 3
	default:
		return src
	}

	out := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		v := src.Pix[i+off]
		out.Pix[i] = v
		out.Pix[i+1] = v
		out.Pix[i+2] = v
		out.Pix[i+3] = 0xFF
	}
	return out
}

// draw is the raster drawing function. Each output pixel is mapped
// back to a scene pixel through the inverse transform, nearest
// neighbor so individual pixels stay crisp when zoomed in.
func (p *Panel) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 0xFF
	}

	src := p.displayImage()
	if src == nil || w == 0 || h == 0 || p.transform.Scale <= 0 {
		return output
	}

	// The raster draws in device pixels while events arrive in Fyne
	// units; scale the transform to keep the two aligned.
	pixPerUnit := 1.0
	if size := p.Size(); size.Width > 0 {
		pixPerUnit = float64(w) / float64(size.Width)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	invScale := 1 / (p.transform.Scale * pixPerUnit)
	offX := p.transform.OffsetX * pixPerUnit
	offY := p.transform.OffsetY * pixPerUnit

	for y := 0; y < h; y++ {
		sy := (float64(y) - offY) * invScale
		if sy < 0 || sy >= float64(height) {
			continue
		}
		srcY := int(sy)
		rowOut := output.Pix[y*output.Stride:]
		rowSrc := src.Pix[srcY*src.Stride:]
		for x := 0; x < w; x++ {
			sx := (float64(x) - offX) * invScale
			if sx < 0 || sx >= float64(width) {
				continue
			}
			srcX := int(sx)
			si := srcX * 4
			di := x * 4
			rowOut[di] = rowSrc[si]
			rowOut[di+1] = rowSrc[si+1]
			rowOut[di+2] = rowSrc[si+2]
			rowOut[di+3] = 0xFF
		}
	}
	return output
}

// RenderImage renders the panel's current view at the given pixel
// size. Snapshots compose these per-panel renders into one image.
func (p *Panel) RenderImage(w, h int) image.Image {
	return p.draw(w, h)
}

// CreateRenderer implements fyne.Widget.
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	return &panelRenderer{panel: p}
}

type panelRenderer struct {
	panel *Panel
}

func (r *panelRenderer) Layout(size fyne.Size) {
	r.panel.raster.Resize(size)

	textSize := r.panel.nameText.MinSize()
	pad := theme.Padding()
	r.panel.nameBG.Move(fyne.NewPos(0, 0))
	r.panel.nameBG.Resize(fyne.NewSize(textSize.Width+2*pad, textSize.Height+pad))
	r.panel.nameText.Move(fyne.NewPos(pad, pad/2))

	statusSize := r.panel.statusText.MinSize()
	r.panel.statusText.Resize(statusSize)
	r.panel.statusText.Move(fyne.NewPos(
		(size.Width-statusSize.Width)/2,
		(size.Height-statusSize.Height)/2,
	))
}

func (r *panelRenderer) MinSize() fyne.Size {
	return fyne.NewSize(160, 120)
}

func (r *panelRenderer) Refresh() {
	r.panel.raster.Refresh()
	r.panel.nameText.Refresh()
	r.panel.statusText.Refresh()
}

func (r *panelRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{
		r.panel.raster,
		r.panel.nameBG,
		r.panel.nameText,
		r.panel.statusText,
	}
}

func (r *panelRenderer) Destroy() {}
