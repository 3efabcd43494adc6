// Package grid builds the panel grid and keeps the panels synchronized.
package grid

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"github.com/igridvu/igridvu/internal/app"
	"github.com/igridvu/igridvu/internal/errs"
	"github.com/igridvu/igridvu/pkg/viewgeom"
	"github.com/igridvu/igridvu/ui/panel"
)

// Fallback cell size for snapshots taken before layout has run.
const (
	snapshotCellWidth  = 320
	snapshotCellHeight = 240
)

// Grid owns one panel per dataset member and keeps their view
// transforms equal. A user-driven change in any panel goes through the
// state bus and is applied to every panel with the non-notifying
// setter, so broadcasts never re-trigger.
type Grid struct {
	state *app.State

	panels  []*panel.Panel
	hovered int

	content *fyne.Container
}

// New creates a grid bound to the application state. The grid rebuilds
// itself when a dataset loads and follows entry reloads and transform
// broadcasts.
func New(state *app.State) *Grid {
	g := &Grid{
		state:   state,
		hovered: -1,
		content: container.NewStack(),
	}

	state.On(app.EventDatasetLoaded, func(interface{}) {
		g.rebuild()
	})
	state.On(app.EventEntryReloaded, func(data interface{}) {
		g.updateEntry(data.(int))
	})
	state.On(app.EventTransformChanged, func(data interface{}) {
		g.applyAll(data.(viewgeom.ViewTransform))
	})
	state.On(app.EventCursorMoved, func(data interface{}) {
		g.hovered = data.(app.CursorEvent).PanelIndex
	})

	return g
}

// Container returns the grid's root object for embedding in a layout.
func (g *Grid) Container() fyne.CanvasObject {
	return g.content
}

// Panels returns the grid's panels in member order.
func (g *Grid) Panels() []*panel.Panel {
	return g.panels
}

// HoveredIndex returns the index of the panel under the pointer, or -1.
func (g *Grid) HoveredIndex() int {
	return g.hovered
}

// rebuild creates one panel per entry and lays them out row-major with
// the dataset's column count.
func (g *Grid) rebuild() {
	cfg := g.state.Config

	entries := g.state.Entries()
	g.panels = nil
	g.hovered = -1
	objects := make([]fyne.CanvasObject, 0, len(entries))
	for i, entry := range entries {
		pl := panel.New(cfg.Zoom.Min, cfg.Zoom.Max, cfg.Zoom.Step)
		pl.SetEntry(entry)
		pl.ApplyTransform(g.state.CurrentTransform())

		index := i
		pl.OnTransformChanged(func(t viewgeom.ViewTransform) {
			g.state.SetTransform(t)
		})
		pl.OnCursorMoved(func(x, y int) {
			g.state.Emit(app.EventCursorMoved, app.CursorEvent{
				PanelIndex: index,
				SceneX:     x,
				SceneY:     y,
			})
		})
		pl.OnMouseLeave(func() {
			g.state.Emit(app.EventCursorMoved, app.CursorEvent{PanelIndex: -1})
		})

		g.panels = append(g.panels, pl)
		objects = append(objects, pl)
	}

	columns := g.state.Columns
	if columns < 1 {
		columns = 1
	}

	g.content.Objects = []fyne.CanvasObject{
		container.NewGridWithColumns(columns, objects...),
	}
	g.content.Refresh()
}

// updateEntry swaps a reloaded entry into its panel.
func (g *Grid) updateEntry(i int) {
	if i < 0 || i >= len(g.panels) {
		return
	}
	entry := g.state.Entry(i)
	if entry == nil {
		return
	}
	g.panels[i].SetEntry(entry)
}

// applyAll applies a broadcast transform to every panel.
func (g *Grid) applyAll(t viewgeom.ViewTransform) {
	for _, pl := range g.panels {
		pl.ApplyTransform(t)
	}
}

// SetChannelMode switches the channel shown by the panel at index i.
// Channel isolation is per panel and not synchronized.
func (g *Grid) SetChannelMode(i int, mode panel.ChannelMode) {
	if i < 0 || i >= len(g.panels) {
		return
	}
	g.panels[i].SetChannelMode(mode)
}

// FitToWindow computes a transform that fits the first loaded member
// into its panel and broadcasts it to the whole grid.
func (g *Grid) FitToWindow() {
	for i, entry := range g.state.Entries() {
		if !entry.Loaded() || i >= len(g.panels) {
			continue
		}
		size := g.panels[i].Size()
		if size.Width <= 0 || size.Height <= 0 {
			return
		}
		t := viewgeom.FitScene(
			float64(entry.Width), float64(entry.Height),
			float64(size.Width), float64(size.Height),
		)
		g.state.SetTransform(t)
		return
	}
}

// Snapshot renders every panel at its current view into one composite
// image, laid out exactly like the on-screen grid.
func (g *Grid) Snapshot() (*image.RGBA, error) {
	if len(g.panels) == 0 {
		return nil, errs.New("no dataset open")
	}

	cellW, cellH := snapshotCellWidth, snapshotCellHeight
	if size := g.panels[0].Size(); size.Width > 0 && size.Height > 0 {
		cellW, cellH = int(size.Width), int(size.Height)
	}

	columns := g.state.Columns
	if columns < 1 {
		columns = 1
	}
	rows := (len(g.panels) + columns - 1) / columns

	out := image.NewRGBA(image.Rect(0, 0, columns*cellW, rows*cellH))
	for i, pl := range g.panels {
		row, col := g.state.GridPosition(i)
		cell := pl.RenderImage(cellW, cellH)
		target := image.Rect(col*cellW, row*cellH, (col+1)*cellW, (row+1)*cellH)
		draw.Draw(out, target, cell, cell.Bounds().Min, draw.Src)
	}
	return out, nil
}
