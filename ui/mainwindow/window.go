// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/igridvu/igridvu/internal/app"
	"github.com/igridvu/igridvu/internal/errs"
	"github.com/igridvu/igridvu/internal/inspect"
	"github.com/igridvu/igridvu/internal/logx"
	"github.com/igridvu/igridvu/internal/scene"
	"github.com/igridvu/igridvu/internal/suffix"
	"github.com/igridvu/igridvu/internal/version"
	"github.com/igridvu/igridvu/internal/watch"
	"github.com/igridvu/igridvu/pkg/viewgeom"
	"github.com/igridvu/igridvu/ui/dialogs"
	"github.com/igridvu/igridvu/ui/grid"
	"github.com/igridvu/igridvu/ui/panel"
	"github.com/igridvu/igridvu/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	grid  *grid.Grid
	prefs *prefs.Prefs

	watcher *watch.DatasetWatcher

	statusBar *widget.Label
	center    *fyne.Container
	summary   string

	// Menu items that need state tracking
	autoReloadItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, sessionPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("igridvu")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  sessionPrefs,
	}

	debounce := time.Duration(state.Config.Watch.DebounceMS) * time.Millisecond
	watcher, err := watch.New(debounce, func(changed []string) {
		state.ReloadByPath(changed)
	})
	if err != nil {
		logx.Logger().Warn("dataset watcher unavailable", "error", err)
	}
	mw.watcher = watcher

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.setupEventHandlers()

	if mw.watcher != nil &&
		(state.Config.Watch.Enabled || sessionPrefs.Bool(prefs.KeyAutoReload, false)) {
		if err := mw.watcher.Start(); err != nil {
			logx.Logger().Warn("cannot start dataset watcher", "error", err)
		} else {
			mw.autoReloadItem.Label = "✓ Auto-Reload"
		}
	}

	width := sessionPrefs.Float(prefs.KeyWindowWidth, 1200)
	height := sessionPrefs.Float(prefs.KeyWindowHeight, 800)
	win.Resize(fyne.NewSize(float32(width), float32(height)))

	win.SetOnClosed(func() {
		mw.persistSession()
		if mw.watcher != nil {
			mw.watcher.Close()
		}
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.grid = grid.New(mw.state)
	mw.statusBar = widget.NewLabel("Ready")
	mw.summary = "Ready"

	mw.center = container.NewStack(mw.welcomeScreen())

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.center,
	)
	mw.SetContent(content)
}

// welcomeScreen builds the screen shown before any dataset is opened.
func (mw *MainWindow) welcomeScreen() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("igridvu", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle(
		"Open a dataset to compare images side by side.\n"+
			"File → Open Dataset…, or generate a sample with Dataset → Generate Example.",
		fyne.TextAlignCenter, fyne.TextStyle{})

	items := []fyne.CanvasObject{title, hint}

	if recent := mw.prefs.Strings(prefs.KeyRecentPrefixes); len(recent) > 0 {
		items = append(items, widget.NewLabelWithStyle("Recent datasets",
			fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
		for _, prefix := range recent {
			p := prefix
			items = append(items, widget.NewButton(p, func() {
				mw.OpenDataset(p, suffix.DefaultPathFor(p, mw.state.Config.Grid.SuffixFile), 0)
			}))
		}
	}

	return container.NewCenter(container.NewVBox(items...))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Dataset...", mw.onOpenDataset),
		fyne.NewMenuItem("Reload", mw.onReload),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Snapshot", mw.onSnapshot),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	datasetMenu := fyne.NewMenu("Dataset",
		fyne.NewMenuItem("Edit Suffix List...", mw.onEditSuffixes),
		fyne.NewMenuItem("Generate Example...", mw.onGenerateExample),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Channel Statistics...", mw.onShowStats),
	)

	mw.autoReloadItem = fyne.NewMenuItem("  Auto-Reload", mw.onToggleAutoReload)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItem("Fit to Window", mw.onFitToWindow),
		fyne.NewMenuItemSeparator(),
		mw.autoReloadItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, datasetMenu, viewMenu, helpMenu))
}

// setupKeys wires single-key shortcuts: r/g/b/a isolate a channel on
// the hovered panel, c restores full color, +/- zoom, 0 resets.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'r':
			mw.isolateHovered(panel.ModeR)
		case 'g':
			mw.isolateHovered(panel.ModeG)
		case 'b':
			mw.isolateHovered(panel.ModeB)
		case 'a':
			mw.isolateHovered(panel.ModeA)
		case 'c':
			mw.isolateHovered(panel.ModeRGB)
		case '+', '=':
			mw.onZoomIn()
		case '-':
			mw.onZoomOut()
		case '0':
			mw.onActualSize()
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDatasetLoaded, func(data interface{}) {
		mw.showGrid()
		mw.SetTitle("igridvu - " + mw.state.Prefix)

		entries := mw.state.Entries()
		loaded := 0
		for _, e := range entries {
			if e.Loaded() {
				loaded++
			}
		}
		mw.summary = fmt.Sprintf("%d members (%d loaded)  |  %s",
			len(entries), loaded, mw.state.Prefix)
		mw.updateStatus(mw.summary)

		if mw.watcher != nil {
			if err := mw.watcher.SetPaths(mw.state.MemberPaths()); err != nil {
				logx.Logger().Warn("cannot watch dataset", "error", err)
			}
		}

		mw.prefs.SetString(prefs.KeyLastPrefix, mw.state.Prefix)
		mw.prefs.SetString(prefs.KeyLastSuffixFile, mw.state.SuffixPath)
		mw.prefs.PushRecent(mw.state.Prefix)
	})

	mw.state.On(app.EventCursorMoved, func(data interface{}) {
		ev, ok := data.(app.CursorEvent)
		if !ok {
			return
		}
		entries := mw.state.Entries()
		if ev.PanelIndex < 0 || ev.PanelIndex >= len(entries) {
			mw.updateStatus(mw.summary)
			return
		}
		samples := inspect.At(entries, ev.SceneX, ev.SceneY)
		path := entries[ev.PanelIndex].Path
		mw.updateStatus(inspect.StatusLine(path, ev.SceneX, ev.SceneY, samples))
	})

	mw.state.On(app.EventEntryReloaded, func(data interface{}) {
		if i, ok := data.(int); ok {
			if entry := mw.state.Entry(i); entry != nil {
				mw.updateStatus("Reloaded: " + entry.Label())
			}
		}
	})

	mw.state.On(app.EventStatusMessage, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.updateStatus(msg)
		}
	})
}

// OpenDataset loads a dataset and reports failures in a dialog.
func (mw *MainWindow) OpenDataset(prefix, suffixPath string, columns int) {
	if err := mw.state.LoadDataset(prefix, suffixPath, columns); err != nil {
		logx.Logger().Error("cannot open dataset", "prefix", prefix, "error", err)
		dialog.ShowError(err, mw.Window)
	}
}

// showGrid swaps the welcome screen for the panel grid.
func (mw *MainWindow) showGrid() {
	mw.center.Objects = []fyne.CanvasObject{mw.grid.Container()}
	mw.center.Refresh()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// isolateHovered switches the channel mode of the panel under the
// pointer. Channel isolation stays per panel.
func (mw *MainWindow) isolateHovered(mode panel.ChannelMode) {
	i := mw.grid.HoveredIndex()
	if i < 0 {
		return
	}
	mw.grid.SetChannelMode(i, mode)
	if entry := mw.state.Entry(i); entry != nil {
		mw.updateStatus(fmt.Sprintf("Channel %s: %s", mode, entry.Label()))
	}
}

// persistSession saves window geometry and dataset recall state.
func (mw *MainWindow) persistSession() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	mw.prefs.SetInt(prefs.KeyColumns, mw.state.Columns)
	if err := mw.prefs.Save(); err != nil {
		logx.Logger().Warn("cannot save preferences", "error", err)
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenDataset() {
	dialogs.NewOpenDatasetDialog(mw.state, mw.Window, func(prefix, suffixPath string, columns int) {
		mw.OpenDataset(prefix, suffixPath, columns)
	}).Show()
}

func (mw *MainWindow) onReload() {
	if mw.state.Prefix == "" {
		mw.updateStatus("No dataset open")
		return
	}
	if err := mw.state.ReloadAll(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSnapshot() {
	// Render before the dialog opens so the capture matches what the
	// user was looking at.
	img, err := mw.grid.Snapshot()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		path := writer.URI().Path()
		if encErr := png.Encode(writer, img); encErr != nil {
			dialog.ShowError(errs.Wrapf(encErr, "cannot write snapshot %s", path), mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeySnapshotDir, filepath.Dir(path))
		logx.Logger().Info("snapshot saved", "path", path)
		mw.updateStatus("Snapshot saved: " + path)
	}, mw.Window)

	fd.SetFileName("igridvu_" + time.Now().Format("20060102_150405") + ".png")
	if loc := mw.snapshotLocation(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// snapshotDir returns the directory snapshots default to: the last
// directory a snapshot was saved in, else the user's Pictures.
func (mw *MainWindow) snapshotDir() string {
	if dir := mw.prefs.String(prefs.KeySnapshotDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Pictures")
}

// snapshotLocation wraps the snapshot directory as a listable URI for
// the save dialog, or nil when it cannot be listed.
func (mw *MainWindow) snapshotLocation() fyne.ListableURI {
	dir := mw.snapshotDir()
	if dir == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) onEditSuffixes() {
	if mw.state.SuffixPath == "" {
		mw.updateStatus("No dataset open")
		return
	}
	dialogs.NewSuffixEditorDialog(mw.state, mw.Window).Show()
}

func (mw *MainWindow) onGenerateExample() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		prefix, genErr := scene.CreateDataset(uri.Path())
		if genErr != nil {
			dialog.ShowError(genErr, mw.Window)
			return
		}
		mw.OpenDataset(prefix, suffix.DefaultPathFor(prefix, mw.state.Config.Grid.SuffixFile), 0)
	}, mw.Window)
}

func (mw *MainWindow) onShowStats() {
	dialogs.NewStatsDialog(mw.state, mw.Window).Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.zoomBy(mw.state.Config.Zoom.Step)
}

func (mw *MainWindow) onZoomOut() {
	mw.zoomBy(1 / mw.state.Config.Zoom.Step)
}

// zoomBy zooms the shared view around the panel center.
func (mw *MainWindow) zoomBy(factor float64) {
	anchor := viewgeom.Point2D{}
	if panels := mw.grid.Panels(); len(panels) > 0 {
		size := panels[0].Size()
		anchor = viewgeom.Point2D{X: float64(size.Width) / 2, Y: float64(size.Height) / 2}
	}
	cfg := mw.state.Config
	t := mw.state.CurrentTransform().ZoomAt(anchor, factor, cfg.Zoom.Min, cfg.Zoom.Max)
	mw.state.SetTransform(t)
}

func (mw *MainWindow) onActualSize() {
	mw.state.SetTransform(viewgeom.Identity())
}

func (mw *MainWindow) onFitToWindow() {
	mw.grid.FitToWindow()
}

func (mw *MainWindow) onToggleAutoReload() {
	if mw.watcher == nil {
		mw.updateStatus("File watching unavailable on this system")
		return
	}

	if mw.watcher.IsRunning() {
		mw.watcher.Stop()
		mw.autoReloadItem.Label = "  Auto-Reload"
		mw.prefs.SetBool(prefs.KeyAutoReload, false)
		mw.updateStatus("Auto-reload off")
	} else {
		if err := mw.watcher.Start(); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.autoReloadItem.Label = "✓ Auto-Reload"
		mw.prefs.SetBool(prefs.KeyAutoReload, true)
		mw.updateStatus("Auto-reload on")
	}
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About igridvu",
		fmt.Sprintf("igridvu v%s\n\n"+
			"Synchronized image grid viewer for comparing\n"+
			"render passes, debug outputs and image variants.\n\n"+
			"Built: %s\nCommit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
