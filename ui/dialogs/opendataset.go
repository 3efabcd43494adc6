package dialogs

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/igridvu/igridvu/internal/app"
	"github.com/igridvu/igridvu/internal/suffix"
)

// OpenDatasetDialog collects a dataset prefix, suffix file and column
// count, then hands them to the open callback.
type OpenDatasetDialog struct {
	state  *app.State
	window fyne.Window

	prefixEntry  *widget.Entry
	suffixEntry  *widget.Entry
	columnsEntry *widget.Entry

	onOpen func(prefix, suffixPath string, columns int)
}

// NewOpenDatasetDialog creates a new open-dataset dialog.
func NewOpenDatasetDialog(state *app.State, window fyne.Window, onOpen func(prefix, suffixPath string, columns int)) *OpenDatasetDialog {
	return &OpenDatasetDialog{
		state:  state,
		window: window,
		onOpen: onOpen,
	}
}

// Show displays the dialog.
func (d *OpenDatasetDialog) Show() {
	d.prefixEntry = widget.NewEntry()
	d.prefixEntry.SetPlaceHolder("/data/run42/frame_")
	d.prefixEntry.SetText(d.state.Prefix)

	d.suffixEntry = widget.NewEntry()
	d.suffixEntry.SetPlaceHolder("blank for " + d.state.Config.Grid.SuffixFile + " next to the members")
	d.suffixEntry.SetText(d.state.SuffixPath)

	d.columnsEntry = widget.NewEntry()
	d.columnsEntry.SetText(strconv.Itoa(d.state.Columns))

	browsePrefix := widget.NewButton("Browse", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			d.prefixEntry.SetText(uri.Path())
		}, d.window)
	})
	browseSuffix := widget.NewButton("Browse", func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			d.suffixEntry.SetText(rc.URI().Path())
			rc.Close()
		}, d.window)
	})

	form := widget.NewForm(
		widget.NewFormItem("Prefix", d.prefixEntry),
		widget.NewFormItem("", browsePrefix),
		widget.NewFormItem("Suffix file", d.suffixEntry),
		widget.NewFormItem("", browseSuffix),
		widget.NewFormItem("Columns", d.columnsEntry),
	)

	dlg := dialog.NewCustomConfirm(
		"Open Dataset",
		"Open",
		"Cancel",
		form,
		func(open bool) {
			if !open {
				return
			}
			d.apply()
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(520, 320))
	dlg.Show()
}

func (d *OpenDatasetDialog) apply() {
	prefix := d.prefixEntry.Text
	if prefix == "" {
		dialog.ShowInformation("Open Dataset", "A dataset prefix is required.", d.window)
		return
	}

	suffixPath := d.suffixEntry.Text
	if suffixPath == "" {
		suffixPath = suffix.DefaultPathFor(prefix, d.state.Config.Grid.SuffixFile)
	}

	columns, err := strconv.Atoi(d.columnsEntry.Text)
	if err != nil {
		columns = d.state.Config.Grid.Columns
	}

	if d.onOpen != nil {
		d.onOpen(prefix, suffixPath, columns)
	}
}
