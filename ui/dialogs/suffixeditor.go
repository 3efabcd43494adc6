// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/igridvu/igridvu/internal/app"
	"github.com/igridvu/igridvu/internal/errs"
)

// SuffixEditorDialog edits the dataset's suffix list in place. Saving
// normalizes the lines, rewrites the suffix file and reloads the grid.
type SuffixEditorDialog struct {
	state  *app.State
	window fyne.Window

	editor *widget.Entry
}

// NewSuffixEditorDialog creates a new suffix list editor dialog.
func NewSuffixEditorDialog(state *app.State, window fyne.Window) *SuffixEditorDialog {
	return &SuffixEditorDialog{
		state:  state,
		window: window,
	}
}

// Show displays the dialog.
func (d *SuffixEditorDialog) Show() {
	d.editor = widget.NewMultiLineEntry()
	d.editor.SetText(strings.Join(d.state.Suffixes, "\n"))
	d.editor.SetMinRowsVisible(12)

	hint := widget.NewLabel("One suffix per line, resolved against the dataset prefix.")
	hint.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(hint, nil, nil, nil, d.editor)

	dlg := dialog.NewCustomConfirm(
		"Edit Suffix List",
		"Save",
		"Cancel",
		content,
		func(save bool) {
			if !save {
				return
			}
			d.save()
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 460))
	dlg.Show()
}

func (d *SuffixEditorDialog) save() {
	err := d.state.SaveSuffixes(strings.Split(d.editor.Text, "\n"))
	if err == nil {
		return
	}
	if errs.IsSuffixListTooLong(err) {
		dialog.ShowInformation(
			"Too many suffixes",
			fmt.Sprintf("The suffix list is capped at %d entries.\nRemove some lines and save again.",
				d.state.Config.Limits.MaxImages),
			d.window,
		)
		return
	}
	dialog.ShowError(err, d.window)
}
