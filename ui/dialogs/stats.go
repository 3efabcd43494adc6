package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/igridvu/igridvu/internal/app"
	"github.com/igridvu/igridvu/internal/inspect"
)

// StatsDialog shows per-member channel statistics for the open dataset.
type StatsDialog struct {
	state  *app.State
	window fyne.Window
}

// NewStatsDialog creates a new channel statistics dialog.
func NewStatsDialog(state *app.State, window fyne.Window) *StatsDialog {
	return &StatsDialog{
		state:  state,
		window: window,
	}
}

// Show displays the dialog.
func (d *StatsDialog) Show() {
	stats := inspect.StatsAll(d.state.Entries())
	if len(stats) == 0 {
		dialog.ShowInformation("Channel Statistics", "No dataset open.", d.window)
		return
	}

	rows := []fyne.CanvasObject{headerRow()}
	for _, s := range stats {
		rows = append(rows, statsRow(s))
	}

	content := container.NewVScroll(container.NewVBox(rows...))
	content.SetMinSize(fyne.NewSize(560, 300))

	dlg := dialog.NewCustom("Channel Statistics", "Close", content, d.window)
	dlg.Resize(fyne.NewSize(620, 400))
	dlg.Show()
}

func headerRow() fyne.CanvasObject {
	bold := fyne.TextStyle{Bold: true}
	return container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Member", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Size", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("R mean±σ", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("G mean±σ", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("B mean±σ", fyne.TextAlignLeading, bold),
	)
}

func statsRow(s inspect.EntryStats) fyne.CanvasObject {
	mono := fyne.TextStyle{Monospace: true}
	if !s.Loaded {
		return container.NewGridWithColumns(5,
			widget.NewLabel(s.Label),
			widget.NewLabelWithStyle("not loaded", fyne.TextAlignLeading, mono),
			widget.NewLabel(""), widget.NewLabel(""), widget.NewLabel(""),
		)
	}
	return container.NewGridWithColumns(5,
		widget.NewLabel(s.Label),
		widget.NewLabelWithStyle(fmt.Sprintf("%dx%d", s.Width, s.Height), fyne.TextAlignLeading, mono),
		widget.NewLabelWithStyle(formatChannel(s.R), fyne.TextAlignLeading, mono),
		widget.NewLabelWithStyle(formatChannel(s.G), fyne.TextAlignLeading, mono),
		widget.NewLabelWithStyle(formatChannel(s.B), fyne.TextAlignLeading, mono),
	)
}

func formatChannel(c inspect.ChannelStats) string {
	return fmt.Sprintf("%6.1f ± %5.1f", c.Mean, c.StdDev)
}
