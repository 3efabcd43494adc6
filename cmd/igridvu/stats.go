package igridvu

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/igridvu/igridvu/internal/app"
	"github.com/igridvu/igridvu/internal/inspect"
	"github.com/igridvu/igridvu/internal/suffix"
)

// statsCmd creates the stats command.
func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <prefix> [suffix-file]",
		Short: "Print per-channel statistics for a dataset",
		Long: `Load a dataset without opening a window and print mean and standard
deviation per color channel for every member. Useful for spotting a
washed-out or empty pass from a build script.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}

			prefix := args[0]
			suffixPath := suffix.DefaultPathFor(prefix, cfg.Grid.SuffixFile)
			if len(args) > 1 {
				suffixPath = args[1]
			}

			state := app.NewState(cfg)
			if err := state.LoadDataset(prefix, suffixPath, 0); err != nil {
				return err
			}

			all := inspect.StatsAll(state.Entries())
			if len(all) == 0 {
				return fmt.Errorf("suffix list %s is missing or empty", suffixPath)
			}

			fmt.Fprintln(cmd.OutOrStdout(), statsTable(all))
			return nil
		},
	}

	return cmd
}

// statsTable renders entry statistics as a bordered terminal table.
func statsTable(all []inspect.EntryStats) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	missingStyle := cellStyle.Faint(true)

	rows := make([][]string, 0, len(all))
	for _, st := range all {
		if !st.Loaded {
			rows = append(rows, []string{st.Label, "not loaded", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			st.Label,
			fmt.Sprintf("%dx%d", st.Width, st.Height),
			formatChannel(st.R),
			formatChannel(st.G),
			formatChannel(st.B),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Faint(true)).
		Headers("MEMBER", "SIZE", "R MEAN±SD", "G MEAN±SD", "B MEAN±SD").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if !all[row].Loaded {
				return missingStyle
			}
			return cellStyle
		})

	return t.String()
}

func formatChannel(c inspect.ChannelStats) string {
	return fmt.Sprintf("%.1f ± %.1f", c.Mean, c.StdDev)
}
