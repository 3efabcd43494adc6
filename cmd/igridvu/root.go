// Package igridvu wires the command line interface. The root command
// launches the viewer window; subcommands cover dataset chores that do
// not need a display.
package igridvu

import (
	"log/slog"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/igridvu/igridvu/internal/app"
	"github.com/igridvu/igridvu/internal/config"
	"github.com/igridvu/igridvu/internal/logx"
	"github.com/igridvu/igridvu/internal/suffix"
	"github.com/igridvu/igridvu/internal/version"
	"github.com/igridvu/igridvu/ui/apptheme"
	"github.com/igridvu/igridvu/ui/mainwindow"
	"github.com/igridvu/igridvu/ui/prefs"
)

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	var (
		cfgFile string
		columns int
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "igridvu [prefix] [suffix-file]",
		Short: "Synchronized image grid viewer",
		Long: `igridvu shows a grid of related images that zoom and pan together.

A dataset is a shared path prefix plus a suffix list: each line of the
suffix file names one member, resolved as prefix+suffix (or joined as a
path when the prefix is a directory). Run with no arguments to pick a
dataset from the window, or pass the prefix directly:

  igridvu renders/scene1_
  igridvu renders/scene1_ my_suffixes.txt --columns 3`,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			setupLogging(verbose)

			state := app.NewState(cfg)
			sessionPrefs := prefs.Load()

			fyneApp := fyneapp.NewWithID("io.igridvu.viewer")
			fyneApp.Settings().SetTheme(&apptheme.GridTheme{})

			win := mainwindow.New(fyneApp, state, sessionPrefs)

			if len(args) > 0 {
				prefix := args[0]
				suffixPath := ""
				if len(args) > 1 {
					suffixPath = args[1]
				} else {
					suffixPath = suffix.DefaultPathFor(prefix, cfg.Grid.SuffixFile)
				}
				win.OpenDataset(prefix, suffixPath, columns)
			}

			win.ShowAndRun()
			return nil
		},
	}

	rootCmd.SetVersionTemplate(version.String() + "\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/igridvu/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.Flags().IntVarP(&columns, "columns", "c", 0,
		"grid column count (0 uses the configured default)")

	rootCmd.AddCommand(exampleCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(statsCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig resolves the effective configuration, preferring an
// explicit --config path over the default location.
func loadConfig(cfgFile string) (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadConfigFile(cfgFile)
	}
	return config.LoadConfig()
}

// setupLogging installs the process logger. Debug level includes
// per-event diagnostics such as transform broadcasts and reload batches.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
