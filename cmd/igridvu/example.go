package igridvu

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/igridvu/igridvu/internal/scene"
)

// exampleCmd creates the example command.
func exampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [directory]",
		Short: "Generate a sample dataset",
		Long: `Generate a small rendering-pass dataset (geometry, texture, diffuse,
specular, fresnel, shadow) plus its suffix file, ready to open in the
viewer. The dataset is written to a testscene subdirectory of the given
directory, or of the current directory when none is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir := "."
			if len(args) > 0 {
				baseDir = args[0]
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				baseDir = cwd
			}

			prefix, err := scene.CreateDataset(baseDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Example dataset written (%d members).\n\nOpen it with:\n\n  igridvu %s\n",
				len(scene.Suffixes()), prefix)
			return nil
		},
	}
}
