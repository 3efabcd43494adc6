package igridvu

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/igridvu/igridvu/internal/suffix"
)

// scanCmd creates the scan command.
func scanCmd() *cobra.Command {
	var (
		pattern    string
		namePrefix string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Build a suffix list from files on disk",
		Long: `Scan a directory for files matching a glob pattern and emit the
matching names as a suffix list, one per line. With --prefix the shared
filename prefix is stripped, so the result pairs with that prefix when
opening the dataset:

  igridvu scan renders --prefix scene1_ --output renders/igridvu_suffix.txt
  igridvu renders/scene1_ renders/igridvu_suffix.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			suffixes, err := suffix.Scan(dir, namePrefix, pattern)
			if err != nil {
				return err
			}
			if len(suffixes) == 0 {
				return fmt.Errorf("no files in %s match %q", dir, pattern)
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(suffixes, "\n"))
				return nil
			}

			if err := suffix.Save(output, suffixes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d suffixes to %s\n", len(suffixes), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "*.png", "glob pattern for file names")
	cmd.Flags().StringVar(&namePrefix, "prefix", "", "filename prefix to strip from matches")
	cmd.Flags().StringVarP(&output, "output", "o", "", "suffix file to write (default prints to stdout)")

	return cmd
}
