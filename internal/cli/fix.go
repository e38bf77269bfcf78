package cli

import (
	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/format"
	"github.com/grovekit/grove/pkg/pipeline"
)

// fixCommand creates the fix command for structural auto-correction.
func (c *CLI) fixCommand() *cobra.Command {
	var (
		output string
		minify bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "fix [file]",
		Short: "Repair document structure",
		Long: `Repair a structurally broken document: unclosed elements are closed
where their parent ends, stray closing tags are dropped, extra root
elements are removed, and everything still open at the end of input is
force-closed.

Each repair is reported, and the corrected document is written in
canonical form to stdout or --output.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, name, err := readInput(args)
			if err != nil {
				return err
			}

			root, _, corrections, err := pipeline.Process(input, true)
			if err != nil {
				return err
			}

			if !quiet {
				for _, cor := range corrections {
					printWarning("%s", cor.String())
				}
				if len(corrections) == 0 {
					printSuccess("%s needed no repairs", name)
				} else {
					printSuccess("repaired %s (%d corrections)", name, len(corrections))
				}
			}

			var out string
			if minify {
				out = format.Minify(root)
			} else {
				out = format.Format(root) + "\n"
			}
			return writeOutput(output, []byte(out))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&minify, "minify", false, "emit the minified single-line form")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the repair report")

	return cmd
}
