package cli

import (
	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/format"
	"github.com/grovekit/grove/pkg/pipeline"
)

// fmtCommand creates the fmt command for canonical formatting.
func (c *CLI) fmtCommand() *cobra.Command {
	var (
		output string
		minify bool
		fix    bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Format a document canonically",
		Long: `Format a document into its canonical form: four-space indentation,
normalized whitespace, text wrapped at 80 columns, and empty elements
collapsed to self-closing form.

With --minify, all inter-element whitespace is stripped instead.

Structurally broken documents are rejected; pass --fix to repair them
first, or run 'grove fix' to see what would change.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _, err := readInput(args)
			if err != nil {
				return err
			}

			root, _, _, err := pipeline.Process(input, fix)
			if err != nil {
				printNextStep("To repair the document", "grove fix "+argOrStdin(args))
				return err
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
	cmd.Flags().BoolVar(&fix, "fix", false, "auto-correct structural errors before formatting")

	return cmd
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
