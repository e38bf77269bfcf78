package cli

import (
	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/token"
	"github.com/grovekit/grove/pkg/tree"
)

// checkCommand creates the check command for structural validation.
func (c *CLI) checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate document structure",
		Long: `Validate a document's structure: well-formed tags, matching open and
close pairs, a single root element, and no stray closing tags.

Every problem is reported with its line and column. Duplicate attributes
are warnings; everything else is an error. The command exits non-zero
when any error is found.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, name, err := readInput(args)
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			tokens, parseErrs := token.Tokenize(string(input))
			_, buildErrs := tree.Build(tokens)
			parseErrs = append(parseErrs, buildErrs...)
			logger.Debug("validated document", "tokens", len(tokens), "problems", len(parseErrs))

			fatal := token.CountFatal(parseErrs)
			for _, pe := range parseErrs {
				if pe.Warning() {
					printWarning("%s", pe.Error())
				} else {
					printError("%s", pe.Error())
				}
			}

			if fatal > 0 {
				printDetail("%d errors, %d warnings in %s", fatal, len(parseErrs)-fatal, name)
				printNextStep("To repair the document", "grove fix "+argOrStdin(args))
				return errors.New(errors.ErrCodeInvalidInput, "%s has %d structural errors", name, fatal)
			}

			printSuccess("%s is well-formed", name)
			if warnings := len(parseErrs); warnings > 0 {
				printDetail("%d warnings", warnings)
			}
			return nil
		},
	}

	return cmd
}
