package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/codec"
	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/format"
	"github.com/grovekit/grove/pkg/pipeline"
)

// packExt is the conventional extension for packed documents.
const packExt = ".gsn"

// packCommand creates the pack command for binary encoding.
func (c *CLI) packCommand() *cobra.Command {
	var (
		output string
		fix    bool
	)

	cmd := &cobra.Command{
		Use:   "pack [file]",
		Short: "Encode a document into compact binary form",
		Long: `Encode a document into the compact binary form: tag and attribute
names are interned into a dictionary and all counts and references are
varint-encoded, typically shrinking repetitive documents well below
their text size.

The default output path replaces the input extension with ` + packExt + `;
stdin input requires --output. Decode with 'grove unpack'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, name, err := readInput(args)
			if err != nil {
				return err
			}
			if output == "" {
				if name == "stdin" {
					return errors.New(errors.ErrCodeInvalidPath, "--output is required when reading stdin")
				}
				output = replaceExt(name, packExt)
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			root, _, _, err := pipeline.Process(input, fix)
			if err != nil {
				return err
			}

			data, err := codec.Encode(root)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done(fmt.Sprintf("Encoded %d bytes", len(data)))

			printSuccess("packed %s", name)
			printFile(output)
			printDetail("%d → %d bytes (%.1f%%)", len(input), len(data), 100*float64(len(data))/float64(len(input)))
			printNextStep("To decode", "grove unpack "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (input path with "+packExt+" if empty)")
	cmd.Flags().BoolVar(&fix, "fix", false, "auto-correct structural errors before packing")

	return cmd
}

// unpackCommand creates the unpack command for binary decoding.
func (c *CLI) unpackCommand() *cobra.Command {
	var (
		output string
		minify bool
	)

	cmd := &cobra.Command{
		Use:   "unpack <file>",
		Short: "Decode a packed document back to text",
		Long: `Decode a packed binary document back into canonical text form.

Decoding is strict: truncated or corrupted input is rejected rather
than partially decoded. Packing and unpacking round-trip exactly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if os.IsNotExist(err) {
				return errors.New(errors.ErrCodeFileNotFound, "no such file: %s", args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			root, err := codec.Decode(data)
			if err != nil {
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

	return cmd
}

// replaceExt swaps path's extension for ext, appending when there is none.
func replaceExt(path, ext string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[:i] + ext
	}
	return path + ext
}
