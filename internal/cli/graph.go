package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/extract"
	"github.com/grovekit/grove/pkg/graph"
	"github.com/grovekit/grove/pkg/pipeline"
)

// Graph output formats.
const (
	graphFormatJSON     = "json"
	graphFormatDOT      = "dot"
	graphFormatEntities = "entities"
)

// graphCommand creates the graph command for exporting the social graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		formatStr string
		output    string
		schema    string
		fix       bool
		noCache   bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Extract and export the social graph",
		Long: `Extract users and follow relations from a document and export the
resulting directed graph.

Formats:
  json      graph as sorted node and edge lists (default)
  dot       Graphviz DOT for external rendering
  entities  full extracted entities: users, posts, topics, relations

Results are cached locally for faster subsequent runs.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch formatStr {
			case graphFormatJSON, graphFormatDOT, graphFormatEntities:
			default:
				return errors.New(errors.ErrCodeInvalidFormat,
					"invalid format %q (must be one of: json, dot, entities)", formatStr)
			}

			input, name, err := readInput(args)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Processing %s...", name))
			spinner.Start()

			result, err := runner.Execute(cmd.Context(), pipeline.Options{
				Input:      input,
				Path:       name,
				SchemaPath: schema,
				Fix:        fix,
				Refresh:    refresh,
			})
			if err != nil {
				spinner.StopWithError("Processing failed")
				return err
			}
			spinner.Stop()

			for _, w := range result.Warnings {
				printWarning("%s", w)
			}

			var buf bytes.Buffer
			switch formatStr {
			case graphFormatJSON:
				err = graph.WriteGraph(result.Graph, &buf)
			case graphFormatDOT:
				buf.WriteString(graph.ToDOT(result.Graph))
			case graphFormatEntities:
				err = extract.WriteJSON(result.Extraction, &buf)
			}
			if err != nil {
				return err
			}

			if err := writeOutput(output, buf.Bytes()); err != nil {
				return err
			}
			if output != "" {
				printStats(result.Graph.NodeCount(), result.Graph.EdgeCount(), result.CacheInfo.GraphHit)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatStr, "format", "f", graphFormatJSON, "output format: json, dot, entities")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&schema, "schema", "", "TOML extraction schema file")
	cmd.Flags().BoolVar(&fix, "fix", false, "auto-correct structural errors")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache")

	return cmd
}
