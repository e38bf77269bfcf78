package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/graph"
	"github.com/grovekit/grove/pkg/pipeline"
)

// analyzeOpts holds the flags shared by all analyze subcommands.
type analyzeOpts struct {
	schema  string // TOML extraction schema file
	fix     bool   // auto-correct structural errors
	noCache bool   // disable caching
	refresh bool   // bypass cache
}

// analyzeCommand creates the analyze command with its query subcommands.
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run social graph queries",
		Long: `Run queries over the social graph extracted from a document.

Queries:
  active     users ranked by authored posts
  influence  users ranked by follower count
  mutual     users following every one of the given users
  suggest    follow recommendations (followed by someone you follow)
  stats      network-level metrics

Results are cached locally for faster subsequent runs.`,
	}

	cmd.PersistentFlags().StringVar(&opts.schema, "schema", "", "TOML extraction schema file")
	cmd.PersistentFlags().BoolVar(&opts.fix, "fix", false, "auto-correct structural errors")
	cmd.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.PersistentFlags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	cmd.AddCommand(c.activeCommand(&opts))
	cmd.AddCommand(c.influenceCommand(&opts))
	cmd.AddCommand(c.mutualCommand(&opts))
	cmd.AddCommand(c.suggestCommand(&opts))
	cmd.AddCommand(c.statsCommand(&opts))

	return cmd
}

// analyzeRun loads the document and executes the pipeline for a query.
func (c *CLI) analyzeRun(cmd *cobra.Command, file string, opts *analyzeOpts) (*pipeline.Result, error) {
	input, name, err := readInput([]string{file})
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(cmd.Context(), opts.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Processing %s...", name))
	spinner.Start()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Input:      input,
		Path:       name,
		SchemaPath: opts.schema,
		Fix:        opts.fix,
		Refresh:    opts.refresh,
	})
	if err != nil {
		spinner.StopWithError("Processing failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}

// activeCommand creates the "analyze active" subcommand.
func (c *CLI) activeCommand(opts *analyzeOpts) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "active <file>",
		Short: "Rank users by authored posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.analyzeRun(cmd, args[0], opts)
			if err != nil {
				return err
			}
			ranked, err := graph.TopActive(result.Graph, result.Extraction.Posts, top)
			if err != nil {
				return err
			}
			printRanked("Most Active Users", "Posts", ranked)
			printStats(result.Graph.NodeCount(), result.Graph.EdgeCount(), result.CacheInfo.GraphHit)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 1, "number of users to show")
	return cmd
}

// influenceCommand creates the "analyze influence" subcommand.
func (c *CLI) influenceCommand(opts *analyzeOpts) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "influence <file>",
		Short: "Rank users by follower count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.analyzeRun(cmd, args[0], opts)
			if err != nil {
				return err
			}
			ranked, err := graph.TopInfluencers(result.Graph, top)
			if err != nil {
				return err
			}
			printRanked("Most Influential Users", "Followers", ranked)
			printStats(result.Graph.NodeCount(), result.Graph.EdgeCount(), result.CacheInfo.GraphHit)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 1, "number of users to show")
	return cmd
}

// mutualCommand creates the "analyze mutual" subcommand.
func (c *CLI) mutualCommand(opts *analyzeOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "mutual <file> <user>...",
		Short: "Find users following every given user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.analyzeRun(cmd, args[0], opts)
			if err != nil {
				return err
			}
			ids := args[1:]
			mutual, err := graph.MutualFollowers(result.Graph, ids...)
			if err != nil {
				return err
			}

			if len(mutual) == 0 {
				printInfo("No user follows all of: %s", strings.Join(ids, ", "))
				return nil
			}
			printSuccess("%d users follow all of: %s", len(mutual), strings.Join(ids, ", "))
			for _, id := range mutual {
				name := ""
				if n, ok := result.Graph.Node(id); ok {
					name = n.Name
				}
				printDetail("%s", userLabel(id, name))
			}
			return nil
		},
	}
}

// suggestCommand creates the "analyze suggest" subcommand.
func (c *CLI) suggestCommand(opts *analyzeOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <file> [user]",
		Short: "Recommend users to follow",
		Long: `Recommend users for someone to follow: everyone followed by a user
they already follow, ranked by how many of their follows lead there.

When no user is given, an interactive picker lists all users.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.analyzeRun(cmd, args[0], opts)
			if err != nil {
				return err
			}

			var id string
			if len(args) > 1 {
				id = args[1]
			} else {
				id, err = pickUser(result.Graph)
				if err != nil {
					return err
				}
			}

			suggestions, err := graph.SuggestFriends(result.Graph, id)
			if err != nil {
				return err
			}
			if len(suggestions) == 0 {
				printInfo("No suggestions for %s", id)
				return nil
			}
			printRanked(fmt.Sprintf("Suggested Follows for %s", id), "Paths", suggestions)
			return nil
		},
	}

	return cmd
}

// statsCommand creates the "analyze stats" subcommand.
func (c *CLI) statsCommand(opts *analyzeOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Show network-level metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.analyzeRun(cmd, args[0], opts)
			if err != nil {
				return err
			}
			m := graph.Summarize(result.Graph)

			printKeyValue("users", strconv.Itoa(m.Users))
			printKeyValue("follows", strconv.Itoa(m.Follows))
			printKeyValue("posts", strconv.Itoa(result.Stats.Posts))
			printKeyValue("density", fmt.Sprintf("%.4f", m.Density))
			printKeyValue("avg followers", fmt.Sprintf("%.2f", m.AvgFollowers))
			return nil
		},
	}
}

// userLabel renders "id (name)" or just the id when the name is empty.
func userLabel(id, name string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", id, name)
}
