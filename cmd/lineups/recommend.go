package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-lineups/internal/lineup"
)

// createRecommendCommand creates the recommend command.
func createRecommendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend [FILE]",
		Short: "Search for valid lineups and print the best",
		Long: "Search a player pool, read from a CSV export or a stored slate, for every " +
			"lineup that fits the salary cap, and print them ranked by projected points.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			slate, err := cmd.Flags().GetString("slate")
			if err != nil {
				return fmt.Errorf("failed to get slate flag: %w", err)
			}
			players, err := s.loadPool(cmd.Context(), args, slate)
			if err != nil {
				return err
			}
			return runSearch(cmd, s, players)
		},
	}

	cmd.Flags().String("slate", "", "Search a stored slate instead of a CSV file")
	addSearchFlags(cmd)

	return cmd
}

// addSearchFlags registers the flags recommendOptions reads.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "", "Search strategy: indexed or unindexed")
	cmd.Flags().String("policy", "", "Validity policy: strict or relaxed")
	cmd.Flags().Int("workers", 0, "Parallel workers (0 uses the configured value)")
	cmd.Flags().Duration("timeout", 0, "Stop searching after this long (0 uses the configured value)")
	cmd.Flags().Int64("budget", 0, "Stop after expanding this many nodes (0 uses the configured value)")
	cmd.Flags().Int("top", 0, "Lineups to print (0 uses the configured value)")
	cmd.Flags().Bool("no-dedup", false, "Report every build order instead of one per player set")
}

// runSearch searches players with the configured options and the flags the
// user set, then prints the ranked lineups.
func runSearch(cmd *cobra.Command, s *settings, players []lineup.Player) error {
	opts, err := recommendOptions(cmd, s.opts)
	if err != nil {
		return err
	}
	opts.Progress = func(u lineup.ProgressUpdate) {
		s.log.WithFields(logrus.Fields{
			"search_id":      u.SearchID,
			"branches_done":  u.BranchesDone,
			"branches_total": u.BranchesTotal,
			"lineups_found":  u.LineupsFound,
		}).Debug("Search progress")
	}

	engine, err := lineup.NewEngine(s.rules, opts, s.log)
	if err != nil {
		return err
	}
	result, err := engine.Search(cmd.Context(), players)
	if err != nil {
		return err
	}

	return renderResult(cmd.OutOrStdout(), result)
}

// recommendOptions applies the flags the user set on top of the configured
// search options.
func recommendOptions(cmd *cobra.Command, opts lineup.Options) (lineup.Options, error) {
	flags := cmd.Flags()

	if flags.Changed("strategy") {
		value, _ := flags.GetString("strategy")
		strategy, err := lineup.ParseStrategy(value)
		if err != nil {
			return opts, err
		}
		opts.Strategy = strategy
	}
	if flags.Changed("policy") {
		value, _ := flags.GetString("policy")
		policy, err := lineup.ParsePolicy(value)
		if err != nil {
			return opts, err
		}
		opts.Policy = policy
	}
	if flags.Changed("workers") {
		opts.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("timeout") {
		opts.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("budget") {
		opts.NodeBudget, _ = flags.GetInt64("budget")
	}
	if flags.Changed("top") {
		opts.MaxLineups, _ = flags.GetInt("top")
	}
	if noDedup, _ := flags.GetBool("no-dedup"); noDedup {
		opts.Dedup = false
	}
	return opts, nil
}
