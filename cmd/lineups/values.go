package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-lineups/internal/lineup"
)

// createValuesCommand creates the values command.
func createValuesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values [FILE]",
		Short: "Print players from best to worst salary per projected point",
		Args:  cobra.MaximumNArgs(1),
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
			return renderValues(cmd.OutOrStdout(), lineup.ValueReport(players))
		},
	}

	cmd.Flags().String("slate", "", "Report on a stored slate instead of a CSV file")
	return cmd
}
