package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-lineups/internal/ingest"
)

// createImportCommand creates the import command.
func createImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a CSV player pool as a named slate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slate, err := cmd.Flags().GetString("slate")
			if err != nil {
				return fmt.Errorf("failed to get slate flag: %w", err)
			}

			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			players, err := ingest.LoadFile(args[0], s.rules)
			if err != nil {
				return err
			}

			slates, db, err := s.openSlates()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := slates.Import(cmd.Context(), slate, players); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d players into slate %q\n", len(players), slate)
			return err
		},
	}

	cmd.Flags().String("slate", "", "Slate name to store the pool under")
	_ = cmd.MarkFlagRequired("slate")
	return cmd
}
