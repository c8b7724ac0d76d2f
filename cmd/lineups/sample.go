package main

import (
	"bytes"
	_ "embed"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/dfs-lineups/internal/ingest"
)

//go:embed sample.csv
var sampleSlate []byte

// createTestCommand creates the test command, a smoke run of the search over
// a small slate built into the binary.
func createTestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Search the bundled sample slate",
		Long: "Run a lineup search over a ten-player sample slate shipped with the binary. " +
			"Useful to check a configuration without a CSV export.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			players, err := ingest.ReadPlayers(bytes.NewReader(sampleSlate), s.rules)
			if err != nil {
				return err
			}
			return runSearch(cmd, s, players)
		},
	}

	addSearchFlags(cmd)

	return cmd
}
