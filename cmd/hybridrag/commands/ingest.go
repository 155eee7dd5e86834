package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestForce bool

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build the local document index",
		Long: `Build the local document index from the data folder.

An existing index is reused unless --force is given.`,
		Example: `  hybridrag ingest
  hybridrag ingest --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Index(cmd.Context(), ingestForce)
			if err != nil {
				return fmt.Errorf("ingesting: %w", err)
			}
			return renderReport(cmd.OutOrStdout(), report, outputFormat)
		},
	}

	cmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "Rebuild even if an index exists")

	return cmd
}
