package cli

import (
	"fmt"

	"wiseadvice/internal/database"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := rootOpts.OpenDB()
			if err != nil {
				return err
			}
			defer rootOpts.release(db)

			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%d tables)\n", len(database.PersistentModels()))
			return nil
		},
	}
}
