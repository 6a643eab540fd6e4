// Package cli implements the wisectl operations tool.
package cli

import (
	"fmt"

	"wiseadvice/internal/config"
	"wiseadvice/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	Verbose bool
	// OpenDB connects to the configured database and CloseDB releases it.
	// Tests replace both.
	OpenDB  func() (*gorm.DB, error)
	CloseDB func(*gorm.DB)
}

// NewRootCommand creates the wisectl root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{OpenDB: openConfiguredDB, CloseDB: closeDB})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wisectl",
		Short:         "Wise Advice operations tool",
		Long:          "Migrate, seed and administer a Wise Advice database, or watch a notification stream.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewPromoteCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

func openConfiguredDB() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func (o *RootOptions) release(db *gorm.DB) {
	if o.CloseDB != nil {
		o.CloseDB(db)
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
