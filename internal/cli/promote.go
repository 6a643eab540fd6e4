package cli

import (
	"fmt"
	"strings"

	"wiseadvice/internal/repository"
	"wiseadvice/internal/service"

	"github.com/spf13/cobra"
)

// NewPromoteCommand creates the promote command.
func NewPromoteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <login>",
		Short: "Grant the admin role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := strings.TrimSpace(args[0])
			if login == "" {
				return fmt.Errorf("login is required")
			}

			db, err := rootOpts.OpenDB()
			if err != nil {
				return err
			}
			defer rootOpts.release(db)

			repos := repository.New(db)
			auth := service.NewAuthorizer(repos.Users)
			users := service.NewUserService(repos, auth, service.NewReactionService(repos, auth))

			user, err := users.Promote(cmd.Context(), login)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d) is now an admin\n", user.Login, user.ID)
			return nil
		},
	}
}
