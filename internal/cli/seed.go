package cli

import (
	"fmt"

	"wiseadvice/internal/seed"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := seed.Options{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo data",
		Long: `Load categories from a YAML fixture file (or the built-in set) and create
fake members, questions, answers and reactions through the service layer.

An admin account is created when missing. Members share one password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := rootOpts.OpenDB()
			if err != nil {
				return err
			}
			defer rootOpts.release(db)

			sum, err := seed.NewSeeder(db).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "categories: %d\nusers: %d\nposts: %d\ncomments: %d\nreactions: %d\n",
				sum.Categories, sum.Users, sum.Posts, sum.Comments, sum.Reactions)
			if rootOpts.Verbose {
				_, _ = fmt.Fprintf(out, "admin login: %s\nmember password: %s\n", adminLogin(opts), memberPassword(opts))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.NumUsers, "users", 20, "number of members to create")
	cmd.Flags().IntVar(&opts.NumPosts, "posts", 60, "number of posts to create")
	cmd.Flags().StringVar(&opts.CategoriesFile, "file", "", "category fixture file (defaults to the built-in set)")
	cmd.Flags().StringVar(&opts.AdminLogin, "admin-login", "admin", "login of the admin account")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "admin12345", "password used when the admin account is created")
	cmd.Flags().StringVar(&opts.Password, "password", seed.DefaultPassword, "password of every seeded member")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed for reproducible data (0 picks one)")

	return cmd
}

func adminLogin(o seed.Options) string {
	if o.AdminLogin == "" {
		return "admin"
	}
	return o.AdminLogin
}

func memberPassword(o seed.Options) string {
	if o.Password == "" {
		return seed.DefaultPassword
	}
	return o.Password
}
