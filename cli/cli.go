package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"ministore/config"
	"ministore/core/accounts"
	"ministore/core/bootstrap"
	"ministore/core/store"
	"ministore/core/utils"
)

// ConfigLoader lets tests point the commands at a throwaway database.
type ConfigLoader func() (*config.AppConfig, error)

type runtime struct {
	cfg    *config.AppConfig
	db     *sql.DB
	svc    *bootstrap.Services
	logger *utils.Logger
}

func (rt *runtime) Close() error {
	return rt.db.Close()
}

// Execute runs the operator command line against the configured database.
func Execute() {
	if err := NewRootCommand(config.Load).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCommand(load ConfigLoader) *cobra.Command {
	var jsonOutput bool
	root := &cobra.Command{
		Use:           "ministorectl",
		Short:         "Operator tools for the MINI Store data layer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	open := func(ctx context.Context, migrate bool) (*runtime, error) {
		cfg, err := load()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		logger := utils.NewLoggerTo(os.Stderr, cfg.LogLevel)
		db, err := store.NewDB(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		if migrate {
			if err := store.ApplyMigrations(ctx, db, logger); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return &runtime{cfg: cfg, db: db, svc: bootstrap.NewServices(cfg, db, logger), logger: logger}, nil
	}

	root.AddCommand(
		migrateCommand(open, &jsonOutput),
		seedCommand(open),
		unlockCommand(open),
		resetPasswordCommand(open),
		usersCommand(open, &jsonOutput),
	)
	return root
}

type opener func(ctx context.Context, migrate bool) (*runtime, error)

func migrateCommand(open opener, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied and latest migration versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.Close()
			status, err := store.GetMigrationStatus(cmd.Context(), rt.db)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dialect=%s current=%d latest=%d pending=%t\n",
				status.Dialect, status.CurrentVersion, status.LatestVersion, status.HasPending)
			return nil
		},
	})
	return cmd
}

func seedCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed empty collections and restore the root administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.svc.Warm(cmd.Context()); err != nil {
				return err
			}
			if err := bootstrap.EnsureDefaultAdmin(cmd.Context(), rt.svc.Directory, rt.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		},
	}
}

func unlockCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <id>",
		Short: "Unlock an account and clear its failed login counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			acc, err := rt.svc.Directory.Unlock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", acc.ID, acc.Status)
			return nil
		},
	}
}

// resetPasswordCommand also works on the root administrator, which is the
// recovery path when that account is locked out.
func resetPasswordCommand(open opener) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Set a new password, or a random temporary one when --password is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx := cmd.Context()
			temporary := password == ""
			next := password
			if temporary {
				if next, err = utils.RandPassword(16); err != nil {
					return err
				}
			}
			if _, err := rt.svc.Directory.SetPassword(ctx, args[0], next, temporary); err != nil {
				return err
			}
			// A forgotten password usually comes with a lockout.
			if _, err := rt.svc.Directory.Unlock(ctx, args[0]); err != nil {
				return err
			}
			if temporary {
				fmt.Fprintf(cmd.OutOrStdout(), "temporary password for %s: %s\n", args[0], next)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "New password")
	return cmd
}

func usersCommand(open opener, jsonOutput *bool) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			// PerPage 0 returns everything on one page.
			page, err := rt.svc.Directory.Query(cmd.Context(), accounts.Filter{Statuses: accounts.ParseStatusFilter(status)})
			if err != nil {
				return err
			}
			items := make([]accounts.Account, 0, len(page.Items))
			for _, a := range page.Items {
				items = append(items, a.Sanitized())
			}
			if *jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(items)
			}
			return printAccounts(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: pending, approved, active, inactive, locked or rejected")
	return cmd
}

func printAccounts(out io.Writer, items []accounts.Account) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tSTATUS\tFAILED\tCREATED")
	for _, a := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", a.ID, a.Name, a.Role, a.Status, a.FailedLoginAttempts, a.CreatedAt)
	}
	return w.Flush()
}
