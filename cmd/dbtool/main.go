package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jacksonlee411/orgcatalog/internal/migrations"
	logpersistence "github.com/jacksonlee411/orgcatalog/modules/logadmin/infrastructure/persistence"
	logtypes "github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/types"
	logservices "github.com/jacksonlee411/orgcatalog/modules/logadmin/services"
	menuports "github.com/jacksonlee411/orgcatalog/modules/menu/domain/ports"
	menupersistence "github.com/jacksonlee411/orgcatalog/modules/menu/infrastructure/persistence"
	menuservices "github.com/jacksonlee411/orgcatalog/modules/menu/services"
	"github.com/jacksonlee411/orgcatalog/pkg/configuration"
	"github.com/jacksonlee411/orgcatalog/pkg/database"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
)

var errMenuCycles = errors.New("menu parent cycles found")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}

type globalFlags struct {
	url     string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Maintenance commands for the org catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.url, "url", "", "postgres connection string (default: DATABASE_URL or DB_*)")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 2*time.Minute, "overall command timeout")

	root.AddCommand(newMigrateCmd(g), newMenusVerifyCmd(g), newLogsPruneCmd(g))
	return root
}

func loadConfig(g *globalFlags) (*configuration.Configuration, error) {
	cfg, err := configuration.Load(configuration.DefaultEnvFiles...)
	if err != nil {
		return nil, err
	}
	if g.url != "" {
		cfg.Database.URL = g.url
	}
	return cfg, nil
}

func cliLogger(cfg *configuration.Configuration) logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(cfg.LogrusLogLevel())
	return l
}

func newMigrateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the Postgres schema migrations",
	}
	run := func(fn func(ctx context.Context, r *migrations.Runner, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			logger := cliLogger(cfg)
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()

			pool, err := database.OpenPostgres(ctx, cfg.Database.DSN(), cfg.Database.ConnectRetries, logger)
			if err != nil {
				return err
			}
			defer pool.Close()
			db := stdlib.OpenDBFromPool(pool)
			defer db.Close()

			r, err := migrations.NewRunner(db, logger)
			if err != nil {
				return err
			}
			return fn(ctx, r, cmd.OutOrStdout())
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, r *migrations.Runner, out io.Writer) error {
				n, err := r.Up(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "[migrate-up] OK applied=%d\n", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, r *migrations.Runner, out io.Writer) error {
				rolled, err := r.Down(ctx)
				if err != nil {
					return err
				}
				if !rolled {
					_, _ = fmt.Fprintln(out, "[migrate-down] nothing to roll back")
					return nil
				}
				_, _ = fmt.Fprintln(out, "[migrate-down] OK")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, r *migrations.Runner, out io.Writer) error {
				st, err := r.Status(ctx)
				if err != nil {
					return err
				}
				printStatus(out, st)
				return nil
			}),
		},
	)
	return cmd
}

func printStatus(out io.Writer, st []migrations.Status) {
	for _, s := range st {
		state := "pending"
		if s.Applied {
			state = "applied " + s.AppliedAt.UTC().Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(out, "%05d %-24s %s\n", s.Version, s.Path, state)
	}
}

func newMenusVerifyCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "menus-verify",
		Short: "Check every stored menu parent link for cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			logger := cliLogger(cfg)
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()

			pool, err := database.OpenPostgres(ctx, cfg.Database.DSN(), cfg.Database.ConnectRetries, logger)
			if err != nil {
				return err
			}
			defer pool.Close()
			return verifyMenus(ctx, menupersistence.NewMenuPGStore(pool, cfg.Database.QueryTimeout), logger, cmd.OutOrStdout())
		},
	}
}

func verifyMenus(ctx context.Context, store menuports.MenuStore, logger logrus.FieldLogger, out io.Writer) error {
	bad, err := menuservices.NewMenuService(store, logger).Verify(ctx)
	if err != nil {
		return err
	}
	if len(bad) > 0 {
		for _, id := range bad {
			_, _ = fmt.Fprintf(out, "menu %d: parent chain loops\n", id)
		}
		return errors.Wrapf(errMenuCycles, "%d menus", len(bad))
	}
	_, _ = fmt.Fprintln(out, "[menus-verify] OK")
	return nil
}

func newLogsPruneCmd(g *globalFlags) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "logs-prune",
		Short: "Delete rotated log files older than N days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			return pruneLogs(cmd.Context(), cfg.Log, days, logging.Nop(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&days, "older-than-days", 30, "delete files last modified more than this many days ago")
	return cmd
}

func pruneLogs(ctx context.Context, opts configuration.LogOptions, days int, logger logrus.FieldLogger, out io.Writer) error {
	svc := logservices.NewLogService(logpersistence.NewLogDirStore(opts.Dir), opts.File, logger)
	res, err := svc.Prune(ctx, logtypes.PruneRequest{OlderThanDays: days})
	if err != nil {
		return err
	}
	for _, name := range res.Deleted {
		_, _ = fmt.Fprintf(out, "deleted %s\n", name)
	}
	_, _ = fmt.Fprintf(out, "[logs-prune] OK deleted=%d\n", len(res.Deleted))
	return nil
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
