// Package migrations holds the Postgres schema for the catalog stores and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"time"

	"github.com/go-faster/errors"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/pkg/logging"
)

//go:embed sql/*.sql
var embedded embed.FS

// FS returns the migration files rooted at their directory.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

type Runner struct {
	provider *goose.Provider
	logger   logrus.FieldLogger
}

func NewRunner(db *sql.DB, logger logrus.FieldLogger) (*Runner, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, FS())
	if err != nil {
		return nil, errors.Wrap(err, "migrations: provider")
	}
	return &Runner{provider: p, logger: logging.OrNop(logger)}, nil
}

// Versions lists the embedded migration versions in order.
func (r *Runner) Versions() []int64 {
	sources := r.provider.ListSources()
	out := make([]int64, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Version)
	}
	return out
}

func (r *Runner) logResult(res *goose.MigrationResult) {
	if res == nil || res.Source == nil {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"version":   res.Source.Version,
		"direction": res.Direction,
		"duration":  res.Duration.String(),
	}).Info("migration applied")
}

// Up applies every pending migration and returns how many ran.
func (r *Runner) Up(ctx context.Context) (int, error) {
	results, err := r.provider.Up(ctx)
	for _, res := range results {
		r.logResult(res)
	}
	if err != nil {
		return len(results), errors.Wrap(err, "migrations: up")
	}
	return len(results), nil
}

// Down rolls back the latest applied migration. It reports false when
// nothing was applied.
func (r *Runner) Down(ctx context.Context) (bool, error) {
	res, err := r.provider.Down(ctx)
	if errors.Is(err, goose.ErrNoNextVersion) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "migrations: down")
	}
	r.logResult(res)
	return true, nil
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	st, err := r.provider.Status(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "migrations: status")
	}
	out := make([]Status, 0, len(st))
	for _, s := range st {
		out = append(out, Status{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}
