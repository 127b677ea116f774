package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/database"
)

type CategoryPGStore struct {
	pool    database.Beginner
	timeout time.Duration
}

func NewCategoryPGStore(pool database.Beginner, timeout time.Duration) *CategoryPGStore {
	return &CategoryPGStore{pool: pool, timeout: timeout}
}

func (s *CategoryPGStore) ListCategories(ctx context.Context, active *bool) ([]types.JobCategory, error) {
	var out []types.JobCategory
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
SELECT code, name, level, active
FROM jobcatalog.categories
WHERE ($1::boolean IS NULL OR active = $1::boolean)
ORDER BY level, code`, active)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var c types.JobCategory
			if err := rows.Scan(&c.Code, &c.Name, &c.Level, &c.Active); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "list job categories")
	}
	return out, nil
}

func (s *CategoryPGStore) GetCategory(ctx context.Context, code string) (types.JobCategory, error) {
	var c types.JobCategory
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT code, name, level, active FROM jobcatalog.categories WHERE code = $1`, code).
			Scan(&c.Code, &c.Name, &c.Level, &c.Active)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return types.JobCategory{}, ports.ErrCategoryNotFound
	}
	if err != nil {
		return types.JobCategory{}, errors.Wrapf(err, "get job category %s", code)
	}
	return c, nil
}

func (s *CategoryPGStore) CreateCategory(ctx context.Context, c types.JobCategory) error {
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO jobcatalog.categories (code, name, level, active) VALUES ($1, $2, $3, $4)`,
			c.Code, c.Name, c.Level, c.Active)
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ports.ErrCategoryExists
		}
		return errors.Wrapf(err, "create job category %s", c.Code)
	}
	return nil
}

func (s *CategoryPGStore) UpdateCategory(ctx context.Context, c types.JobCategory) error {
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
UPDATE jobcatalog.categories
SET name = $2, level = $3, active = $4, updated_at = now()
WHERE code = $1`, c.Code, c.Name, c.Level, c.Active)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ports.ErrCategoryNotFound) {
		return errors.Wrapf(err, "update job category %s", c.Code)
	}
	return err
}

func (s *CategoryPGStore) DeleteCategory(ctx context.Context, code string) error {
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM jobcatalog.categories WHERE code = $1`, code)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ports.ErrCategoryNotFound) {
		return errors.Wrapf(err, "delete job category %s", code)
	}
	return err
}
