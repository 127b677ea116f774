package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jacksonlee411/orgcatalog/modules/menu/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/menu/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/database"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

const menuColumns = `id, name, sort_order, parent_id, path, icon`

type MenuPGStore struct {
	pool    database.Beginner
	timeout time.Duration
}

func NewMenuPGStore(pool database.Beginner, timeout time.Duration) *MenuPGStore {
	return &MenuPGStore{pool: pool, timeout: timeout}
}

func scanMenu(row pgx.Row) (types.Menu, error) {
	var m types.Menu
	if err := row.Scan(&m.ID, &m.Name, &m.Order, &m.ParentID, &m.Path, &m.Icon); err != nil {
		return types.Menu{}, err
	}
	return m, nil
}

func (s *MenuPGStore) ListMenus(ctx context.Context) ([]types.Menu, error) {
	var out []types.Menu
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+menuColumns+` FROM menu.menus ORDER BY parent_id NULLS FIRST, sort_order, id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m, err := scanMenu(rows)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "list menus")
	}
	return out, nil
}

func (s *MenuPGStore) GetMenu(ctx context.Context, id int) (types.Menu, error) {
	var m types.Menu
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		m, err = scanMenu(tx.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu.menus WHERE id = $1`, id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Menu{}, ports.ErrMenuNotFound
	}
	if err != nil {
		return types.Menu{}, errors.Wrapf(err, "get menu %d", id)
	}
	return m, nil
}

func (s *MenuPGStore) CreateMenu(ctx context.Context, in types.MenuInput) (types.Menu, error) {
	var m types.Menu
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		m, err = scanMenu(tx.QueryRow(ctx, `
INSERT INTO menu.menus (name, sort_order, parent_id, path, icon)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+menuColumns,
			in.Name, in.Order, in.ParentID, in.Path, in.Icon,
		))
		return err
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return types.Menu{}, httperr.NewBadRequest("MENU_PARENT_NOT_FOUND")
		}
		return types.Menu{}, errors.Wrap(err, "create menu")
	}
	return m, nil
}

func (s *MenuPGStore) UpdateMenu(ctx context.Context, id int, in types.MenuInput) (types.Menu, error) {
	var m types.Menu
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		m, err = scanMenu(tx.QueryRow(ctx, `
UPDATE menu.menus
SET name = $2, sort_order = $3, parent_id = $4, path = $5, icon = $6, updated_at = now()
WHERE id = $1
RETURNING `+menuColumns,
			id, in.Name, in.Order, in.ParentID, in.Path, in.Icon,
		))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Menu{}, ports.ErrMenuNotFound
	}
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return types.Menu{}, httperr.NewBadRequest("MENU_PARENT_NOT_FOUND")
		}
		return types.Menu{}, errors.Wrapf(err, "update menu %d", id)
	}
	return m, nil
}

func (s *MenuPGStore) DeleteMenu(ctx context.Context, id int) error {
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM menu.menus WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrMenuNotFound
		}
		return nil
	})
	if errors.Is(err, ports.ErrMenuNotFound) {
		return err
	}
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return httperr.NewConflict("MENU_HAS_CHILDREN")
		}
		return errors.Wrapf(err, "delete menu %d", id)
	}
	return nil
}

func (s *MenuPGStore) CountChildren(ctx context.Context, id int) (int, error) {
	var n int
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT count(*)::int FROM menu.menus WHERE parent_id = $1`, id).Scan(&n)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "count children of menu %d", id)
	}
	return n, nil
}
