package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/database"
)

type GeoPGStore struct {
	pool    database.Beginner
	timeout time.Duration
}

func NewGeoPGStore(pool database.Beginner, timeout time.Duration) *GeoPGStore {
	return &GeoPGStore{pool: pool, timeout: timeout}
}

func (s *GeoPGStore) tx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return database.WithTx(ctx, s.pool, s.timeout, fn)
}

func (s *GeoPGStore) ListPostalCodes(ctx context.Context, f types.PostalCodeFilter) ([]types.PostalCode, error) {
	var out []types.PostalCode
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
SELECT code, state, municipality
FROM geo.postal_codes
WHERE ($1 = '' OR state = $1)
ORDER BY code
LIMIT $2`, f.State, f.Limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p types.PostalCode
			if err := rows.Scan(&p.Code, &p.State, &p.Municipality); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "list postal codes")
	}
	return out, nil
}

func (s *GeoPGStore) GetPostalCode(ctx context.Context, code string) (types.PostalCode, error) {
	var p types.PostalCode
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT code, state, municipality FROM geo.postal_codes WHERE code = $1`, code).
			Scan(&p.Code, &p.State, &p.Municipality)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return types.PostalCode{}, ports.ErrPostalCodeNotFound
	}
	if err != nil {
		return types.PostalCode{}, errors.Wrapf(err, "get postal code %s", code)
	}
	return p, nil
}

func (s *GeoPGStore) CreatePostalCode(ctx context.Context, p types.PostalCode) error {
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO geo.postal_codes (code, state, municipality) VALUES ($1, $2, $3)`,
			p.Code, p.State, p.Municipality)
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ports.ErrPostalCodeExists
		}
		return errors.Wrapf(err, "create postal code %s", p.Code)
	}
	return nil
}

func (s *GeoPGStore) UpdatePostalCode(ctx context.Context, p types.PostalCode) error {
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE geo.postal_codes SET state = $2, municipality = $3 WHERE code = $1`,
			p.Code, p.State, p.Municipality)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrPostalCodeNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ports.ErrPostalCodeNotFound) {
		return errors.Wrapf(err, "update postal code %s", p.Code)
	}
	return err
}

func (s *GeoPGStore) DeletePostalCode(ctx context.Context, code string) error {
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM geo.postal_codes WHERE code = $1`, code)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrPostalCodeNotFound
		}
		return nil
	})
	switch {
	case err == nil, errors.Is(err, ports.ErrPostalCodeNotFound):
		return err
	case database.IsForeignKeyViolation(err):
		return ports.ErrPostalCodeHasColonies
	default:
		return errors.Wrapf(err, "delete postal code %s", code)
	}
}

func (s *GeoPGStore) CountColonies(ctx context.Context, code string) (int, error) {
	var n int
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT count(*)::int FROM geo.colonies WHERE postal_code = $1`, code).Scan(&n)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "count colonies %s", code)
	}
	return n, nil
}

const colonyColumns = `id, postal_code, name, kind`

func scanColony(row pgx.Row) (types.Colony, error) {
	var c types.Colony
	err := row.Scan(&c.ID, &c.PostalCode, &c.Name, &c.Kind)
	return c, err
}

func (s *GeoPGStore) ListColonies(ctx context.Context, postalCode string) ([]types.Colony, error) {
	var out []types.Colony
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+colonyColumns+` FROM geo.colonies WHERE postal_code = $1 ORDER BY name, id`, postalCode)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanColony(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list colonies %s", postalCode)
	}
	return out, nil
}

func (s *GeoPGStore) GetColony(ctx context.Context, id int) (types.Colony, error) {
	var c types.Colony
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		c, err = scanColony(tx.QueryRow(ctx, `SELECT `+colonyColumns+` FROM geo.colonies WHERE id = $1`, id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Colony{}, ports.ErrColonyNotFound
	}
	if err != nil {
		return types.Colony{}, errors.Wrapf(err, "get colony %d", id)
	}
	return c, nil
}

func (s *GeoPGStore) CreateColony(ctx context.Context, in types.ColonyInput) (types.Colony, error) {
	var c types.Colony
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		c, err = scanColony(tx.QueryRow(ctx, `
INSERT INTO geo.colonies (postal_code, name, kind)
VALUES ($1, $2, $3)
RETURNING `+colonyColumns, in.PostalCode, in.Name, in.Kind))
		return err
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return types.Colony{}, ports.ErrPostalCodeNotFound
		}
		return types.Colony{}, errors.Wrap(err, "create colony")
	}
	return c, nil
}

func (s *GeoPGStore) UpdateColony(ctx context.Context, id int, in types.ColonyInput) (types.Colony, error) {
	var c types.Colony
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		c, err = scanColony(tx.QueryRow(ctx, `
UPDATE geo.colonies SET postal_code = $2, name = $3, kind = $4
WHERE id = $1
RETURNING `+colonyColumns, id, in.PostalCode, in.Name, in.Kind))
		return err
	})
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, pgx.ErrNoRows):
		return types.Colony{}, ports.ErrColonyNotFound
	case database.IsForeignKeyViolation(err):
		return types.Colony{}, ports.ErrPostalCodeNotFound
	default:
		return types.Colony{}, errors.Wrapf(err, "update colony %d", id)
	}
}

func (s *GeoPGStore) DeleteColony(ctx context.Context, id int) error {
	err := s.tx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM geo.colonies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrColonyNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ports.ErrColonyNotFound) {
		return errors.Wrapf(err, "delete colony %d", id)
	}
	return err
}
