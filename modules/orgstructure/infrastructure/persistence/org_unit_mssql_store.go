package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"

	"github.com/jacksonlee411/orgcatalog/modules/orgstructure/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/orgstructure/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/database"
)

type sqlDB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type OrgUnitMSSQLStore struct {
	db      sqlDB
	timeout time.Duration
}

func NewOrgUnitMSSQLStore(db sqlDB, timeout time.Duration) *OrgUnitMSSQLStore {
	return &OrgUnitMSSQLStore{db: db, timeout: timeout}
}

func (s *OrgUnitMSSQLStore) ListOrgUnits(ctx context.Context) ([]types.OrgUnit, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT Org0, Descripcion, Activo FROM dbo.Organica0 ORDER BY Org0`)
	if err != nil {
		return nil, errors.Wrap(err, "list org units")
	}
	defer rows.Close()

	var out []types.OrgUnit
	for rows.Next() {
		var u types.OrgUnit
		if err := rows.Scan(&u.Code, &u.Name, &u.Active); err != nil {
			return nil, errors.Wrap(err, "scan org unit")
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list org units")
	}
	return out, nil
}

func (s *OrgUnitMSSQLStore) GetOrgUnit(ctx context.Context, code string) (types.OrgUnit, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	var u types.OrgUnit
	err := s.db.QueryRowContext(ctx, `SELECT Org0, Descripcion, Activo FROM dbo.Organica0 WHERE Org0 = @p1`, code).
		Scan(&u.Code, &u.Name, &u.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return types.OrgUnit{}, ports.ErrOrgUnitNotFound
	}
	if err != nil {
		return types.OrgUnit{}, errors.Wrapf(err, "get org unit %s", code)
	}
	return u, nil
}

func (s *OrgUnitMSSQLStore) CreateOrgUnit(ctx context.Context, u types.OrgUnit) error {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `INSERT INTO dbo.Organica0 (Org0, Descripcion, Activo) VALUES (@p1, @p2, @p3)`, u.Code, u.Name, u.Active)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ports.ErrOrgUnitExists
		}
		return errors.Wrapf(err, "create org unit %s", u.Code)
	}
	return nil
}

func (s *OrgUnitMSSQLStore) UpdateOrgUnit(ctx context.Context, u types.OrgUnit) error {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `UPDATE dbo.Organica0 SET Descripcion = @p2, Activo = @p3 WHERE Org0 = @p1`, u.Code, u.Name, u.Active)
	if err != nil {
		return errors.Wrapf(err, "update org unit %s", u.Code)
	}
	return affectedOne(res, ports.ErrOrgUnitNotFound)
}

func (s *OrgUnitMSSQLStore) DeleteOrgUnit(ctx context.Context, code string) error {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM dbo.Organica0 WHERE Org0 = @p1`, code)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ports.ErrOrgUnitInUse
		}
		return errors.Wrapf(err, "delete org unit %s", code)
	}
	return affectedOne(res, ports.ErrOrgUnitNotFound)
}

func (s *OrgUnitMSSQLStore) CountPersonnelRefs(ctx context.Context, code string) (int, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dbo.OrgPersonal WHERE Org0 = @p1`, code).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "count personnel refs %s", code)
	}
	return n, nil
}

func affectedOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
