package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/jacksonlee411/orgcatalog/modules/personnel/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/personnel/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/database"
)

type sqlDB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PersonnelMSSQLStore reads the payroll tables AfiliadoPersonal and
// OrgPersonal through go-mssqldb (@pN placeholders).
type PersonnelMSSQLStore struct {
	db      sqlDB
	timeout time.Duration
}

func NewPersonnelMSSQLStore(db sqlDB, timeout time.Duration) *PersonnelMSSQLStore {
	return &PersonnelMSSQLStore{db: db, timeout: timeout}
}

const (
	afiliadoColumns = `NumEmpleado, Nombres, ApellidoPaterno, ApellidoMaterno, RFC, CURP, Status, FechaIngreso`
	afiliadoSelect  = `NumEmpleado, Nombres, ApellidoPaterno, COALESCE(ApellidoMaterno, ''), RFC, COALESCE(CURP, ''), Status, FechaIngreso`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanAfiliado(row scanner) (types.Afiliado, error) {
	var a types.Afiliado
	err := row.Scan(&a.EmployeeNumber, &a.FirstNames, &a.PaternalSurname, &a.MaternalSurname, &a.RFC, &a.CURP, &a.Status, &a.HireDate)
	return a, err
}

// likeEscaper neutralizes the SQL Server LIKE wildcards in a search term.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `[`, `\[`)

func (s *PersonnelMSSQLStore) ListAfiliados(ctx context.Context, f types.AfiliadoFilter) ([]types.Afiliado, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `SELECT ` + afiliadoSelect + ` FROM dbo.AfiliadoPersonal`
	args := []any{}
	if q := strings.TrimSpace(f.Query); q != "" {
		query += ` WHERE Nombres LIKE @p1 ESCAPE '\' OR ApellidoPaterno LIKE @p1 ESCAPE '\'` +
			` OR ApellidoMaterno LIKE @p1 ESCAPE '\' OR RFC LIKE @p1 ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
	}
	query += fmt.Sprintf(` ORDER BY NumEmpleado OFFSET @p%d ROWS FETCH NEXT @p%d ROWS ONLY`, len(args)+1, len(args)+2)
	args = append(args, f.Offset, f.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list afiliados")
	}
	defer rows.Close()

	var out []types.Afiliado
	for rows.Next() {
		a, err := scanAfiliado(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan afiliado")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list afiliados")
	}
	return out, nil
}

func (s *PersonnelMSSQLStore) GetAfiliado(ctx context.Context, num int) (types.Afiliado, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	a, err := scanAfiliado(s.db.QueryRowContext(ctx, `SELECT `+afiliadoSelect+` FROM dbo.AfiliadoPersonal WHERE NumEmpleado = @p1`, num))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Afiliado{}, ports.ErrAfiliadoNotFound
	}
	if err != nil {
		return types.Afiliado{}, errors.Wrapf(err, "get afiliado %d", num)
	}
	return a, nil
}

func (s *PersonnelMSSQLStore) CreateAfiliado(ctx context.Context, a types.Afiliado) error {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO dbo.AfiliadoPersonal (`+afiliadoColumns+`)
VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)`,
		a.EmployeeNumber, a.FirstNames, a.PaternalSurname, a.MaternalSurname, a.RFC, a.CURP, a.Status, a.HireDate)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ports.ErrAfiliadoExists
		}
		return errors.Wrapf(err, "create afiliado %d", a.EmployeeNumber)
	}
	return nil
}

func (s *PersonnelMSSQLStore) UpdateAfiliado(ctx context.Context, a types.Afiliado) error {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
UPDATE dbo.AfiliadoPersonal
SET Nombres = @p2, ApellidoPaterno = @p3, ApellidoMaterno = @p4, RFC = @p5, CURP = @p6, Status = @p7, FechaIngreso = @p8
WHERE NumEmpleado = @p1`,
		a.EmployeeNumber, a.FirstNames, a.PaternalSurname, a.MaternalSurname, a.RFC, a.CURP, a.Status, a.HireDate)
	if err != nil {
		return errors.Wrapf(err, "update afiliado %d", a.EmployeeNumber)
	}
	return requireOneRow(res, ports.ErrAfiliadoNotFound)
}

func (s *PersonnelMSSQLStore) DeleteAfiliado(ctx context.Context, num int) error {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM dbo.AfiliadoPersonal WHERE NumEmpleado = @p1`, num)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ports.ErrAfiliadoInUse
		}
		return errors.Wrapf(err, "delete afiliado %d", num)
	}
	return requireOneRow(res, ports.ErrAfiliadoNotFound)
}

func requireOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

const orgColumns = `o.NumEmpleado, o.FechaEfectiva, o.Consecutivo, o.Status, o.Org0, o.Org1, o.CategoriaPuesto, o.Puesto`

func orgDest(r *types.OrgRecord) []any {
	return []any{&r.EmployeeNumber, &r.EffectiveDate, &r.Sequence, &r.Status, &r.Org0, &r.Org1, &r.JobCategory, &r.Position}
}

func (s *PersonnelMSSQLStore) ListOrgHistory(ctx context.Context, num int) ([]types.OrgRecord, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT `+orgColumns+`
FROM dbo.OrgPersonal o
WHERE o.NumEmpleado = @p1
ORDER BY o.FechaEfectiva DESC, o.Consecutivo DESC`, num)
	if err != nil {
		return nil, errors.Wrapf(err, "org history %d", num)
	}
	defer rows.Close()

	var out []types.OrgRecord
	for rows.Next() {
		var r types.OrgRecord
		if err := rows.Scan(orgDest(&r)...); err != nil {
			return nil, errors.Wrap(err, "scan org record")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "org history %d", num)
	}
	return out, nil
}

// ListOrgRoster returns, per employee, the org rows at the greatest
// effective date and then the greatest sequence among rows matching f.
// Duplicated history rows come back as several entries for one employee.
func (s *PersonnelMSSQLStore) ListOrgRoster(ctx context.Context, f types.OrgFilter) ([]types.RosterEntry, error) {
	ctx, cancel := database.WithTimeout(ctx, s.timeout)
	defer cancel()

	query, args := buildRosterQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "org roster")
	}
	defer rows.Close()

	var out []types.RosterEntry
	for rows.Next() {
		var e types.RosterEntry
		dest := append(orgDest(&e.OrgRecord), &e.FirstNames, &e.PaternalSurname, &e.MaternalSurname)
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "scan roster entry")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "org roster")
	}
	return out, nil
}

func buildRosterQuery(f types.OrgFilter) (string, []any) {
	var args []any
	param := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("@p%d", len(args))
	}

	org0 := param(f.Org0)
	var org1 string
	if f.Org1 != "" {
		org1 = param(f.Org1)
	}
	statuses := make([]string, 0, len(f.Statuses))
	for _, st := range f.Statuses {
		statuses = append(statuses, param(st))
	}
	// filter renders the shared predicate for table alias a.
	filter := func(a string) string {
		parts := []string{a + ".Org0 = " + org0}
		if org1 != "" {
			parts = append(parts, a+".Org1 = "+org1)
		}
		if len(statuses) > 0 {
			parts = append(parts, a+".Status IN ("+strings.Join(statuses, ", ")+")")
		}
		return strings.Join(parts, " AND ")
	}

	query := `
SELECT ` + orgColumns + `, a.Nombres, a.ApellidoPaterno, COALESCE(a.ApellidoMaterno, '')
FROM dbo.OrgPersonal o
JOIN dbo.AfiliadoPersonal a ON a.NumEmpleado = o.NumEmpleado
WHERE ` + filter("o") + `
  AND o.FechaEfectiva = (
    SELECT MAX(d.FechaEfectiva) FROM dbo.OrgPersonal d
    WHERE d.NumEmpleado = o.NumEmpleado AND ` + filter("d") + `)
  AND o.Consecutivo = (
    SELECT MAX(c.Consecutivo) FROM dbo.OrgPersonal c
    WHERE c.NumEmpleado = o.NumEmpleado AND c.FechaEfectiva = o.FechaEfectiva AND ` + filter("c") + `)
ORDER BY o.NumEmpleado`
	return query, args
}
