// Package pgtest holds pgx fakes shared by store tests.
package pgtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type BeginFunc func(ctx context.Context) (pgx.Tx, error)

func (f BeginFunc) Begin(ctx context.Context) (pgx.Tx, error) { return f(ctx) }

// Tx replays queued results in call order. Exec, Query and QueryRow have
// separate queues; an exhausted queue yields an error.
type Tx struct {
	ExecTags  []pgconn.CommandTag
	ExecErrs  []error
	Rows      []*Rows
	QueryErrs []error
	RowQueue  []*Row
	CommitErr error

	SQL        []string
	Args       [][]any
	Committed  bool
	RolledBack bool

	execN  int
	queryN int
	rowN   int
}

func (t *Tx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (t *Tx) Commit(context.Context) error {
	if t.CommitErr != nil {
		return t.CommitErr
	}
	t.Committed = true
	return nil
}
func (t *Tx) Rollback(context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}
func (t *Tx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *Tx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (t *Tx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *Tx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *Tx) Conn() *pgx.Conn { return nil }

func (t *Tx) record(sql string, args []any) {
	t.SQL = append(t.SQL, sql)
	t.Args = append(t.Args, args)
}

func (t *Tx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.record(sql, args)
	i := t.execN
	t.execN++
	if i < len(t.ExecErrs) && t.ExecErrs[i] != nil {
		return pgconn.CommandTag{}, t.ExecErrs[i]
	}
	if i < len(t.ExecTags) {
		return t.ExecTags[i], nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (t *Tx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.record(sql, args)
	i := t.queryN
	t.queryN++
	if i < len(t.QueryErrs) && t.QueryErrs[i] != nil {
		return nil, t.QueryErrs[i]
	}
	if i < len(t.Rows) {
		return t.Rows[i], nil
	}
	return nil, errors.New("query not mocked")
}

func (t *Tx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.record(sql, args)
	i := t.rowN
	t.rowN++
	if i < len(t.RowQueue) {
		return t.RowQueue[i]
	}
	return &Row{Err: errors.New("row not mocked")}
}

type Row struct {
	Vals []any
	Err  error
}

func (r *Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(r.Vals, dest)
}

type Rows struct {
	Data    [][]any
	ScanErr error
	Error   error

	idx    int
	closed bool
}

func (r *Rows) Close()                        { r.closed = true }
func (r *Rows) Err() error                    { return r.Error }
func (r *Rows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}
func (r *Rows) Next() bool {
	if r.closed || r.idx >= len(r.Data) {
		return false
	}
	r.idx++
	return true
}
func (r *Rows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	return assign(r.Data[r.idx-1], dest)
}
func (r *Rows) Values() ([]any, error) { return r.Data[r.idx-1], nil }
func (r *Rows) RawValues() [][]byte    { return nil }
func (r *Rows) Conn() *pgx.Conn        { return nil }

func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("pgtest: %d values for %d destinations", len(vals), len(dest))
	}
	for i, v := range vals {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *int64:
			*d = v.(int64)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		case *[]byte:
			*d = v.([]byte)
		case **int:
			if v == nil {
				*d = nil
				continue
			}
			n := v.(int)
			*d = &n
		case **string:
			if v == nil {
				*d = nil
				continue
			}
			s := v.(string)
			*d = &s
		case **time.Time:
			if v == nil {
				*d = nil
				continue
			}
			tm := v.(time.Time)
			*d = &tm
		default:
			return fmt.Errorf("pgtest: unsupported destination %T", dest[i])
		}
	}
	return nil
}
