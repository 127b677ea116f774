package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/orgcatalog/pkg/database/pgtest"
)

type countingPinger struct {
	failures int
	calls    int
}

func (p *countingPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestPingWithRetry_EventuallySucceeds(t *testing.T) {
	p := &countingPinger{failures: 2}
	require.NoError(t, pingWithRetry(context.Background(), "postgres", p, 5, nil))
	assert.Equal(t, 3, p.calls)
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	p := &countingPinger{failures: 10}
	err := pingWithRetry(context.Background(), "mssql", p, 2, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mssql: ping")
	assert.Equal(t, 2, p.calls)
}

func TestPingWithRetry_ZeroRetriesStillTriesOnce(t *testing.T) {
	p := &countingPinger{}
	require.NoError(t, pingWithRetry(context.Background(), "postgres", p, 0, nil))
	assert.Equal(t, 1, p.calls)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	err := WithTx(ctx, pgtest.BeginFunc(func(context.Context) (pgx.Tx, error) {
		return nil, errors.New("begin")
	}), time.Second, func(context.Context, pgx.Tx) error { return nil })
	require.EqualError(t, err, "begin")

	tx := &pgtest.Tx{}
	err = WithTx(ctx, tx, time.Second, func(ctx context.Context, _ pgx.Tx) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return errors.New("fn")
	})
	require.EqualError(t, err, "fn")
	assert.True(t, tx.RolledBack)
	assert.False(t, tx.Committed)

	tx = &pgtest.Tx{}
	require.NoError(t, WithTx(ctx, tx, 0, func(context.Context, pgx.Tx) error { return nil }))
	assert.True(t, tx.Committed)

	tx = &pgtest.Tx{CommitErr: errors.New("commit")}
	require.EqualError(t, WithTx(ctx, tx, 0, func(context.Context, pgx.Tx) error { return nil }), "commit")
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	_, ok := ctx.Deadline()
	cancel()
	assert.False(t, ok)

	ctx, cancel = WithTimeout(context.Background(), time.Minute)
	defer cancel()
	_, ok = ctx.Deadline()
	assert.True(t, ok)
}

func TestConstraintClassification(t *testing.T) {
	pgUnique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	pgFK := &pgconn.PgError{Code: "23503"}
	msUnique := fmt.Errorf("insert: %w", mssql.Error{Number: 2627})
	msIndex := mssql.Error{Number: 2601}
	msFK := mssql.Error{Number: 547}

	assert.True(t, IsUniqueViolation(pgUnique))
	assert.True(t, IsUniqueViolation(msUnique))
	assert.True(t, IsUniqueViolation(msIndex))
	assert.False(t, IsUniqueViolation(pgFK))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsForeignKeyViolation(pgFK))
	assert.True(t, IsForeignKeyViolation(msFK))
	assert.False(t, IsForeignKeyViolation(msIndex))
	assert.False(t, IsForeignKeyViolation(errors.New("x")))

	assert.Equal(t, "23505", PgErrorCode(pgUnique))
	assert.Equal(t, "", PgErrorCode(msFK))
}
