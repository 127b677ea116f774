package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mssqlUniqueConstraint  = 2627
	mssqlUniqueIndex       = 2601
	mssqlReferenceConflict = 547
)

func PgErrorCode(err error) string {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok && pgErr != nil {
		return strings.TrimSpace(pgErr.Code)
	}
	return ""
}

func mssqlNumber(err error) int32 {
	if e, ok := errors.AsType[mssql.Error](err); ok {
		return e.Number
	}
	if e, ok := errors.AsType[*mssql.Error](err); ok && e != nil {
		return e.Number
	}
	return 0
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if PgErrorCode(err) == pgUniqueViolation {
		return true
	}
	n := mssqlNumber(err)
	return n == mssqlUniqueConstraint || n == mssqlUniqueIndex
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if PgErrorCode(err) == pgForeignKeyViolation {
		return true
	}
	return mssqlNumber(err) == mssqlReferenceConflict
}
