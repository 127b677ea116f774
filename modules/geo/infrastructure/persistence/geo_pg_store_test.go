package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/database/pgtest"
)

func TestGeoPGStore_ListPostalCodes(t *testing.T) {
	tx := &pgtest.Tx{Rows: []*pgtest.Rows{{Data: [][]any{
		{"06700", "Ciudad de México", "Cuauhtémoc"},
		{"44100", "Jalisco", "Guadalajara"},
	}}}}
	got, err := NewGeoPGStore(tx, 0).ListPostalCodes(context.Background(), types.PostalCodeFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []any{"", 10}, tx.Args[0])
}

func TestGeoPGStore_DeletePostalCodeForeignKey(t *testing.T) {
	tx := &pgtest.Tx{ExecErrs: []error{&pgconn.PgError{Code: "23503"}}}
	err := NewGeoPGStore(tx, 0).DeletePostalCode(context.Background(), "06700")
	assert.ErrorIs(t, err, ports.ErrPostalCodeHasColonies)
}

func TestGeoPGStore_DeletePostalCodeMissing(t *testing.T) {
	tx := &pgtest.Tx{ExecTags: []pgconn.CommandTag{pgconn.NewCommandTag("DELETE 0")}}
	err := NewGeoPGStore(tx, 0).DeletePostalCode(context.Background(), "06700")
	assert.ErrorIs(t, err, ports.ErrPostalCodeNotFound)
}

func TestGeoPGStore_CreateColony(t *testing.T) {
	tx := &pgtest.Tx{RowQueue: []*pgtest.Row{{Vals: []any{12, "06700", "Roma Norte", "Colonia"}}}}
	c, err := NewGeoPGStore(tx, 0).CreateColony(context.Background(), types.ColonyInput{PostalCode: "06700", Name: "Roma Norte", Kind: "Colonia"})
	require.NoError(t, err)
	assert.Equal(t, types.Colony{ID: 12, PostalCode: "06700", Name: "Roma Norte", Kind: "Colonia"}, c)
	assert.True(t, tx.Committed)
}

func TestGeoPGStore_CreateColonyForeignKey(t *testing.T) {
	tx := &pgtest.Tx{RowQueue: []*pgtest.Row{{Err: &pgconn.PgError{Code: "23503"}}}}
	_, err := NewGeoPGStore(tx, 0).CreateColony(context.Background(), types.ColonyInput{PostalCode: "00000"})
	assert.ErrorIs(t, err, ports.ErrPostalCodeNotFound)
}

func TestGeoPGStore_UpdateColony(t *testing.T) {
	tx := &pgtest.Tx{RowQueue: []*pgtest.Row{{Err: pgx.ErrNoRows}}}
	_, err := NewGeoPGStore(tx, 0).UpdateColony(context.Background(), 5, types.ColonyInput{})
	assert.ErrorIs(t, err, ports.ErrColonyNotFound)

	tx = &pgtest.Tx{RowQueue: []*pgtest.Row{{Err: errors.New("conn")}}}
	_, err = NewGeoPGStore(tx, 0).UpdateColony(context.Background(), 5, types.ColonyInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update colony 5")
}

func TestGeoPGStore_GetColonyAndCount(t *testing.T) {
	tx := &pgtest.Tx{RowQueue: []*pgtest.Row{
		{Vals: []any{3, "44100", "Centro", "Barrio"}},
		{Vals: []any{7}},
	}}
	store := NewGeoPGStore(tx, 0)
	c, err := store.GetColony(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Barrio", c.Kind)

	n, err := store.CountColonies(context.Background(), "44100")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
