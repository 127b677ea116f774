package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

type geoStoreStub struct {
	ports.GeoStore

	postal   map[string]types.PostalCode
	colonies int
	deleted  []string
	created  []types.ColonyInput
	listed   types.PostalCodeFilter
}

func (s *geoStoreStub) GetPostalCode(_ context.Context, code string) (types.PostalCode, error) {
	p, ok := s.postal[code]
	if !ok {
		return types.PostalCode{}, ports.ErrPostalCodeNotFound
	}
	return p, nil
}

func (s *geoStoreStub) CountColonies(context.Context, string) (int, error) { return s.colonies, nil }

func (s *geoStoreStub) DeletePostalCode(_ context.Context, code string) error {
	s.deleted = append(s.deleted, code)
	return nil
}

func (s *geoStoreStub) CreateColony(_ context.Context, in types.ColonyInput) (types.Colony, error) {
	s.created = append(s.created, in)
	return types.Colony{ID: len(s.created), PostalCode: in.PostalCode, Name: in.Name, Kind: in.Kind}, nil
}

func (s *geoStoreStub) ListPostalCodes(_ context.Context, f types.PostalCodeFilter) ([]types.PostalCode, error) {
	s.listed = f
	return nil, nil
}

func newStub() *geoStoreStub {
	return &geoStoreStub{postal: map[string]types.PostalCode{
		"06700": {Code: "06700", State: "Ciudad de México", Municipality: "Cuauhtémoc"},
	}}
}

func TestCreateColony_UnknownPostalCodeIs400(t *testing.T) {
	_, err := NewGeoService(newStub(), nil).CreateColony(context.Background(), types.ColonyInput{PostalCode: "99999", Name: "Centro"})
	require.Error(t, err)
	assert.True(t, httperr.IsBadRequest(err))
	assert.Equal(t, "COLONY_POSTAL_CODE_NOT_FOUND", err.Error())
}

func TestCreateColony_DefaultsKind(t *testing.T) {
	store := newStub()
	c, err := NewGeoService(store, nil).CreateColony(context.Background(), types.ColonyInput{PostalCode: "06700", Name: " Roma Norte "})
	require.NoError(t, err)
	assert.Equal(t, "Roma Norte", c.Name)
	assert.Equal(t, "Colonia", c.Kind)
}

func TestCreateColony_Validation(t *testing.T) {
	_, err := NewGeoService(newStub(), nil).CreateColony(context.Background(), types.ColonyInput{PostalCode: "6700"})
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs.Fields(), "postal_code")
	assert.Contains(t, errs.Fields(), "name")

	for _, code := range []string{"-1234", "+1234", "1.234"} {
		store := newStub()
		_, err := NewGeoService(store, nil).CreateColony(context.Background(), types.ColonyInput{PostalCode: code, Name: "Centro"})
		errs, ok := validation.AsErrors(err)
		require.True(t, ok, "postal_code=%q err=%v", code, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "postal_code", errs[0].Field)
		assert.Empty(t, store.created)
	}
}

func TestDeletePostalCode_RefusedWithColonies(t *testing.T) {
	store := newStub()
	store.colonies = 2
	err := NewGeoService(store, nil).DeletePostalCode(context.Background(), "06700")
	assert.ErrorIs(t, err, ports.ErrPostalCodeHasColonies)
	assert.Empty(t, store.deleted)

	store.colonies = 0
	require.NoError(t, NewGeoService(store, nil).DeletePostalCode(context.Background(), "06700"))
	assert.Equal(t, []string{"06700"}, store.deleted)
}

func TestCreatePostalCode_Validation(t *testing.T) {
	_, err := NewGeoService(newStub(), nil).CreatePostalCode(context.Background(), types.PostalCode{Code: "0670A", State: "CDMX"})
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "code", errs[0].Field)
	assert.Equal(t, validation.KindFormat, errs[0].Kind)
	assert.Equal(t, "municipality", errs[1].Field)
}

func TestCreatePostalCode_RejectsSignedAndDecimalCodes(t *testing.T) {
	for _, code := range []string{"-1234", "+1234", "1.234"} {
		_, err := NewGeoService(newStub(), nil).CreatePostalCode(context.Background(), types.PostalCode{Code: code, State: "CDMX", Municipality: "Cuauhtémoc"})
		errs, ok := validation.AsErrors(err)
		require.True(t, ok, "code=%q err=%v", code, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "code", errs[0].Field)
		assert.Equal(t, validation.KindFormat, errs[0].Kind)
	}
}

func TestListColonies_UnknownPostalCode(t *testing.T) {
	_, err := NewGeoService(newStub(), nil).ListColonies(context.Background(), "11111")
	assert.ErrorIs(t, err, ports.ErrPostalCodeNotFound)
}

func TestListPostalCodes_Limit(t *testing.T) {
	store := newStub()
	svc := NewGeoService(store, nil)
	_, err := svc.ListPostalCodes(context.Background(), types.PostalCodeFilter{State: " Jalisco "})
	require.NoError(t, err)
	assert.Equal(t, types.PostalCodeFilter{State: "Jalisco", Limit: defaultPostalLimit}, store.listed)

	_, err = svc.ListPostalCodes(context.Background(), types.PostalCodeFilter{Limit: maxPostalCodeResult + 1})
	_, ok := validation.AsErrors(err)
	assert.True(t, ok)
}
