package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

type geoServiceStub struct {
	GeoService
	err error
}

func (s geoServiceStub) CreateColony(context.Context, types.ColonyInput) (types.Colony, error) {
	return types.Colony{}, s.err
}

func (s geoServiceStub) DeletePostalCode(context.Context, string) error { return s.err }

func (s geoServiceStub) ListColonies(_ context.Context, code string) ([]types.Colony, error) {
	return []types.Colony{{ID: 1, PostalCode: code, Name: "Centro", Kind: "Colonia"}}, s.err
}

func TestGeoController_CreateColonyUnknownPostalCode(t *testing.T) {
	c := GeoController{Service: geoServiceStub{err: httperr.NewBadRequest("COLONY_POSTAL_CODE_NOT_FOUND")}}
	rec := httptest.NewRecorder()
	c.CreateColony(rec, httptest.NewRequest(http.MethodPost, "/geo/api/colonies", strings.NewReader(`{"postal_code":"99999","name":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"COLONY_POSTAL_CODE_NOT_FOUND"`)
}

func TestGeoController_DeletePostalCodeWithColonies(t *testing.T) {
	c := GeoController{Service: geoServiceStub{err: ports.ErrPostalCodeHasColonies}}
	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/geo/api/postal-codes/06700", nil), map[string]string{"code": "06700"})
	rec := httptest.NewRecorder()
	c.DeletePostalCode(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "POSTAL_CODE_HAS_COLONIES")
}

func TestGeoController_ListColoniesUsesPathCode(t *testing.T) {
	c := GeoController{Service: geoServiceStub{}}
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/geo/api/postal-codes/44100/colonies", nil), map[string]string{"code": "44100"})
	rec := httptest.NewRecorder()
	c.ListColonies(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"id":1,"postal_code":"44100","name":"Centro","kind":"Colonia"}]}`, rec.Body.String())
}

func TestGeoController_ListPostalCodesBadLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	GeoController{Service: geoServiceStub{}}.ListPostalCodes(rec, httptest.NewRequest(http.MethodGet, "/geo/api/postal-codes?limit=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_limit")
}
