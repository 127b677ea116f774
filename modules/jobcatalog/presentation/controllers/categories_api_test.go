package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/types"
)

type serviceStub struct {
	CategoryService
	gotActive *bool
	listCalls int
	getErr    error
}

func (s *serviceStub) List(_ context.Context, active *bool) ([]types.JobCategory, error) {
	s.listCalls++
	s.gotActive = active
	return []types.JobCategory{{Code: "ADM", Name: "Administrativo", Level: 1, Active: true}}, nil
}

func (s *serviceStub) Get(context.Context, string) (types.JobCategory, error) {
	return types.JobCategory{}, s.getErr
}

func TestCategoriesController_ListActiveFilter(t *testing.T) {
	cases := []struct {
		query  string
		want   *bool
		status int
	}{
		{query: "", want: nil, status: http.StatusOK},
		{query: "?active=true", want: new(true), status: http.StatusOK},
		{query: "?active=0", want: new(false), status: http.StatusOK},
		{query: "?active=maybe", status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		stub := &serviceStub{}
		rec := httptest.NewRecorder()
		CategoriesController{Service: stub}.List(rec, httptest.NewRequest(http.MethodGet, "/jobcatalog/api/categories"+tc.query, nil))
		require.Equal(t, tc.status, rec.Code, tc.query)
		if tc.status != http.StatusOK {
			assert.Zero(t, stub.listCalls)
			continue
		}
		assert.Equal(t, tc.want, stub.gotActive, tc.query)
	}
}

func TestCategoriesController_GetNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	CategoriesController{Service: &serviceStub{getErr: ports.ErrCategoryNotFound}}.
		Get(rec, httptest.NewRequest(http.MethodGet, "/jobcatalog/api/categories/X", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "JOB_CATEGORY_NOT_FOUND")
}
