package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	"github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

type CategoryService interface {
	List(ctx context.Context, active *bool) ([]types.JobCategory, error)
	Get(ctx context.Context, code string) (types.JobCategory, error)
	Create(ctx context.Context, in types.JobCategoryInput) (types.JobCategory, error)
	Update(ctx context.Context, code string, in types.JobCategoryInput) (types.JobCategory, error)
	Delete(ctx context.Context, code string) error
}

type CategoriesController struct {
	Service CategoryService
	Logger  logrus.FieldLogger
}

func (c CategoriesController) List(w http.ResponseWriter, r *http.Request) {
	active, err := parseActive(r.URL.Query().Get("active"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	items, err := c.Service.List(r.Context(), active)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, items)
}

func (c CategoriesController) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := c.Service.Get(r.Context(), routing.PathVar(r, "code"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, cat)
}

func (c CategoriesController) Create(w http.ResponseWriter, r *http.Request) {
	var in types.JobCategoryInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	cat, err := c.Service.Create(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusCreated, cat)
}

func (c CategoriesController) Update(w http.ResponseWriter, r *http.Request) {
	var in types.JobCategoryInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	cat, err := c.Service.Update(r.Context(), routing.PathVar(r, "code"), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, cat)
}

func (c CategoriesController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), routing.PathVar(r, "code")); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c CategoriesController) fail(w http.ResponseWriter, r *http.Request, err error) {
	routing.WriteServiceError(w, r, c.Logger, "JOB_CATEGORY", err)
}

func parseActive(raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, httperr.NewBadRequest("invalid_active")
	}
	return &v, nil
}
