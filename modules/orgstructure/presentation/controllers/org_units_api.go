package controllers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	"github.com/jacksonlee411/orgcatalog/modules/orgstructure/domain/types"
)

type OrgUnitService interface {
	List(ctx context.Context) ([]types.OrgUnit, error)
	Get(ctx context.Context, code string) (types.OrgUnit, error)
	Create(ctx context.Context, in types.OrgUnitInput) (types.OrgUnit, error)
	Update(ctx context.Context, code string, in types.OrgUnitInput) (types.OrgUnit, error)
	Delete(ctx context.Context, code string) error
}

type OrgUnitsController struct {
	Service OrgUnitService
	Logger  logrus.FieldLogger
}

func (c OrgUnitsController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.List(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, items)
}

func (c OrgUnitsController) Get(w http.ResponseWriter, r *http.Request) {
	u, err := c.Service.Get(r.Context(), routing.PathVar(r, "code"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, u)
}

func (c OrgUnitsController) Create(w http.ResponseWriter, r *http.Request) {
	var in types.OrgUnitInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	u, err := c.Service.Create(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusCreated, u)
}

func (c OrgUnitsController) Update(w http.ResponseWriter, r *http.Request) {
	var in types.OrgUnitInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	u, err := c.Service.Update(r.Context(), routing.PathVar(r, "code"), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, u)
}

func (c OrgUnitsController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), routing.PathVar(r, "code")); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c OrgUnitsController) fail(w http.ResponseWriter, r *http.Request, err error) {
	routing.WriteServiceError(w, r, c.Logger, "ORG_UNIT", err)
}
