package controllers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	"github.com/jacksonlee411/orgcatalog/modules/menu/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/hierarchy"
)

const (
	errMenuParentCycle = "MENU_PARENT_CYCLE"
	errorPrefix        = "MENU"
)

type MenuService interface {
	List(ctx context.Context) ([]types.Menu, error)
	Tree(ctx context.Context) ([]*types.MenuTreeNode, error)
	Get(ctx context.Context, id int) (types.Menu, error)
	Create(ctx context.Context, in types.MenuInput) (types.Menu, error)
	Update(ctx context.Context, id int, in types.MenuInput) (types.Menu, error)
	Delete(ctx context.Context, id int) error
}

type Rejecter interface {
	Reject(code string)
}

type MenusController struct {
	Service MenuService
	Logger  logrus.FieldLogger
	Metrics Rejecter
}

func (c MenusController) List(w http.ResponseWriter, r *http.Request) {
	menus, err := c.Service.List(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	routing.WriteList(w, menus)
}

func (c MenusController) Tree(w http.ResponseWriter, r *http.Request) {
	nodes, err := c.Service.Tree(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	routing.WriteList(w, nodes)
}

func (c MenusController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := routing.IntPathVar(r, "id")
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	m, err := c.Service.Get(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, m)
}

func (c MenusController) Create(w http.ResponseWriter, r *http.Request) {
	var in types.MenuInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.writeError(w, r, err)
		return
	}
	m, err := c.Service.Create(r.Context(), in)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusCreated, m)
}

func (c MenusController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := routing.IntPathVar(r, "id")
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	var in types.MenuInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.writeError(w, r, err)
		return
	}
	m, err := c.Service.Update(r.Context(), id, in)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, m)
}

func (c MenusController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := routing.IntPathVar(r, "id")
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c MenusController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if hierarchy.IsCycle(err) {
		if c.Metrics != nil {
			c.Metrics.Reject(errMenuParentCycle)
		}
		routing.WriteError(w, r, routing.RouteClassInternalAPI, http.StatusBadRequest, errMenuParentCycle, "")
		return
	}
	routing.WriteServiceError(w, r, c.Logger, errorPrefix, err)
}
