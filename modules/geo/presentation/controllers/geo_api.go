package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	"github.com/jacksonlee411/orgcatalog/modules/geo/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

type GeoService interface {
	ListPostalCodes(ctx context.Context, f types.PostalCodeFilter) ([]types.PostalCode, error)
	GetPostalCode(ctx context.Context, code string) (types.PostalCode, error)
	CreatePostalCode(ctx context.Context, p types.PostalCode) (types.PostalCode, error)
	UpdatePostalCode(ctx context.Context, code string, p types.PostalCode) (types.PostalCode, error)
	DeletePostalCode(ctx context.Context, code string) error
	ListColonies(ctx context.Context, postalCode string) ([]types.Colony, error)
	GetColony(ctx context.Context, id int) (types.Colony, error)
	CreateColony(ctx context.Context, in types.ColonyInput) (types.Colony, error)
	UpdateColony(ctx context.Context, id int, in types.ColonyInput) (types.Colony, error)
	DeleteColony(ctx context.Context, id int) error
}

type GeoController struct {
	Service GeoService
	Logger  logrus.FieldLogger
}

func (c GeoController) ListPostalCodes(w http.ResponseWriter, r *http.Request) {
	f := types.PostalCodeFilter{State: r.URL.Query().Get("state")}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.fail(w, r, httperr.NewBadRequest("invalid_limit"))
			return
		}
		f.Limit = n
	}
	items, err := c.Service.ListPostalCodes(r.Context(), f)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, items)
}

func (c GeoController) GetPostalCode(w http.ResponseWriter, r *http.Request) {
	p, err := c.Service.GetPostalCode(r.Context(), routing.PathVar(r, "code"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, p)
}

func (c GeoController) CreatePostalCode(w http.ResponseWriter, r *http.Request) {
	var in types.PostalCode
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	p, err := c.Service.CreatePostalCode(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusCreated, p)
}

func (c GeoController) UpdatePostalCode(w http.ResponseWriter, r *http.Request) {
	var in types.PostalCode
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	p, err := c.Service.UpdatePostalCode(r.Context(), routing.PathVar(r, "code"), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, p)
}

func (c GeoController) DeletePostalCode(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeletePostalCode(r.Context(), routing.PathVar(r, "code")); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c GeoController) ListColonies(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListColonies(r.Context(), routing.PathVar(r, "code"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, items)
}

func (c GeoController) GetColony(w http.ResponseWriter, r *http.Request) {
	id, err := routing.IntPathVar(r, "id")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	col, err := c.Service.GetColony(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, col)
}

func (c GeoController) CreateColony(w http.ResponseWriter, r *http.Request) {
	var in types.ColonyInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	col, err := c.Service.CreateColony(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusCreated, col)
}

func (c GeoController) UpdateColony(w http.ResponseWriter, r *http.Request) {
	id, err := routing.IntPathVar(r, "id")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	var in types.ColonyInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	col, err := c.Service.UpdateColony(r.Context(), id, in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, col)
}

func (c GeoController) DeleteColony(w http.ResponseWriter, r *http.Request) {
	id, err := routing.IntPathVar(r, "id")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if err := c.Service.DeleteColony(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c GeoController) fail(w http.ResponseWriter, r *http.Request, err error) {
	routing.WriteServiceError(w, r, c.Logger, "GEO", err)
}
