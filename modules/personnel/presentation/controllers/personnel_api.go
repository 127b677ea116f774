package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	"github.com/jacksonlee411/orgcatalog/modules/personnel/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

const errorPrefix = "PERSONNEL"

type PersonnelService interface {
	ListAfiliados(ctx context.Context, f types.AfiliadoFilter) ([]types.Afiliado, error)
	GetAfiliado(ctx context.Context, num int) (types.Afiliado, error)
	CreateAfiliado(ctx context.Context, in types.AfiliadoInput) (types.Afiliado, error)
	UpdateAfiliado(ctx context.Context, num int, in types.AfiliadoInput) (types.Afiliado, error)
	DeleteAfiliado(ctx context.Context, num int) error
	OrgHistory(ctx context.Context, num int) ([]types.OrgRecord, error)
	CurrentOrgRecord(ctx context.Context, num int, f types.OrgFilter) (types.OrgRecord, error)
	Roster(ctx context.Context, f types.OrgFilter) ([]types.RosterEntry, error)
}

type PersonnelController struct {
	Service PersonnelService
	Logger  logrus.FieldLogger
}

func (c PersonnelController) ListAfiliados(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), "limit")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	offset, err := queryInt(q.Get("offset"), "offset")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	items, err := c.Service.ListAfiliados(r.Context(), types.AfiliadoFilter{Query: q.Get("q"), Limit: limit, Offset: offset})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, items)
}

func (c PersonnelController) GetAfiliado(w http.ResponseWriter, r *http.Request) {
	num, err := routing.IntPathVar(r, "num")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	a, err := c.Service.GetAfiliado(r.Context(), num)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, a)
}

func (c PersonnelController) CreateAfiliado(w http.ResponseWriter, r *http.Request) {
	var in types.AfiliadoInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	a, err := c.Service.CreateAfiliado(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusCreated, a)
}

func (c PersonnelController) UpdateAfiliado(w http.ResponseWriter, r *http.Request) {
	num, err := routing.IntPathVar(r, "num")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	var in types.AfiliadoInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	a, err := c.Service.UpdateAfiliado(r.Context(), num, in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, a)
}

func (c PersonnelController) DeleteAfiliado(w http.ResponseWriter, r *http.Request) {
	num, err := routing.IntPathVar(r, "num")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if err := c.Service.DeleteAfiliado(r.Context(), num); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c PersonnelController) OrgHistory(w http.ResponseWriter, r *http.Request) {
	num, err := routing.IntPathVar(r, "num")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	items, err := c.Service.OrgHistory(r.Context(), num)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, items)
}

func (c PersonnelController) OrgCurrent(w http.ResponseWriter, r *http.Request) {
	num, err := routing.IntPathVar(r, "num")
	if err != nil {
		c.fail(w, r, err)
		return
	}
	rec, err := c.Service.CurrentOrgRecord(r.Context(), num, orgFilterFromQuery(r))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, rec)
}

func (c PersonnelController) OrgRoster(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.Roster(r.Context(), orgFilterFromQuery(r))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, items)
}

func (c PersonnelController) fail(w http.ResponseWriter, r *http.Request, err error) {
	routing.WriteServiceError(w, r, c.Logger, errorPrefix, err)
}

func orgFilterFromQuery(r *http.Request) types.OrgFilter {
	q := r.URL.Query()
	f := types.OrgFilter{Org0: q.Get("org0"), Org1: q.Get("org1")}
	for _, raw := range q["status"] {
		f.Statuses = append(f.Statuses, strings.Split(raw, ",")...)
	}
	return f
}

func queryInt(raw string, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, httperr.NewBadRequest("invalid_" + name)
	}
	return n, nil
}
