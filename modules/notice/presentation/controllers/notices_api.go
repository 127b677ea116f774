package controllers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	"github.com/jacksonlee411/orgcatalog/modules/notice/domain/types"
)

type NoticeService interface {
	List(ctx context.Context, asOf string) ([]types.Notice, error)
	Get(ctx context.Context, id string) (types.Notice, error)
	Create(ctx context.Context, in types.NoticeInput) (types.Notice, error)
	Update(ctx context.Context, id string, in types.NoticeInput) (types.Notice, error)
	Delete(ctx context.Context, id string) error
}

type NoticesController struct {
	Service NoticeService
	Logger  logrus.FieldLogger
}

func (c NoticesController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.List(r.Context(), r.URL.Query().Get("as_of"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, items)
}

func (c NoticesController) Get(w http.ResponseWriter, r *http.Request) {
	n, err := c.Service.Get(r.Context(), routing.PathVar(r, "id"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, n)
}

func (c NoticesController) Create(w http.ResponseWriter, r *http.Request) {
	var in types.NoticeInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	n, err := c.Service.Create(r.Context(), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusCreated, n)
}

func (c NoticesController) Update(w http.ResponseWriter, r *http.Request) {
	var in types.NoticeInput
	if err := routing.DecodeJSON(r, &in); err != nil {
		c.fail(w, r, err)
		return
	}
	n, err := c.Service.Update(r.Context(), routing.PathVar(r, "id"), in)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, n)
}

func (c NoticesController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), routing.PathVar(r, "id")); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c NoticesController) fail(w http.ResponseWriter, r *http.Request, err error) {
	routing.WriteServiceError(w, r, c.Logger, "NOTICE", err)
}
