package controllers

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	"github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
)

type LogService interface {
	List(ctx context.Context) ([]types.LogFile, error)
	Tail(ctx context.Context, name string, n int) (types.LogTail, error)
	Open(ctx context.Context, name string) (io.ReadCloser, types.LogFile, error)
	Delete(ctx context.Context, name string) error
	Prune(ctx context.Context, req types.PruneRequest) (types.PruneResult, error)
}

type LogFilesController struct {
	Service LogService
	Logger  logrus.FieldLogger
}

func (c LogFilesController) List(w http.ResponseWriter, r *http.Request) {
	files, err := c.Service.List(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteList(w, files)
}

func (c LogFilesController) Tail(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("tail")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.fail(w, r, httperr.NewBadRequest("invalid_tail"))
			return
		}
		n = v
	}
	tail, err := c.Service.Tail(r.Context(), routing.PathVar(r, "name"), n)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, tail)
}

func (c LogFilesController) Download(w http.ResponseWriter, r *http.Request) {
	rc, info, err := c.Service.Open(r.Context(), routing.PathVar(r, "name"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name}))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logging.OrNop(c.Logger).WithError(err).WithField("file", info.Name).Warn("log download interrupted")
	}
}

func (c LogFilesController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), routing.PathVar(r, "name")); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c LogFilesController) Prune(w http.ResponseWriter, r *http.Request) {
	var req types.PruneRequest
	if err := routing.DecodeJSON(r, &req); err != nil {
		c.fail(w, r, err)
		return
	}
	res, err := c.Service.Prune(r.Context(), req)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, res)
}

func (c LogFilesController) fail(w http.ResponseWriter, r *http.Request, err error) {
	routing.WriteServiceError(w, r, c.Logger, "LOG_FILE", err)
}
