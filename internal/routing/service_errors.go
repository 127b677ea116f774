package routing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

const maxJSONBody = 1 << 20

var errBadJSON = httperr.NewBadRequest("bad_json")

// DecodeJSON reads a single JSON object into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errBadJSON
	}
	if dec.More() {
		return errBadJSON
	}
	return nil
}

// WriteServiceError maps typed service errors onto the error envelope.
// Validation failures use prefix+"_VALIDATION_FAILED"; httperr kinds carry
// their stable code as the error text.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger, prefix string, err error) {
	if errs, ok := validation.AsErrors(err); ok {
		WriteError(w, r, RouteClassInternalAPI, http.StatusUnprocessableEntity, prefix+"_VALIDATION_FAILED", errs.Error())
		return
	}
	if e, ok := errors.AsType[*httperr.BadRequestError](err); ok {
		WriteError(w, r, RouteClassInternalAPI, http.StatusBadRequest, e.Error(), e.Error())
		return
	}
	if e, ok := errors.AsType[*httperr.NotFoundError](err); ok {
		WriteError(w, r, RouteClassInternalAPI, http.StatusNotFound, e.Error(), e.Error())
		return
	}
	if e, ok := errors.AsType[*httperr.ConflictError](err); ok {
		WriteError(w, r, RouteClassInternalAPI, http.StatusConflict, e.Error(), e.Error())
		return
	}
	logging.OrNop(logger).WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"method": r.Method,
	}).WithError(err).Error("request failed")
	WriteError(w, r, RouteClassInternalAPI, http.StatusInternalServerError, "internal_error", "internal error")
}

// IntPathVar parses a positive integer path variable.
func IntPathVar(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(PathVar(r, name))
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, httperr.NewBadRequest("invalid_" + name)
	}
	return n, nil
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
}

func WriteList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = make([]T, 0)
	}
	WriteJSON(w, http.StatusOK, ListResponse[T]{Items: items})
}
