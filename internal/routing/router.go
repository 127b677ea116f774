package routing

import (
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/pkg/logging"
)

type Router struct {
	classifier *Classifier
	mux        *mux.Router
	logger     logrus.FieldLogger
	routes     []RegisteredRoute
}

type RegisteredRoute struct {
	Class  RouteClass
	Method string
	Path   string
}

func NewRouter(classifier *Classifier, logger logrus.FieldLogger) *Router {
	r := &Router{
		classifier: classifier,
		mux:        mux.NewRouter(),
		logger:     logging.OrNop(logger),
	}
	r.mux.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, r.classify(req.URL.Path), http.StatusNotFound, "not_found", "not found")
	})
	r.mux.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, r.classify(req.URL.Path), http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

func (r *Router) classify(path string) RouteClass {
	if r.classifier == nil {
		return RouteClassUI
	}
	return r.classifier.Classify(path)
}

// Use registers middleware that runs after route matching, so
// mux.CurrentRoute and mux.Vars are available to it.
func (r *Router) Use(mw ...mux.MiddlewareFunc) {
	r.mux.Use(mw...)
}

// Handle registers path (gorilla/mux template syntax) for one method.
// Routes are matched in registration order.
func (r *Router) Handle(rc RouteClass, method string, path string, h http.Handler) {
	r.routes = append(r.routes, RegisteredRoute{Class: rc, Method: method, Path: path})
	r.mux.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.WithFields(logrus.Fields{
					"panic":  rec,
					"stack":  string(debug.Stack()),
					"method": req.Method,
					"path":   req.URL.Path,
				}).Error("panic recovered in request handler")
				WriteError(w, req, rc, http.StatusInternalServerError, "internal_error", "internal error")
			}
		}()
		h.ServeHTTP(w, req)
	})).Methods(method)
}

// Routes lists registrations in order.
func (r *Router) Routes() []RegisteredRoute {
	return append([]RegisteredRoute(nil), r.routes...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func PathVar(req *http.Request, name string) string {
	return mux.Vars(req)[name]
}
