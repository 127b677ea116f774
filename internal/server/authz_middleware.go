package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	"github.com/jacksonlee411/orgcatalog/pkg/authz"
)

type authorizer interface {
	Authorize(subject string, domain string, object string, action string) (allowed bool, enforced bool, err error)
}

type requirement struct {
	object string
	action string
}

func read(object string) requirement  { return requirement{object: object, action: authz.ActionRead} }
func admin(object string) requirement { return requirement{object: object, action: authz.ActionAdmin} }

// routeRequirements is keyed by "METHOD template". Routes without an entry
// (ops endpoints) are not checked.
var routeRequirements = map[string]requirement{
	"GET /menu/api/menus":         read(authz.ObjectMenuMenus),
	"POST /menu/api/menus":        admin(authz.ObjectMenuMenus),
	"GET /menu/api/menus:tree":    read(authz.ObjectMenuMenus),
	"GET /menu/api/menus/{id}":    read(authz.ObjectMenuMenus),
	"PUT /menu/api/menus/{id}":    admin(authz.ObjectMenuMenus),
	"DELETE /menu/api/menus/{id}": admin(authz.ObjectMenuMenus),

	"GET /personnel/api/afiliados":                   read(authz.ObjectPersonnelAfiliados),
	"POST /personnel/api/afiliados":                  admin(authz.ObjectPersonnelAfiliados),
	"GET /personnel/api/afiliados/{num}":             read(authz.ObjectPersonnelAfiliados),
	"PUT /personnel/api/afiliados/{num}":             admin(authz.ObjectPersonnelAfiliados),
	"DELETE /personnel/api/afiliados/{num}":          admin(authz.ObjectPersonnelAfiliados),
	"GET /personnel/api/afiliados/{num}/org-history": read(authz.ObjectPersonnelOrgHistory),
	"GET /personnel/api/afiliados/{num}/org-current": read(authz.ObjectPersonnelOrgHistory),
	"GET /personnel/api/org-roster":                  read(authz.ObjectPersonnelOrgHistory),

	"GET /orgstructure/api/organica0":           read(authz.ObjectOrgStructureOrganica0),
	"POST /orgstructure/api/organica0":          admin(authz.ObjectOrgStructureOrganica0),
	"GET /orgstructure/api/organica0/{code}":    read(authz.ObjectOrgStructureOrganica0),
	"PUT /orgstructure/api/organica0/{code}":    admin(authz.ObjectOrgStructureOrganica0),
	"DELETE /orgstructure/api/organica0/{code}": admin(authz.ObjectOrgStructureOrganica0),

	"GET /jobcatalog/api/categories":           read(authz.ObjectJobCatalogCategories),
	"POST /jobcatalog/api/categories":          admin(authz.ObjectJobCatalogCategories),
	"GET /jobcatalog/api/categories/{code}":    read(authz.ObjectJobCatalogCategories),
	"PUT /jobcatalog/api/categories/{code}":    admin(authz.ObjectJobCatalogCategories),
	"DELETE /jobcatalog/api/categories/{code}": admin(authz.ObjectJobCatalogCategories),

	"GET /geo/api/postal-codes":                 read(authz.ObjectGeoPostalCodes),
	"POST /geo/api/postal-codes":                admin(authz.ObjectGeoPostalCodes),
	"GET /geo/api/postal-codes/{code}":          read(authz.ObjectGeoPostalCodes),
	"PUT /geo/api/postal-codes/{code}":          admin(authz.ObjectGeoPostalCodes),
	"DELETE /geo/api/postal-codes/{code}":       admin(authz.ObjectGeoPostalCodes),
	"GET /geo/api/postal-codes/{code}/colonies": read(authz.ObjectGeoColonies),
	"POST /geo/api/colonies":                    admin(authz.ObjectGeoColonies),
	"GET /geo/api/colonies/{id}":                read(authz.ObjectGeoColonies),
	"PUT /geo/api/colonies/{id}":                admin(authz.ObjectGeoColonies),
	"DELETE /geo/api/colonies/{id}":             admin(authz.ObjectGeoColonies),

	"GET /notice/api/notices":         read(authz.ObjectNoticeNotices),
	"POST /notice/api/notices":        admin(authz.ObjectNoticeNotices),
	"GET /notice/api/notices/{id}":    read(authz.ObjectNoticeNotices),
	"PUT /notice/api/notices/{id}":    admin(authz.ObjectNoticeNotices),
	"DELETE /notice/api/notices/{id}": admin(authz.ObjectNoticeNotices),

	"GET /logadmin/api/files":                 read(authz.ObjectLogAdminFiles),
	"POST /logadmin/api/files:prune":          admin(authz.ObjectLogAdminFiles),
	"GET /logadmin/api/files/{name}:download": read(authz.ObjectLogAdminFiles),
	"GET /logadmin/api/files/{name}":          read(authz.ObjectLogAdminFiles),
	"DELETE /logadmin/api/files/{name}":       admin(authz.ObjectLogAdminFiles),
}

func authzRequirementForRoute(method string, template string) (requirement, bool) {
	req, ok := routeRequirements[method+" "+template]
	return req, ok
}

// withAuthz runs as router middleware, after matching, so it checks the
// route template rather than the raw path. The subject comes from the role
// header set by the upstream gateway.
func withAuthz(classifier *routing.Classifier, a authorizer, roleHeader string, logger logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			if route == nil {
				next.ServeHTTP(w, r)
				return
			}
			template, err := route.GetPathTemplate()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			req, shouldCheck := authzRequirementForRoute(r.Method, template)
			if !shouldCheck {
				next.ServeHTTP(w, r)
				return
			}

			rc := classifier.Classify(r.URL.Path)
			subject := authz.SubjectFromRoleSlug(r.Header.Get(roleHeader))
			allowed, enforced, err := a.Authorize(subject, authz.DomainGlobal, req.object, req.action)
			if err != nil {
				logger.WithError(err).Error("authz check failed")
				routing.WriteError(w, r, rc, http.StatusInternalServerError, "authz_error", "authz error")
				return
			}
			if !allowed {
				entry := logger.WithFields(logrus.Fields{
					"subject": subject,
					"object":  req.object,
					"action":  req.action,
				})
				if !enforced {
					entry.Warn("authz denied (shadow)")
				} else {
					entry.Info("authz denied")
					routing.WriteError(w, r, rc, http.StatusForbidden, "forbidden", "forbidden")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
