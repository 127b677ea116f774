package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/routing"
	geoports "github.com/jacksonlee411/orgcatalog/modules/geo/domain/ports"
	geoservices "github.com/jacksonlee411/orgcatalog/modules/geo/services"
	geocontrollers "github.com/jacksonlee411/orgcatalog/modules/geo/presentation/controllers"
	jobports "github.com/jacksonlee411/orgcatalog/modules/jobcatalog/domain/ports"
	jobcontrollers "github.com/jacksonlee411/orgcatalog/modules/jobcatalog/presentation/controllers"
	jobservices "github.com/jacksonlee411/orgcatalog/modules/jobcatalog/services"
	logports "github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/ports"
	logpersistence "github.com/jacksonlee411/orgcatalog/modules/logadmin/infrastructure/persistence"
	logcontrollers "github.com/jacksonlee411/orgcatalog/modules/logadmin/presentation/controllers"
	logservices "github.com/jacksonlee411/orgcatalog/modules/logadmin/services"
	menuports "github.com/jacksonlee411/orgcatalog/modules/menu/domain/ports"
	menupersistence "github.com/jacksonlee411/orgcatalog/modules/menu/infrastructure/persistence"
	menucontrollers "github.com/jacksonlee411/orgcatalog/modules/menu/presentation/controllers"
	menuservices "github.com/jacksonlee411/orgcatalog/modules/menu/services"
	noticeports "github.com/jacksonlee411/orgcatalog/modules/notice/domain/ports"
	noticecontrollers "github.com/jacksonlee411/orgcatalog/modules/notice/presentation/controllers"
	noticeservices "github.com/jacksonlee411/orgcatalog/modules/notice/services"
	orgports "github.com/jacksonlee411/orgcatalog/modules/orgstructure/domain/ports"
	orgcontrollers "github.com/jacksonlee411/orgcatalog/modules/orgstructure/presentation/controllers"
	orgservices "github.com/jacksonlee411/orgcatalog/modules/orgstructure/services"
	personnelports "github.com/jacksonlee411/orgcatalog/modules/personnel/domain/ports"
	personnelcontrollers "github.com/jacksonlee411/orgcatalog/modules/personnel/presentation/controllers"
	personnelservices "github.com/jacksonlee411/orgcatalog/modules/personnel/services"
	"github.com/jacksonlee411/orgcatalog/pkg/authz"
	"github.com/jacksonlee411/orgcatalog/pkg/configuration"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/metrics"
)

// HandlerOptions carries the stores behind each module. A module whose
// store is nil is not mounted, except menus (in-memory fallback) and log
// files (LOG_DIR).
type HandlerOptions struct {
	Config     *configuration.Configuration
	Logger     logrus.FieldLogger
	Registry   *prometheus.Registry
	Authorizer authorizer

	MenuStore       menuports.MenuStore
	AfiliadoStore   personnelports.AfiliadoStore
	OrgHistoryStore personnelports.OrgHistoryStore
	OrgUnitStore    orgports.OrgUnitStore
	CategoryStore   jobports.CategoryStore
	GeoStore        geoports.GeoStore
	NoticeStore     noticeports.NoticeStore
	LogStore        logports.LogStore
}

func NewHandlerWithOptions(opts HandlerOptions) (http.Handler, error) {
	router, err := newRouter(opts)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	logger := logging.OrNop(opts.Logger)

	var h http.Handler = router
	h = withRequestLogger(logger, cfg.RequestIDHeader, h)
	if len(cfg.CORSAllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", "Accept", "traceparent", cfg.Authz.RoleHeader, cfg.RequestIDHeader},
			ExposedHeaders: []string{cfg.RequestIDHeader, "Content-Disposition"},
		}).Handler(h)
	}
	return h, nil
}

func newRouter(opts HandlerOptions) (*routing.Router, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("server: missing configuration")
	}
	logger := logging.OrNop(opts.Logger)

	allowlistPath, err := resolveConfigPath(cfg.AllowlistPath)
	if err != nil {
		return nil, err
	}
	a, err := routing.LoadAllowlist(allowlistPath)
	if err != nil {
		return nil, err
	}
	classifier, err := routing.NewClassifier(a, "server")
	if err != nil {
		return nil, err
	}

	authorizer := opts.Authorizer
	if authorizer == nil {
		authorizer, err = loadAuthorizer(cfg)
		if err != nil {
			return nil, err
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routing.NewRouter(classifier, logger)
	router.Use(httpMetrics.Middleware, withAuthz(classifier, authorizer, cfg.Authz.RoleHeader, logger))

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	router.Handle(routing.RouteClassOps, http.MethodGet, "/health", ok)
	router.Handle(routing.RouteClassOps, http.MethodGet, "/healthz", ok)
	if cfg.Prometheus.Enabled {
		prom := metrics.NewPrometheusController(cfg.Prometheus.Path, registry)
		router.Handle(routing.RouteClassOps, http.MethodGet, prom.Key(), prom.Handler())
	}

	menuStore := opts.MenuStore
	if menuStore == nil {
		logger.Warn("menu store not configured; using in-memory menus")
		menuStore = menupersistence.NewMenuMemoryStore()
	}
	mountMenus(router, menucontrollers.MenusController{
		Service: menuservices.NewMenuService(menuStore, logger),
		Logger:  logger,
		Metrics: httpMetrics,
	})

	if opts.AfiliadoStore != nil && opts.OrgHistoryStore != nil {
		mountPersonnel(router, personnelcontrollers.PersonnelController{
			Service: personnelservices.NewPersonnelService(opts.AfiliadoStore, opts.OrgHistoryStore, logger),
			Logger:  logger,
		})
	} else {
		logger.Warn("personnel stores not configured; personnel routes disabled")
	}
	if opts.OrgUnitStore != nil {
		mountOrgStructure(router, orgcontrollers.OrgUnitsController{
			Service: orgservices.NewOrgUnitService(opts.OrgUnitStore, logger),
			Logger:  logger,
		})
	} else {
		logger.Warn("org unit store not configured; orgstructure routes disabled")
	}
	if opts.CategoryStore != nil {
		mountJobCatalog(router, jobcontrollers.CategoriesController{
			Service: jobservices.NewCategoryService(opts.CategoryStore, logger),
			Logger:  logger,
		})
	}
	if opts.GeoStore != nil {
		mountGeo(router, geocontrollers.GeoController{
			Service: geoservices.NewGeoService(opts.GeoStore, logger),
			Logger:  logger,
		})
	}
	if opts.NoticeStore != nil {
		mountNotices(router, noticecontrollers.NoticesController{
			Service: noticeservices.NewNoticeService(opts.NoticeStore, nil, logger),
			Logger:  logger,
		})
	}

	logStore := opts.LogStore
	if logStore == nil {
		logStore = logpersistence.NewLogDirStore(cfg.Log.Dir)
	}
	mountLogAdmin(router, logcontrollers.LogFilesController{
		Service: logservices.NewLogService(logStore, cfg.Log.File, logger),
		Logger:  logger,
	})

	return router, nil
}

func api(router *routing.Router, method string, path string, h http.HandlerFunc) {
	router.Handle(routing.RouteClassInternalAPI, method, path, h)
}

func mountMenus(router *routing.Router, c menucontrollers.MenusController) {
	api(router, http.MethodGet, "/menu/api/menus", c.List)
	api(router, http.MethodPost, "/menu/api/menus", c.Create)
	api(router, http.MethodGet, "/menu/api/menus:tree", c.Tree)
	api(router, http.MethodGet, "/menu/api/menus/{id}", c.Get)
	api(router, http.MethodPut, "/menu/api/menus/{id}", c.Update)
	api(router, http.MethodDelete, "/menu/api/menus/{id}", c.Delete)
}

func mountPersonnel(router *routing.Router, c personnelcontrollers.PersonnelController) {
	api(router, http.MethodGet, "/personnel/api/afiliados", c.ListAfiliados)
	api(router, http.MethodPost, "/personnel/api/afiliados", c.CreateAfiliado)
	api(router, http.MethodGet, "/personnel/api/afiliados/{num}", c.GetAfiliado)
	api(router, http.MethodPut, "/personnel/api/afiliados/{num}", c.UpdateAfiliado)
	api(router, http.MethodDelete, "/personnel/api/afiliados/{num}", c.DeleteAfiliado)
	api(router, http.MethodGet, "/personnel/api/afiliados/{num}/org-history", c.OrgHistory)
	api(router, http.MethodGet, "/personnel/api/afiliados/{num}/org-current", c.OrgCurrent)
	api(router, http.MethodGet, "/personnel/api/org-roster", c.OrgRoster)
}

func mountOrgStructure(router *routing.Router, c orgcontrollers.OrgUnitsController) {
	api(router, http.MethodGet, "/orgstructure/api/organica0", c.List)
	api(router, http.MethodPost, "/orgstructure/api/organica0", c.Create)
	api(router, http.MethodGet, "/orgstructure/api/organica0/{code}", c.Get)
	api(router, http.MethodPut, "/orgstructure/api/organica0/{code}", c.Update)
	api(router, http.MethodDelete, "/orgstructure/api/organica0/{code}", c.Delete)
}

func mountJobCatalog(router *routing.Router, c jobcontrollers.CategoriesController) {
	api(router, http.MethodGet, "/jobcatalog/api/categories", c.List)
	api(router, http.MethodPost, "/jobcatalog/api/categories", c.Create)
	api(router, http.MethodGet, "/jobcatalog/api/categories/{code}", c.Get)
	api(router, http.MethodPut, "/jobcatalog/api/categories/{code}", c.Update)
	api(router, http.MethodDelete, "/jobcatalog/api/categories/{code}", c.Delete)
}

func mountGeo(router *routing.Router, c geocontrollers.GeoController) {
	api(router, http.MethodGet, "/geo/api/postal-codes", c.ListPostalCodes)
	api(router, http.MethodPost, "/geo/api/postal-codes", c.CreatePostalCode)
	api(router, http.MethodGet, "/geo/api/postal-codes/{code}", c.GetPostalCode)
	api(router, http.MethodPut, "/geo/api/postal-codes/{code}", c.UpdatePostalCode)
	api(router, http.MethodDelete, "/geo/api/postal-codes/{code}", c.DeletePostalCode)
	api(router, http.MethodGet, "/geo/api/postal-codes/{code}/colonies", c.ListColonies)
	api(router, http.MethodPost, "/geo/api/colonies", c.CreateColony)
	api(router, http.MethodGet, "/geo/api/colonies/{id}", c.GetColony)
	api(router, http.MethodPut, "/geo/api/colonies/{id}", c.UpdateColony)
	api(router, http.MethodDelete, "/geo/api/colonies/{id}", c.DeleteColony)
}

func mountNotices(router *routing.Router, c noticecontrollers.NoticesController) {
	api(router, http.MethodGet, "/notice/api/notices", c.List)
	api(router, http.MethodPost, "/notice/api/notices", c.Create)
	api(router, http.MethodGet, "/notice/api/notices/{id}", c.Get)
	api(router, http.MethodPut, "/notice/api/notices/{id}", c.Update)
	api(router, http.MethodDelete, "/notice/api/notices/{id}", c.Delete)
}

func mountLogAdmin(router *routing.Router, c logcontrollers.LogFilesController) {
	api(router, http.MethodGet, "/logadmin/api/files", c.List)
	api(router, http.MethodPost, "/logadmin/api/files:prune", c.Prune)
	// {name}:download must be registered before {name}.
	api(router, http.MethodGet, "/logadmin/api/files/{name}:download", c.Download)
	api(router, http.MethodGet, "/logadmin/api/files/{name}", c.Tail)
	api(router, http.MethodDelete, "/logadmin/api/files/{name}", c.Delete)
}

// resolveConfigPath returns path when it exists and otherwise looks for it
// in parent directories, so tests can run from package directories.
func resolveConfigPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	candidate := path
	for range 8 {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		candidate = filepath.Join("..", candidate)
	}
	return "", errors.New("server: config file not found: " + path)
}

func loadAuthorizer(cfg *configuration.Configuration) (*authz.Authorizer, error) {
	modelPath, err := resolveConfigPath(cfg.Authz.ModelPath)
	if err != nil {
		return nil, err
	}
	policyPath, err := resolveConfigPath(cfg.Authz.PolicyPath)
	if err != nil {
		return nil, err
	}
	return authz.NewAuthorizer(modelPath, policyPath, cfg.AuthzMode())
}
