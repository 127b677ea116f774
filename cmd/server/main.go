package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/internal/server"
	geopersistence "github.com/jacksonlee411/orgcatalog/modules/geo/infrastructure/persistence"
	jobpersistence "github.com/jacksonlee411/orgcatalog/modules/jobcatalog/infrastructure/persistence"
	menupersistence "github.com/jacksonlee411/orgcatalog/modules/menu/infrastructure/persistence"
	noticepersistence "github.com/jacksonlee411/orgcatalog/modules/notice/infrastructure/persistence"
	orgpersistence "github.com/jacksonlee411/orgcatalog/modules/orgstructure/infrastructure/persistence"
	personnelpersistence "github.com/jacksonlee411/orgcatalog/modules/personnel/infrastructure/persistence"
	"github.com/jacksonlee411/orgcatalog/pkg/configuration"
	"github.com/jacksonlee411/orgcatalog/pkg/database"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run() error {
	cfg, err := configuration.Load(configuration.DefaultEnvFiles...)
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.LogrusLogLevel(), logging.FileOptions{
		Dir:        cfg.Log.Dir,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.OpenPostgres(ctx, cfg.Database.DSN(), cfg.Database.ConnectRetries, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	timeout := cfg.Database.QueryTimeout
	opts := server.HandlerOptions{
		Config:        cfg,
		Logger:        logger,
		MenuStore:     menupersistence.NewMenuPGStore(pool, timeout),
		CategoryStore: jobpersistence.NewCategoryPGStore(pool, timeout),
		GeoStore:      geopersistence.NewGeoPGStore(pool, timeout),
		NoticeStore:   noticepersistence.NewNoticePGStore(pool, timeout),
	}

	if cfg.PayrollDB.URL != "" {
		payroll, err := database.OpenMSSQL(ctx, cfg.PayrollDB.URL, cfg.Database.ConnectRetries, logger)
		if err != nil {
			return err
		}
		defer payroll.Close()
		personnel := personnelpersistence.NewPersonnelMSSQLStore(payroll, timeout)
		opts.AfiliadoStore = personnel
		opts.OrgHistoryStore = personnel
		opts.OrgUnitStore = orgpersistence.NewOrgUnitMSSQLStore(payroll, timeout)
	}

	h, err := server.NewHandlerWithOptions(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
