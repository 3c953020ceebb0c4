package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/medisys-io/ipdflow/internal/config"
	v1 "github.com/medisys-io/ipdflow/internal/handler/v1"
	"github.com/medisys-io/ipdflow/internal/repository/postgres"
	"github.com/medisys-io/ipdflow/internal/service"
	"github.com/medisys-io/ipdflow/pkg/auth"
	"github.com/medisys-io/ipdflow/pkg/database"
	"github.com/medisys-io/ipdflow/pkg/logger"
	"github.com/medisys-io/ipdflow/pkg/metrics"
	"github.com/medisys-io/ipdflow/pkg/tracer"
	"github.com/medisys-io/ipdflow/pkg/ws"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("ipdflow")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	patientRepo := postgres.NewPatientRepo(db)
	wardRepo := postgres.NewWardRepo(db)
	admissionRepo := postgres.NewAdmissionRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	referenceRepo := postgres.NewReferenceRepo(db)
	userRepo := postgres.NewUserRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	hub := ws.NewHub(log.Named("ws"))

	auditSvc := service.NewAuditService(auditRepo, log.Named("audit"))
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, log.Named("auth"))
	patientSvc := service.NewPatientService(patientRepo, auditSvc, log.Named("patient"))
	wardSvc := service.NewWardService(wardRepo, admissionRepo, referenceRepo, log.Named("ward"))
	admissionSvc := service.NewAdmissionService(
		admissionRepo, reportRepo, wardRepo, patientRepo, referenceRepo,
		hub, auditSvc, collector, log.Named("admission"),
	)

	router := v1.NewRouter(cfg, jwtManager, collector, v1.Handlers{
		Auth:      v1.NewAuthHandler(authSvc),
		Patient:   v1.NewPatientHandler(patientSvc),
		Ward:      v1.NewWardHandler(wardSvc),
		Admission: v1.NewAdmissionHandler(admissionSvc),
		WS:        ws.NewHandler(hub, cfg.CORS.AllowedOrigins, log.Named("ws")),
	}, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
