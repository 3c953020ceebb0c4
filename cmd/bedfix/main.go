// Command bedfix is a one-shot repair tool for legacy bed data. Wards
// imported before range expansion carry single bed rows like "1 To 15";
// bedfix expands those into individual beds, removes duplicates, and
// sorts each ward's beds numerically. Safe to re-run.
package main

import (
	"context"
	"os"
	"time"

	"github.com/medisys-io/ipdflow/internal/config"
	"github.com/medisys-io/ipdflow/internal/repository/postgres"
	"github.com/medisys-io/ipdflow/internal/service"
	"github.com/medisys-io/ipdflow/pkg/database"
	"github.com/medisys-io/ipdflow/pkg/logger"
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

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	wardSvc := service.NewWardService(
		postgres.NewWardRepo(db),
		postgres.NewAdmissionRepo(db),
		postgres.NewReferenceRepo(db),
		log.Named("bedfix"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	migrated, err := wardSvc.NormalizeBeds(ctx)
	if err != nil {
		log.Fatal("bed normalization failed",
			zap.Int("wards_migrated", migrated),
			zap.Error(err),
		)
	}

	log.Info("bed normalization complete", zap.Int("wards_migrated", migrated))
}
