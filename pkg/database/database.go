package database

import (
	"fmt"
	"time"

	"github.com/medisys-io/ipdflow/internal/config"
	"github.com/medisys-io/ipdflow/internal/domain"
	"github.com/medisys-io/ipdflow/internal/domain/admission"
	"github.com/medisys-io/ipdflow/internal/domain/patient"
	"github.com/medisys-io/ipdflow/internal/domain/reference"
	"github.com/medisys-io/ipdflow/internal/domain/ward"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "auth", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&patient.Patient{},
		&reference.Doctor{},
		&reference.Visit{},
		&reference.RoomCategory{},
		&ward.Ward{},
		&ward.Bed{},
		&admission.Admission{},
		&admission.DailyProgressReport{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Backstop for the admit check-then-act race: the store itself
		// refuses a second Admitted admission for the same bed.
		{
			name:  "uq_admissions_active_bed",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS uq_admissions_active_bed ON clinical.ipd_admissions (ward_id, bed_number) WHERE status = 'Admitted'`,
		},
		{
			name:  "uq_admissions_active_patient",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS uq_admissions_active_patient ON clinical.ipd_admissions (patient_id) WHERE status = 'Admitted'`,
		},
		{
			name:  "idx_admissions_ward_status",
			query: `CREATE INDEX IF NOT EXISTS idx_admissions_ward_status ON clinical.ipd_admissions (ward_id, status)`,
		},
		{
			name:  "idx_reports_admission_time",
			query: `CREATE INDEX IF NOT EXISTS idx_reports_admission_time ON clinical.daily_progress_reports (admission_id, reported_at DESC)`,
		},
		// Patient search on name and MRN
		{
			name:  "idx_patients_name_search",
			query: `CREATE INDEX IF NOT EXISTS idx_patients_name_trgm ON clinical.patients USING gin ((first_name || ' ' || last_name) gin_trgm_ops) WHERE deleted_at IS NULL`,
		},
	}

	_ = db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
