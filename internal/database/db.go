package database

import (
	"fmt"

	"antecipa/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// at most one PENDING request per contract, enforced by the store as well as by the service
const pendingRequestIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_advance_requests_pending_contract
	ON advance_requests (contract_id) WHERE status = 'PENDING'`

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.WithError(err).Error("failed to migrate schema")
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Client{},
		&model.Contract{},
		&model.Installment{},
		&model.AdvanceRequest{},
		&model.AdvanceRequestItem{},
		&model.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes creates the partial indexes AutoMigrate cannot express.
func EnsureIndexes(db *gorm.DB) error {
	if err := db.Exec(pendingRequestIndex).Error; err != nil {
		return fmt.Errorf("create pending request index: %w", err)
	}
	return nil
}
