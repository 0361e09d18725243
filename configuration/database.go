package configuration

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hospital-connect/models"
)

// ConnectDB opens the Postgres connection and prepares the schema. The
// returned handle is passed down explicitly; nothing holds it as a package
// global.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		// Unique violations come back as gorm.ErrDuplicatedKey, which the
		// booking path relies on to detect lost slot races.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Patient{},
		&models.Doctor{},
		&models.Admin{},
		&models.Appointment{},
		&models.Prescription{},
		&models.Medication{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	// At most one non-cancelled appointment per (doctor, date, time). This
	// partial index is what makes booking atomic across server instances:
	// concurrent inserts for the same slot cannot both commit.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_active_slot
		 ON appointments (doctor_id, "date", "time")
		 WHERE status <> 'cancelled'`,
	).Error; err != nil {
		return nil, fmt.Errorf("create slot index: %w", err)
	}

	return db, nil
}

// CloseDB releases the underlying connection pool at shutdown.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
