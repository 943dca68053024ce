package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barberbook/internal/config"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// One confirmed booking per barber per start time. Cancelled rows keep
// their slot so the index is partial.
const confirmedSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_confirmed_slot
	ON bookings (barber_id, appointment_date, appointment_time)
	WHERE status = 'confirmed'
`

func NewDB(cfg *config.Config) *gorm.DB {
	logLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      newGormLogger(logLevel),
	})
	if err != nil {
		zap.L().Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		zap.L().Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

// newGormLogger routes gorm's SQL and slow-query lines into the global zap
// logger.
func newGormLogger(level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.New(
		zap.NewStdLog(zap.L().Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func Migrate(db *gorm.DB, defaultTimezone string) error {
	if err := db.AutoMigrate(
		&models.Barber{},
		&models.Client{},
		&models.Service{},
		&models.Booking{},
		&models.Review{},
		&models.Favorite{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if err := db.Exec(confirmedSlotIndex).Error; err != nil {
		return err
	}

	return db.Exec(`
		UPDATE barbers
		SET timezone = ?
		WHERE timezone IS NULL OR timezone = ''
	`, defaultTimezone).Error
}
