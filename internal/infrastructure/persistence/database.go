package persistence

import (
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/infrastructure/config"
	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// DatabaseOption tweaks the GORM config before the connection opens
type DatabaseOption func(*gorm.Config)

// WithLogLevel sets the GORM log level written through zap
func WithLogLevel(level gormlogger.LogLevel) DatabaseOption {
	return func(c *gorm.Config) {
		if l, ok := c.Logger.(*logger.GormLogger); ok {
			c.Logger = l.LogMode(level)
		}
	}
}

// NewDatabase opens the configured driver with a zap-backed GORM logger and
// applies pool settings
func NewDatabase(cfg config.DatabaseConfig, zapLogger *zap.Logger, opts ...DatabaseOption) (*Database, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	gormCfg := &gorm.Config{
		Logger:                 logger.NewGormLogger(zapLogger, gormlogger.Warn, cfg.SlowQuery),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "", "postgres":
		dialector = postgres.Open(cfg.DSN())
		gormCfg.PrepareStmt = true
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// AllModels lists every table the engine owns, in dependency order
func AllModels() []any {
	return []any{
		&models.WarehouseModel{},
		&models.InventoryItemModel{},
		&models.SalesOrderModel{},
		&models.SalesOrderItemModel{},
		&models.AllocationModel{},
		&models.PickModel{},
		&models.ShipmentModel{},
		&models.PackageModel{},
		&models.PackageItemModel{},
		&models.DeliveryModel{},
		&models.DeliveryItemModel{},
		&models.PurchaseOrderModel{},
		&models.PurchaseOrderItemModel{},
		&models.FulfillmentDocumentModel{},
		&models.DocumentSequenceModel{},
		&models.DocumentNumberHistoryModel{},
		&models.WorkflowDefinitionModel{},
		&models.AuditLogModel{},
		&models.OutboxEntryModel{},
	}
}

// AutoMigrate creates the schema from the models. Production schemas come
// from the SQL migrations; this serves SQLite and tests.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(AllModels()...)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}
