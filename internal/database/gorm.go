package database

import (
	"fmt"
	"time"

	"burim-estate/internal/config"
	"burim-estate/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDB wraps the gorm connection shared by every store operation
type GormDB struct {
	db  *gorm.DB
	loc *time.Location
}

// Open connects to the database selected by cfg.Database.Type
func Open(cfg *config.Config) (*GormDB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	loc := cfg.Location()
	db, err := gorm.Open(dialector, gormConfig(loc, cfg.Logging.SQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Database.Type, err)
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Database.Type, err)
	}

	return &GormDB{db: db, loc: loc}, nil
}

// OpenSQLite opens a file-backed SQLite database in UTC
func OpenSQLite(path string) (*GormDB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormConfig(time.UTC, false))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return &GormDB{db: db, loc: time.UTC}, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db, loc: time.UTC}
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "mysql":
		port := cfg.MySQL.Port
		if port == 0 {
			port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.MySQL.User, cfg.MySQL.Password, cfg.MySQL.Host, port, cfg.MySQL.Database)
		return mysql.Open(dsn), nil
	case "postgres":
		port := cfg.Postgres.Port
		if port == 0 {
			port = 5432
		}
		sslMode := cfg.Postgres.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Postgres.Host, port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, sslMode)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(cfg.SQLite.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}

// sqliteDSN enables foreign keys so inquiry rows cascade with their property
func sqliteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)"
}

func gormConfig(loc *time.Location, logSQL bool) *gorm.Config {
	level := logger.Warn
	if logSQL {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().In(loc)
		},
	}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

// Location returns the timezone used for timestamps and daily quota windows
func (gdb *GormDB) Location() *time.Location {
	return gdb.loc
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.Property{},
		&models.Inquiry{},
		&models.NewsItem{},
		&models.SiteSettings{},
		&models.PropertyChange{},
		&models.DeleteLog{},
	)
}
