package database

import (
	"context"
	"fmt"
	"time"

	"radio-cms/pkg/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config interface {
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	EnableLog() bool
	LogLevel() string
	QueryTimeout() time.Duration
}

func getDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host(),
		cfg.User(),
		cfg.Password(),
		cfg.Name(),
		cfg.Port(),
		cfg.SSLMode())
}

func newLogger(l log.Logger, cfg Config) logger.Interface {
	logLevel := logger.Silent
	if cfg.EnableLog() {
		switch cfg.LogLevel() {
		case "info":
			logLevel = logger.Info
		case "error":
			logLevel = logger.Error
		case "silent":
			logLevel = logger.Silent
		default:
			logLevel = logger.Warn
		}
	}

	return logger.New(l, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}

// GormConfig is shared by Connect and tests so that error translation behaves the same.
func GormConfig(l logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:         l,
		TranslateError: true,
	}
}

func Connect(cfg Config, l log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  getDSN(cfg),
		PreferSimpleProtocol: true,
	}), GormConfig(newLogger(l, cfg)))
	if err != nil {
		return nil, err
	}

	sDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sDB.SetMaxIdleConns(cfg.MaxIdleConns())
	sDB.SetMaxOpenConns(cfg.MaxOpenConns())
	sDB.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout())
	defer cancel()
	if err := sDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database %s:%s: %w", cfg.Host(), cfg.Port(), err)
	}

	return db, nil
}
