package database

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/datatide/relstore/internal/domain/port/core"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Manager owns the shared engine handle the unit-of-work factories build on
type Manager struct {
	config   *Config
	db       *gorm.DB
	logger   coreport.Logger
	timeProv coreport.TimeProvider
}

// NewManager creates a new database manager
func NewManager(config *Config, logger coreport.Logger, timeProv coreport.TimeProvider) *Manager {
	return &Manager{
		config:   config,
		logger:   logger,
		timeProv: timeProv,
	}
}

// Connect establishes the engine connection with bounded retry and plumbs
// the pool parameters through to the driver
func (m *Manager) Connect() (*gorm.DB, error) {
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.Info("Connecting to database", map[string]any{
		"driver": m.config.Driver,
		"host":   m.config.Host,
		"name":   m.config.Database,
	})

	gormConfig := &gorm.Config{
		Logger: NewEngineLogger(m.logger, m.config.LogLevel),
		NowFunc: func() time.Time {
			return m.timeProv.Now()
		},
	}

	var gormDB *gorm.DB
	var err error
	for attempt := 0; attempt < m.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			m.logger.Warn("Retrying database connection", map[string]any{
				"attempt": attempt + 1,
				"of":      m.config.RetryAttempts,
				"delay":   m.config.RetryDelay.String(),
			})
			time.Sleep(m.config.RetryDelay)
		}

		switch m.config.Driver {
		case "postgres":
			gormDB, err = gorm.Open(postgres.Open(m.config.DSN()), gormConfig)
		case "sqlite":
			gormDB, err = gorm.Open(sqlite.Open(m.config.DSN()), gormConfig)
		}
		if err == nil {
			break
		}

		m.logger.Error("Failed to connect to database", map[string]any{
			"error":   err.Error(),
			"attempt": attempt + 1,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", m.config.RetryAttempts, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)

	ctx, cancel := m.timeProv.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m.logger.Info("Successfully connected to database", map[string]any{
		"driver":         m.config.Driver,
		"max_open_conns": m.config.MaxOpenConns,
		"max_idle_conns": m.config.MaxIdleConns,
	})

	m.db = gormDB
	return m.db, nil
}

// DB returns the shared engine handle
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// WithTimeout returns a context bounded by the configured query timeout
func (m *Manager) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return m.timeProv.WithTimeout(ctx, m.config.QueryTimeout)
}

// Close closes the engine connection
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	m.logger.Info("Closing database connection", nil)
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}
