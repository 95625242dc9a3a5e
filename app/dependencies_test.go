package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ritu-90/c25077715-cmt120-cw2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewDependenciesWithDB(t *testing.T) {
	t.Run("wires every component", func(t *testing.T) {
		ctx := context.Background()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		deps, err := NewDependenciesWithDB(ctx, testConfig(t), db, zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, deps)

		// Verify infrastructure
		assert.NotNil(t, deps.Config)
		assert.NotNil(t, deps.DB)
		assert.NotNil(t, deps.TxManager)

		// Verify repositories
		require.NotNil(t, deps.Repos)
		assert.NotNil(t, deps.Repos.Users)
		assert.NotNil(t, deps.Repos.Projects)
		assert.NotNil(t, deps.Repos.Messages)

		// Verify services and handlers
		assert.NotNil(t, deps.Accounts)
		assert.NotNil(t, deps.Content)
		assert.NotNil(t, deps.Projects)
		assert.NotNil(t, deps.Contact)
		assert.NotNil(t, deps.AuthMiddleware)
		assert.NotNil(t, deps.AuthHandler)
		assert.NotNil(t, deps.ContentHandler)
		assert.NotNil(t, deps.ProjectHandler)
		assert.NotNil(t, deps.ContactHandler)
		assert.NotNil(t, deps.HealthHandler)

		require.NotNil(t, deps.Dispatcher)
		assert.True(t, deps.Dispatcher.Stats().Running)

		mock.ExpectClose()
		require.NoError(t, deps.Close(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("auto migrate creates the schema", func(t *testing.T) {
		ctx := context.Background()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		cfg := testConfig(t)
		cfg.Database.AutoMigrate = true
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))

		deps, err := NewDependenciesWithDB(ctx, cfg, db, zaptest.NewLogger(t))
		require.NoError(t, err)

		mock.ExpectClose()
		require.NoError(t, deps.Close(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("schema failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		cfg := testConfig(t)
		cfg.Database.AutoMigrate = true
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnError(errors.New("permission denied"))

		deps, err := NewDependenciesWithDB(context.Background(), cfg, db, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize repositories")
	})

	t.Run("unsupported mail provider", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		cfg := testConfig(t)
		cfg.Mail.Provider = "pigeon"

		deps, err := NewDependenciesWithDB(context.Background(), cfg, db, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "unsupported mail provider")
	})
}

func TestNewDependencies(t *testing.T) {
	t.Run("database connection failure", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Database.Host = "127.0.0.1"
		cfg.Database.Port = 1

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize database")
	})
}

func TestDependenciesClose(t *testing.T) {
	t.Run("second close is a no-op", func(t *testing.T) {
		ctx := context.Background()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		deps, err := NewDependenciesWithDB(ctx, testConfig(t), db, zaptest.NewLogger(t))
		require.NoError(t, err)

		mock.ExpectClose()
		require.NoError(t, deps.Close(ctx))
		assert.NoError(t, deps.Close(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("close error is reported", func(t *testing.T) {
		ctx := context.Background()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		deps, err := NewDependenciesWithDB(ctx, testConfig(t), db, zaptest.NewLogger(t))
		require.NoError(t, err)

		mock.ExpectClose().WillReturnError(errors.New("close failed"))
		err = deps.Close(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to close database")
	})
}

// Test helpers

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "portfolio",
			Password:        "portfolio",
			Database:        "portfolio_test",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Session: config.SessionConfig{
			Secret:   "test-secret",
			MaxAge:   time.Hour,
			TokenTTL: time.Hour,
		},
		Admin: config.AdminConfig{
			Username: "admin",
			Password: "admin123",
		},
		Upload: config.UploadConfig{
			Dir:      t.TempDir(),
			MaxBytes: 1 << 20,
		},
		Mail: config.MailConfig{
			Workers:    1,
			BufferSize: 4,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "json",
		},
	}
}
