package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/event-manager-services/common/config"
	"github.com/event-manager-services/common/logger"
)

var db *sql.DB

// schema is applied by EnsureSchema on every cold start
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		event_id     VARCHAR(36)  NOT NULL PRIMARY KEY,
		user_id      VARCHAR(128) NOT NULL,
		title        VARCHAR(200) NOT NULL,
		event_type   VARCHAR(100) NOT NULL,
		description  TEXT         NOT NULL,
		scheduled_at VARCHAR(32)  NOT NULL,
		venue        VARCHAR(200) NOT NULL,
		created_at   DATETIME     NOT NULL,
		updated_at   DATETIME     NOT NULL
	)`,
	`CREATE INDEX idx_events_user_created ON events (user_id, created_at)`,
}

// InitDB initializes the connection pool from the environment configuration
func InitDB() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return InitDBWithConfig(cfg.Database)
}

// InitDBWithConfig initializes the connection pool with an explicit config
func InitDBWithConfig(cfg config.DatabaseConfig) error {
	conn, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db = conn
	logger.Info("[DB] Connected to %s:%d/%s", cfg.Server, cfg.Port, cfg.Name)
	return nil
}

// SetDB replaces the package connection (tests, custom drivers)
func SetDB(conn *sql.DB) {
	db = conn
}

// GetDB returns the database connection
func GetDB() *sql.DB {
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// EnsureSchema creates the tables used by the event service.
// MySQL has no CREATE INDEX IF NOT EXISTS, so a duplicate-index error (1061) is ignored.
func EnsureSchema(ctx context.Context) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if isDuplicateKeyName(err) {
				continue
			}
			return fmt.Errorf("schema apply failed: %w", err)
		}
	}
	return nil
}

func isDuplicateKeyName(err error) bool {
	return hasMySQLErrorNumber(err, 1061)
}

// IsDuplicateEntry reports a primary or unique key violation (MySQL 1062)
func IsDuplicateEntry(err error) bool {
	return hasMySQLErrorNumber(err, 1062)
}

func hasMySQLErrorNumber(err error, number uint16) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == number
}

// WithTransaction executes a function within a transaction on conn
func WithTransaction(ctx context.Context, conn *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
