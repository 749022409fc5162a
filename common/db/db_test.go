package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, mock
}

func TestEnsureSchema_IgnoresDuplicateIndex(t *testing.T) {
	conn, mock := setupMockDB(t)
	SetDB(conn)
	t.Cleanup(func() { SetDB(nil) })

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS events`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX idx_events_user_created`).
		WillReturnError(&mysql.MySQLError{Number: 1061, Message: "Duplicate key name"})

	assert.NoError(t, EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_PropagatesOtherErrors(t *testing.T) {
	conn, mock := setupMockDB(t)
	SetDB(conn)
	t.Cleanup(func() { SetDB(nil) })

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS events`).
		WillReturnError(errors.New("access denied"))

	err := EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "schema apply failed")
}

func TestEnsureSchema_NotInitialized(t *testing.T) {
	SetDB(nil)
	assert.Error(t, EnsureSchema(context.Background()))
}

func TestWithTransaction_Commit(t *testing.T) {
	conn, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM events`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTransaction(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM events WHERE event_id = ?`, "e-1")
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	conn, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := WithTransaction(context.Background(), conn, func(tx *sql.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'e-1' for key 'PRIMARY'"}

	assert.True(t, IsDuplicateEntry(dup))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1061}))
	assert.False(t, IsDuplicateEntry(errors.New("Duplicate entry")))
	assert.False(t, IsDuplicateEntry(nil))
}
