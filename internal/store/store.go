// Package store persists submitted records in a single local table.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// Store is a handle to the records table. It is safe for concurrent use; every call acquires a
// connection from the pool of the underlying database and releases it before returning.
type Store struct {
	db      *sqlx.DB
	dialect dialect
	variant model.Variant

	// insert is a prepared statement for creating a record.
	insert *sqlx.NamedStmt

	// selectWhereId is a prepared statement for selecting the record with a given id.
	selectWhereId *sqlx.Stmt
}

// Open connects to the database with the given driver ("sqlite" or "mysql") and data source name.
// SQLite is limited to a single connection so that writes serialize inside the engine.
func Open(driverName string, dsn string) (*sqlx.DB, error) {
	if _, err := lookupDialect(driverName); err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driverName == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// New wraps the database, creates the records table if it is missing and prepares the statements.
// The database argument can be a real database for production use or a mock database within unit
// tests.
func New(ctx context.Context, db *sqlx.DB, variant model.Variant) (*Store, error) {
	d, err := lookupDialect(db.DriverName())
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, dialect: d, variant: variant}
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	s.insert, err = db.PrepareNamedContext(ctx, insertStatement(variant))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	s.selectWhereId, err = db.PreparexContext(ctx,
		"SELECT "+selectColumns(variant)+" FROM "+table+" WHERE `id` = ?")
	if err != nil {
		s.insert.Close()
		return nil, fmt.Errorf("failed to prepare select: %w", err)
	}
	return s, nil
}

// Variant returns the form variant whose schema the store uses.
func (s *Store) Variant() model.Variant {
	return s.variant
}

// Initialize creates the records table if it does not exist yet. It is safe to call on every start.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable(s.variant)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// Insert appends the record and returns the id assigned by the database. The Id field of the
// argument is ignored.
func (s *Store) Insert(ctx context.Context, record model.Record) (int64, error) {
	result, err := s.insert.ExecContext(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read id of inserted record: %w", err)
	}
	return id, nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (model.Record, error) {
	var record model.Record
	err := s.selectWhereId.GetContext(ctx, &record, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, ErrNotFound
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to select record %d: %w", id, err)
	}
	return record, nil
}

// Last returns the most recently inserted record, or ErrNotFound if the table is empty.
func (s *Store) Last(ctx context.Context) (model.Record, error) {
	var record model.Record
	err := s.db.GetContext(ctx, &record,
		"SELECT "+selectColumns(s.variant)+" FROM "+table+" ORDER BY `id` DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, ErrNotFound
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to select last record: %w", err)
	}
	return record, nil
}

// ListAll returns all records in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]model.Record, error) {
	records := []model.Record{}
	err := s.db.SelectContext(ctx, &records,
		"SELECT "+selectColumns(s.variant)+" FROM "+table+" ORDER BY `id`")
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// DeleteAll removes every record and resets the id sequence, so that the next record gets id 1.
func (s *Store) DeleteAll(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	for _, statement := range s.dialect.wipeTable {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to delete records: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}
	return nil
}

// Close releases the prepared statements and the database.
func (s *Store) Close() error {
	s.insert.Close()
	s.selectWhereId.Close()
	return s.db.Close()
}
