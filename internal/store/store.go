// Package store contains the Postgres repositories. All balance and lead
// mutations go through conditional single-statement updates so concurrent
// requests for the same tenant stay correct.
package store

import (
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// Store handles database operations for tenants, products, leads, knowledge
// documents and chat logs.
type Store struct {
	db *sql.DB
}

// New opens a connection pool for the given DSN.
func New(dsn string) (*Store, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*config)
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
