package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/datastax/feed-data-apis/types"
	_ "modernc.org/sqlite"
)

// Db represents a connection to the record store
type Db struct {
	session Session
}

// Session executes statements against the record store
type Session interface {
	// Execute executes a statement without returning row results
	Execute(ctx context.Context, query string, values ...interface{}) error

	// Query executes a statement and returns the rows keyed by column name
	Query(ctx context.Context, query string, values ...interface{}) ([]types.Record, error)
}

// NewDb opens the SQLite database at path, use ":memory:" for a private in-memory database
func NewDb(path string) (*Db, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if conn == nil {
		return nil, errors.New("failed to open database")
	}

	if path == ":memory:" {
		// Every connection to :memory: opens a different database
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return NewDbWithSession(&SqlSession{ref: conn}), nil
}

func NewDbWithSession(session Session) *Db {
	return &Db{session: session}
}

// Close releases the underlying connections when the session owns any
func (db *Db) Close() error {
	if s, ok := db.session.(*SqlSession); ok {
		return s.ref.Close()
	}
	return nil
}

type SqlSession struct {
	ref *sql.DB
}

func (session *SqlSession) Execute(ctx context.Context, query string, values ...interface{}) error {
	_, err := session.ref.ExecContext(ctx, query, values...)
	return err
}

func (session *SqlSession) Query(ctx context.Context, query string, values ...interface{}) ([]types.Record, error) {
	rows, err := session.ref.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	items := make([]types.Record, 0)
	for rows.Next() {
		row, err := mapScan(rows, columns)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func mapScan(rows *sql.Rows, columns []string) (types.Record, error) {
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	if err := rows.Scan(pointers...); err != nil {
		return nil, err
	}

	mapped := make(types.Record, len(columns))
	for i, column := range columns {
		value := values[i]
		if b, ok := value.([]byte); ok {
			value = string(b)
		}
		mapped[column] = value
	}
	return mapped, nil
}
