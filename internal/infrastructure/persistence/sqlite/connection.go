package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/bnema/tabshell/internal/logging"
)

const dbDirPerm = 0o750

// connectionPragmas run on every new connection via the DSN.
var connectionPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(wal)",
	"synchronous(normal)",
	"foreign_keys(on)",
	"temp_store(memory)",
}

// dsn builds a file: URI for path carrying connectionPragmas.
func dsn(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	for _, p := range connectionPragmas {
		q.Add("_pragma", p)
	}
	q.Set("_txlock", "immediate")
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: q.Encode()}
	return u.String(), nil
}

// NewConnection opens the tabshell store at dbPath and brings its schema to
// the latest version. The handle holds a single connection.
func NewConnection(ctx context.Context, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, errors.New("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirPerm); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	source, err := dsn(dbPath)
	if err != nil {
		return nil, fmt.Errorf("database path %q: %w", dbPath, err)
	}
	db, err := sql.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	m, err := newMigrator(db)
	if err == nil {
		err = m.up(ctx)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.FromContext(ctx).Info().Str("path", dbPath).Msg("store opened")
	return db, nil
}
