package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/logging"
)

const logURLMaxLen = 60

type sitedataRepo struct {
	db *sql.DB
}

// NewSitedataRepository creates a new SQLite-backed sitedata repository.
func NewSitedataRepository(db *sql.DB) repository.SitedataRepository {
	return &sitedataRepo{db: db}
}

func (r *sitedataRepo) Set(ctx context.Context, url string, key entity.SitedataKey, value string) error {
	logging.FromContext(ctx).Debug().
		Str("url", logging.TruncateURL(url, logURLMaxLen)).
		Str("key", string(key)).
		Msg("saving sitedata")

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sitedata (url, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(url, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		url, string(key), value, time.Now().Unix())
	return err
}

func (r *sitedataRepo) Get(ctx context.Context, url string, key entity.SitedataKey) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM sitedata WHERE url = ? AND key = ?`, url, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}
