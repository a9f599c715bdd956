package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/logging"
)

type settingsRepo struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SQLite-backed settings repository.
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (r *settingsRepo) Set(ctx context.Context, key, value string) error {
	logging.FromContext(ctx).Debug().Str("key", key).Int("len", len(value)).Msg("saving setting")

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	return err
}
