package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bnema/tabshell/internal/domain/repository"
)

type folderSyncRepo struct {
	db *sql.DB
}

// NewFolderSyncRepository creates a new SQLite-backed folder sync repository.
func NewFolderSyncRepository(db *sql.DB) repository.FolderSyncRepository {
	return &folderSyncRepo{db: db}
}

func (r *folderSyncRepo) GetPath(ctx context.Context, driveKey string) (string, error) {
	var path string
	err := r.db.QueryRowContext(ctx, `SELECT path FROM folder_syncs WHERE drive_key = ?`, driveKey).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return path, err
}

func (r *folderSyncRepo) SetPath(ctx context.Context, driveKey, path string) error {
	if path == "" {
		_, err := r.db.ExecContext(ctx, `DELETE FROM folder_syncs WHERE drive_key = ?`, driveKey)
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO folder_syncs (drive_key, path, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(drive_key) DO UPDATE SET path = excluded.path, updated_at = excluded.updated_at`,
		driveKey, path, time.Now().Unix())
	return err
}
