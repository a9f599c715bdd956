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

// aboutBlankURL is kept in history but never accumulates visits.
const aboutBlankURL = "about:blank"

const historyColumns = `id, url, title, visit_count, last_visited, created_at`

type historyRepo struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite-backed history repository.
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) AddVisit(ctx context.Context, url, title string) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("url", logging.TruncateURL(url, logURLMaxLen)).Msg("recording visit")

	now := time.Now().Unix()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO history (url, title, visit_count, last_visited, created_at) VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			visit_count = CASE WHEN history.url = ? THEN 1 ELSE history.visit_count + 1 END,
			title = CASE WHEN excluded.title != '' THEN excluded.title ELSE history.title END,
			last_visited = excluded.last_visited`,
		url, title, now, now, aboutBlankURL)
	return err
}

func (r *historyRepo) UpdateTitle(ctx context.Context, url, title string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE history SET title = ? WHERE url = ?`, title, url)
	return err
}

func (r *historyRepo) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+historyColumns+` FROM history WHERE url = ?`, url)
	entry, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func (r *historyRepo) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+historyColumns+` FROM history ORDER BY last_visited DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*entity.HistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *historyRepo) DeleteOlderThan(ctx context.Context, before time.Time) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE last_visited < ?`, before.Unix())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		logging.FromContext(ctx).Info().Int64("deleted", n).Msg("pruned history")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*entity.HistoryEntry, error) {
	var (
		e                    entity.HistoryEntry
		lastVisited, created int64
	)
	if err := row.Scan(&e.ID, &e.URL, &e.Title, &e.VisitCount, &lastVisited, &created); err != nil {
		return nil, err
	}
	e.LastVisited = time.Unix(lastVisited, 0)
	e.CreatedAt = time.Unix(created, 0)
	return &e, nil
}
