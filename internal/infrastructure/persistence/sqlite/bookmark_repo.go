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

type bookmarkRepo struct {
	db *sql.DB
}

// NewBookmarkRepository creates a new SQLite-backed bookmark repository.
func NewBookmarkRepository(db *sql.DB) repository.BookmarkRepository {
	return &bookmarkRepo{db: db}
}

func (r *bookmarkRepo) GetByURL(ctx context.Context, url string) (*entity.Bookmark, error) {
	var (
		b       entity.Bookmark
		pinned  int
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, url, title, pinned, created_at FROM bookmarks WHERE url = ?`, url).
		Scan(&b.ID, &b.URL, &b.Title, &pinned, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	b.Pinned = pinned != 0
	b.CreatedAt = time.Unix(created, 0)
	return &b, nil
}

func (r *bookmarkRepo) Save(ctx context.Context, bookmark *entity.Bookmark) error {
	if bookmark == nil {
		return errors.New("cannot save nil bookmark")
	}
	logging.FromContext(ctx).Debug().
		Str("url", logging.TruncateURL(bookmark.URL, logURLMaxLen)).
		Bool("pinned", bookmark.Pinned).
		Msg("saving bookmark")

	created := bookmark.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	pinned := 0
	if bookmark.Pinned {
		pinned = 1
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO bookmarks (url, title, pinned, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET title = excluded.title, pinned = excluded.pinned
		RETURNING id, created_at`,
		bookmark.URL, bookmark.Title, pinned, created.Unix())

	var createdUnix int64
	if err := row.Scan(&bookmark.ID, &createdUnix); err != nil {
		return err
	}
	bookmark.CreatedAt = time.Unix(createdUnix, 0)
	return nil
}

func (r *bookmarkRepo) Delete(ctx context.Context, url string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE url = ?`, url)
	return err
}
