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

type zoomRepo struct {
	db *sql.DB
}

// NewZoomRepository creates a new SQLite-backed zoom repository.
func NewZoomRepository(db *sql.DB) repository.ZoomRepository {
	return &zoomRepo{db: db}
}

func (r *zoomRepo) Get(ctx context.Context, domain string) (*entity.ZoomLevel, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("domain", domain).Msg("getting zoom level")

	var (
		level   = entity.ZoomLevel{Domain: domain}
		updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT zoom_factor, updated_at FROM zoom_levels WHERE domain = ?`, domain).
		Scan(&level.ZoomFactor, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	level.UpdatedAt = time.Unix(updated, 0)
	return &level, nil
}

func (r *zoomRepo) Set(ctx context.Context, level *entity.ZoomLevel) error {
	if level == nil {
		return errors.New("cannot set nil zoom level")
	}
	log := logging.FromContext(ctx)
	log.Debug().Str("domain", level.Domain).Float64("factor", level.ZoomFactor).Msg("setting zoom level")

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO zoom_levels (domain, zoom_factor, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET zoom_factor = excluded.zoom_factor, updated_at = excluded.updated_at`,
		level.Domain, level.ZoomFactor, time.Now().Unix())
	return err
}

func (r *zoomRepo) Delete(ctx context.Context, domain string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM zoom_levels WHERE domain = ?`, domain)
	return err
}
