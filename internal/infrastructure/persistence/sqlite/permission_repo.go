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

type permissionRepo struct {
	db *sql.DB
}

// NewPermissionRepository creates a new SQLite-backed permission repository.
func NewPermissionRepository(db *sql.DB) repository.PermissionRepository {
	return &permissionRepo{db: db}
}

func (r *permissionRepo) Set(ctx context.Context, record *entity.PermissionRecord) error {
	log := logging.FromContext(ctx)

	if record == nil {
		log.Error().Msg("cannot set nil permission record")
		return errors.New("cannot set nil permission record")
	}

	log.Debug().
		Str("origin", record.Origin).
		Str("type", string(record.Type)).
		Str("decision", string(record.Decision)).
		Msg("setting permission")

	updated := record.UpdatedAt
	if updated == 0 {
		updated = time.Now().Unix()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO permissions (origin, type, decision, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(origin, type) DO UPDATE SET decision = excluded.decision, updated_at = excluded.updated_at`,
		record.Origin, string(record.Type), string(record.Decision), updated)
	return err
}

func (r *permissionRepo) GetAll(ctx context.Context, origin string) ([]*entity.PermissionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, decision, updated_at FROM permissions WHERE origin = ? ORDER BY type`, origin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.PermissionRecord
	for rows.Next() {
		var (
			permType, decision string
			updated            int64
		)
		if err := rows.Scan(&permType, &decision, &updated); err != nil {
			return nil, err
		}
		records = append(records, &entity.PermissionRecord{
			Origin:    origin,
			Type:      entity.PermissionType(permType),
			Decision:  entity.PermissionDecision(decision),
			UpdatedAt: updated,
		})
	}
	return records, rows.Err()
}
