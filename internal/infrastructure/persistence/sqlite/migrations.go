package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/bnema/tabshell/internal/logging"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// migrator applies the embedded schema to one database handle.
type migrator struct {
	provider *goose.Provider
}

func newMigrator(db *sql.DB) (*migrator, error) {
	sub, err := fs.Sub(schemaFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("schema files: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return nil, fmt.Errorf("schema provider: %w", err)
	}
	return &migrator{provider: p}, nil
}

// up applies pending schema versions and logs each one.
func (m *migrator) up(ctx context.Context) error {
	log := logging.FromContext(ctx).With().Str("component", "schema").Logger()

	pending, err := m.provider.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("check pending schema: %w", err)
	}
	if !pending {
		v, _ := m.provider.GetDBVersion(ctx)
		log.Debug().Int64("version", v).Msg("schema up to date")
		return nil
	}

	results, err := m.provider.Up(ctx)
	for _, r := range results {
		if r.Source == nil {
			continue
		}
		log.Info().
			Int64("version", r.Source.Version).
			Dur("took", r.Duration).
			Msg("schema version applied")
	}
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SchemaVersion reports the highest schema version applied to db.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	m, err := newMigrator(db)
	if err != nil {
		return 0, err
	}
	return m.provider.GetDBVersion(ctx)
}
