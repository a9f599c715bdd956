package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/logging"
)

// Repositories groups every SQLite-backed repository sharing one connection.
type Repositories struct {
	Settings    repository.SettingsRepository
	Sitedata    repository.SitedataRepository
	Bookmarks   repository.BookmarkRepository
	History     repository.HistoryRepository
	Zoom        repository.ZoomRepository
	FolderSyncs repository.FolderSyncRepository
	Permissions repository.PermissionRepository
}

// NewRepositories builds the repository set over db.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Settings:    NewSettingsRepository(db),
		Sitedata:    NewSitedataRepository(db),
		Bookmarks:   NewBookmarkRepository(db),
		History:     NewHistoryRepository(db),
		Zoom:        NewZoomRepository(db),
		FolderSyncs: NewFolderSyncRepository(db),
		Permissions: NewPermissionRepository(db),
	}
}

// LazyDB opens the database on first access, deferring the WASM compilation
// and migration cost until a command actually needs storage.
type LazyDB struct {
	dbPath string
	db     *sql.DB
	repos  *Repositories
	err    error
	once   sync.Once
	mu     sync.RWMutex
}

// NewLazyDB creates a new lazy database provider.
// The actual connection is not established until DB() is called.
func NewLazyDB(dbPath string) *LazyDB {
	return &LazyDB{dbPath: dbPath}
}

// DB returns the database connection, initializing it if necessary.
// Safe for concurrent use; initialization runs once.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.once.Do(func() {
		log := logging.FromContext(ctx)
		log.Debug().Str("path", l.dbPath).Msg("lazy database initialization starting")

		db, err := NewConnection(ctx, l.dbPath)
		l.mu.Lock()
		l.db, l.err = db, err
		if err == nil {
			l.repos = NewRepositories(db)
		}
		l.mu.Unlock()

		if err != nil {
			log.Error().Err(err).Msg("lazy database initialization failed")
		}
	})

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", l.err)
	}
	return l.db, nil
}

// Repositories returns the repository set, opening the database if needed.
func (l *LazyDB) Repositories(ctx context.Context) (*Repositories, error) {
	if _, err := l.DB(ctx); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repos, nil
}

// Close closes the database connection if it was initialized.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// IsInitialized returns true if the database has been initialized.
func (l *LazyDB) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Path returns the database path.
func (l *LazyDB) Path() string {
	return l.dbPath
}
