package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tabshell/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func openRepos(t *testing.T) (context.Context, *sqlite.Repositories) {
	t.Helper()
	ctx := testContext()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return ctx, sqlite.NewRepositories(db)
}

func TestSettingsRepository(t *testing.T) {
	ctx, repos := openRepos(t)

	got, err := repos.Settings.Get(ctx, "pinned_tabs")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, repos.Settings.Set(ctx, "pinned_tabs", `["https://a.test/"]`))
	require.NoError(t, repos.Settings.Set(ctx, "pinned_tabs", `["https://b.test/"]`))

	got, err = repos.Settings.Get(ctx, "pinned_tabs")
	require.NoError(t, err)
	assert.Equal(t, `["https://b.test/"]`, got)
}

func TestSitedataRepository(t *testing.T) {
	ctx, repos := openRepos(t)

	require.NoError(t, repos.Sitedata.Set(ctx, "https://a.test/", entity.SitedataScreenshot, "data:image/png;base64,AAA"))
	require.NoError(t, repos.Sitedata.Set(ctx, "https://a.test/", entity.SitedataFavicon, "data:image/png;base64,BBB"))

	shot, err := repos.Sitedata.Get(ctx, "https://a.test/", entity.SitedataScreenshot)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAA", shot)

	missing, err := repos.Sitedata.Get(ctx, "https://b.test/", entity.SitedataScreenshot)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestBookmarkRepository(t *testing.T) {
	ctx, repos := openRepos(t)

	none, err := repos.Bookmarks.GetByURL(ctx, "https://a.test/")
	require.NoError(t, err)
	assert.Nil(t, none)

	b := &entity.Bookmark{URL: "https://a.test/", Title: "A"}
	require.NoError(t, repos.Bookmarks.Save(ctx, b))
	assert.NotZero(t, b.ID)

	b.Pinned = true
	b.Title = "A again"
	require.NoError(t, repos.Bookmarks.Save(ctx, b))

	got, err := repos.Bookmarks.GetByURL(ctx, "https://a.test/")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "A again", got.Title)
	assert.True(t, got.Pinned)

	require.NoError(t, repos.Bookmarks.Delete(ctx, "https://a.test/"))
	got, err = repos.Bookmarks.GetByURL(ctx, "https://a.test/")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHistoryRepository_AddVisit(t *testing.T) {
	ctx, repos := openRepos(t)

	require.NoError(t, repos.History.AddVisit(ctx, "https://a.test/", "A"))
	require.NoError(t, repos.History.AddVisit(ctx, "https://a.test/", ""))

	entry, err := repos.History.FindByURL(ctx, "https://a.test/")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(2), entry.VisitCount)
	assert.Equal(t, "A", entry.Title, "an empty title keeps the stored one")

	require.NoError(t, repos.History.UpdateTitle(ctx, "https://a.test/", "Renamed"))
	entry, err = repos.History.FindByURL(ctx, "https://a.test/")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", entry.Title)

	missing, err := repos.History.FindByURL(ctx, "https://nope.test/")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHistoryRepository_AboutBlankNeverAccumulates(t *testing.T) {
	ctx, repos := openRepos(t)

	for range 3 {
		require.NoError(t, repos.History.AddVisit(ctx, "about:blank", ""))
	}
	entry, err := repos.History.FindByURL(ctx, "about:blank")
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.VisitCount)
}

func TestHistoryRepository_RecentAndPrune(t *testing.T) {
	ctx, repos := openRepos(t)

	for _, u := range []string{"https://a.test/", "https://b.test/", "https://c.test/"} {
		require.NoError(t, repos.History.AddVisit(ctx, u, ""))
	}

	recent, err := repos.History.GetRecent(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "https://c.test/", recent[0].URL)
	assert.Equal(t, "https://b.test/", recent[1].URL)

	next, err := repos.History.GetRecent(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "https://a.test/", next[0].URL)

	require.NoError(t, repos.History.DeleteOlderThan(ctx, time.Now().Add(time.Hour)))
	all, err := repos.History.GetRecent(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestZoomRepository(t *testing.T) {
	ctx, repos := openRepos(t)

	none, err := repos.Zoom.Get(ctx, "a.test")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repos.Zoom.Set(ctx, entity.NewZoomLevel("a.test", 1.5)))
	level, err := repos.Zoom.Get(ctx, "a.test")
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.InDelta(t, 1.5, level.ZoomFactor, 1e-9)

	require.NoError(t, repos.Zoom.Delete(ctx, "a.test"))
	level, err = repos.Zoom.Get(ctx, "a.test")
	require.NoError(t, err)
	assert.Nil(t, level)
}

func TestFolderSyncRepository(t *testing.T) {
	ctx, repos := openRepos(t)

	require.NoError(t, repos.FolderSyncs.SetPath(ctx, "k1", "/home/me/site"))
	path, err := repos.FolderSyncs.GetPath(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/site", path)

	require.NoError(t, repos.FolderSyncs.SetPath(ctx, "k1", ""))
	path, err = repos.FolderSyncs.GetPath(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestPermissionRepository(t *testing.T) {
	ctx, repos := openRepos(t)

	require.NoError(t, repos.Permissions.Set(ctx, &entity.PermissionRecord{
		Origin: "https://a.test", Type: entity.PermissionTypeCamera, Decision: entity.PermissionDenied,
	}))
	require.NoError(t, repos.Permissions.Set(ctx, &entity.PermissionRecord{
		Origin: "https://a.test", Type: entity.PermissionTypeCamera, Decision: entity.PermissionGranted,
	}))
	require.NoError(t, repos.Permissions.Set(ctx, &entity.PermissionRecord{
		Origin: "https://b.test", Type: entity.PermissionTypeMicrophone, Decision: entity.PermissionGranted,
	}))
	assert.Error(t, repos.Permissions.Set(ctx, nil))

	records, err := repos.Permissions.GetAll(ctx, "https://a.test")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, entity.PermissionTypeCamera, records[0].Type)
	assert.True(t, records[0].IsGranted())
	assert.NotZero(t, records[0].UpdatedAt)
}

func TestLazyDB_OpensOnce(t *testing.T) {
	ctx := testContext()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "nested", "lazy.db"))
	t.Cleanup(func() { _ = lazy.Close() })
	assert.False(t, lazy.IsInitialized())

	repos, err := lazy.Repositories(ctx)
	require.NoError(t, err)
	require.True(t, lazy.IsInitialized())

	again, err := lazy.Repositories(ctx)
	require.NoError(t, err)
	assert.Same(t, repos, again)

	version, err := sqlite.SchemaVersion(ctx, mustDB(t, ctx, lazy))
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}

func TestNewConnection_EmptyPath(t *testing.T) {
	_, err := sqlite.NewConnection(testContext(), "")
	assert.Error(t, err)
}

func mustDB(t *testing.T, ctx context.Context, lazy *sqlite.LazyDB) *sql.DB {
	t.Helper()
	db, err := lazy.DB(ctx)
	require.NoError(t, err)
	return db
}
