package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/infrastructure/shellwin"
)

func TestTabsConfig_ConvertsMilliseconds(t *testing.T) {
	in := config.DefaultConfig().Tabs
	in.NewTabURL = "https://start.test/"
	in.NewTabsInForeground = true
	in.AutoRedirectToDrive = true
	in.PreloadDelayMilliseconds = 250
	in.UnloadTimeoutMilliseconds = 1500

	out := TabsConfig(in)

	assert.Equal(t, "https://start.test/", out.NewTabURL)
	assert.True(t, out.NewTabsInForeground)
	assert.True(t, out.AutoRedirectToDrive)
	assert.Equal(t, in.SearchURL, out.SearchURL)
	assert.Equal(t, 250*time.Millisecond, out.PreloadDelay)
	assert.Equal(t, 1500*time.Millisecond, out.UnloadTimeout)
	assert.Equal(t, 2*time.Second, out.ScreenshotDelay)
	assert.Equal(t, 500*time.Millisecond, out.LiveReloadWindow)
	assert.Equal(t, time.Second, out.MediaSettleDelay)
}

func TestTabsConfig_ZeroStaysZero(t *testing.T) {
	out := TabsConfig(config.TabsConfig{})
	assert.Zero(t, out.PreloadDelay)
	assert.Zero(t, out.UnloadTimeout)
}

func TestDriveGateway(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:9333/drive/", DriveGateway("127.0.0.1:9333"))
}

func TestDatabasePath(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Database.Path = "/tmp/tabshell-test.db"
		p, err := databasePath(cfg)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/tabshell-test.db", p)
	})

	t.Run("falls back to the data directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_DATA_HOME", dir)
		p, err := databasePath(config.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(filepath.Dir(p)))
	})
}

func TestStart_RequiresConfig(t *testing.T) {
	_, err := Start(context.Background(), Options{})
	require.Error(t, err)
}

func TestWindowSystem_ChainsClosedHooks(t *testing.T) {
	ctx := context.Background()
	ws := &windowSystem{System: shellwin.NewSystem(ctx, config.DefaultConfig().Windows)}

	var order []string
	ws.onClosed(func(entity.WindowID) { order = append(order, "hook") })
	ws.SetCallbacks(&port.WindowSystemCallbacks{
		OnWindowClosed: func(entity.WindowID) { order = append(order, "manager") },
	})

	win, err := ws.CreateShellWindow(ctx)
	require.NoError(t, err)
	win.Close()

	assert.Equal(t, []string{"hook", "manager"}, order)
}

func TestWindowSystem_NilCallbacksStillRunHooks(t *testing.T) {
	ctx := context.Background()
	ws := &windowSystem{System: shellwin.NewSystem(ctx, config.DefaultConfig().Windows)}

	var closed []entity.WindowID
	ws.onClosed(func(id entity.WindowID) { closed = append(closed, id) })
	ws.SetCallbacks(nil)

	win, err := ws.CreateShellWindow(ctx)
	require.NoError(t, err)
	win.Close()

	assert.Equal(t, []entity.WindowID{win.ID()}, closed)
}

func TestWindowSystem_ForgetsChromeState(t *testing.T) {
	ctx := context.Background()
	ws := &windowSystem{System: shellwin.NewSystem(ctx, config.DefaultConfig().Windows)}
	shell := shellwin.NewChrome()
	ws.onClosed(shell.Forget)
	ws.SetCallbacks(nil)

	win, err := ws.CreateShellWindow(ctx)
	require.NoError(t, err)
	require.NoError(t, shell.ShowLocationBar(ctx, win, nil))
	require.True(t, shell.State(win.ID()).LocationBarOpen)

	win.Close()
	assert.False(t, shell.State(win.ID()).LocationBarOpen)
}
