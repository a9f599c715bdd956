package tabs

import (
	"context"

	"github.com/bnema/tabshell/internal/application/port"
)

// Stand-ins for optional collaborators.

type nopOverlay struct{}

func (nopOverlay) Show(port.ContentSurface)                           {}
func (nopOverlay) Hide(port.ContentSurface)                           {}
func (nopOverlay) Close(port.ContentSurface)                          {}
func (nopOverlay) Create(port.ContentSurface, string, map[string]any) {}
func (nopOverlay) Reposition(port.Window)                             {}

type nopChrome struct{}

func (nopChrome) HideMenus(port.Window) {}
func (nopChrome) ShowMenu(context.Context, port.Window, string, map[string]any) error {
	return nil
}
func (nopChrome) ToggleMenu(context.Context, port.Window, string, map[string]any) error {
	return nil
}
func (nopChrome) UpdateMenu(context.Context, port.Window, map[string]any) error { return nil }
func (nopChrome) HideSiteInfo(port.Window)                                      {}
func (nopChrome) ToggleSiteInfo(context.Context, port.Window, map[string]any) error {
	return nil
}
func (nopChrome) SetStatus(port.Window, string) {}
func (nopChrome) ShowLocationBar(context.Context, port.Window, map[string]any) error {
	return nil
}
func (nopChrome) HideLocationBar(context.Context, port.Window) error { return nil }
func (nopChrome) RunLocationBarCmd(context.Context, port.Window, string, map[string]any) (any, error) {
	return nil, nil
}
func (nopChrome) SetCurrentLocation(port.Window, string) {}

// nopDialog always answers "Leave".
type nopDialog struct{}

func (nopDialog) ConfirmLeave(_ context.Context, _ port.Window, callback func(bool)) {
	callback(true)
}

type nopMenu struct{}

func (nopMenu) Popup(port.Window, []port.MenuItem) {}
