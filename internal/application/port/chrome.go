package port

import "context"

// Overlay is a window-scoped UI layer attached to a content surface
// (transient prompts, permission prompts, modal dialogs).
type Overlay interface {
	// Show displays any overlay belonging to the surface.
	Show(s ContentSurface)
	// Hide hides the overlay without discarding it.
	Hide(s ContentSurface)
	// Close discards the overlay.
	Close(s ContentSurface)
}

// Prompts is the transient prompt overlay.
type Prompts interface {
	Overlay
	// Create opens a named prompt (e.g. "create-page") for the surface.
	Create(s ContentSurface, name string, params map[string]any)
	// Reposition re-lays out prompts after a window resize.
	Reposition(win Window)
}

// Prompt names.
const (
	PromptCreatePage  = "create-page"
	PromptEditProfile = "edit-profile"
)

// ShellChrome groups the window-chrome components around the tab content:
// shell menus, the site-info panel, the status bar, the location bar
// and the application window menu.
type ShellChrome interface {
	HideMenus(win Window)
	ShowMenu(ctx context.Context, win Window, id string, opts map[string]any) error
	ToggleMenu(ctx context.Context, win Window, id string, opts map[string]any) error
	UpdateMenu(ctx context.Context, win Window, opts map[string]any) error

	HideSiteInfo(win Window)
	ToggleSiteInfo(ctx context.Context, win Window, opts map[string]any) error

	// SetStatus shows url in the status bar ("" clears it).
	SetStatus(win Window, url string)

	ShowLocationBar(ctx context.Context, win Window, opts map[string]any) error
	HideLocationBar(ctx context.Context, win Window) error
	RunLocationBarCmd(ctx context.Context, win Window, cmd string, opts map[string]any) (any, error)

	// SetCurrentLocation lets the window menu track the active location.
	SetCurrentLocation(win Window, url string)
}

// Dialog shows blocking confirmation dialogs.
type Dialog interface {
	// ConfirmLeave asks the user whether to leave a page that vetoed unloading.
	// The callback is invoked on the control thread with true for "Leave"
	// and false for "Stay".
	ConfirmLeave(ctx context.Context, win Window, callback func(leave bool))
}

// MenuItem is one entry of a context menu.
type MenuItem struct {
	Label     string
	Role      string // cut, copy, paste: handled by the menu implementation
	Separator bool
	// Click runs on the control thread.
	Click func()
}

// Menu pops up context menus.
type Menu interface {
	Popup(win Window, items []MenuItem)
}

// Clipboard is the desktop text clipboard. ReadText returns "" when the
// clipboard holds no text.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
	ReadText(ctx context.Context) (string, error)
}
