package tabs

import "errors"

var (
	// ErrTabNotFound is returned when an operation references a tab that is
	// no longer in its window.
	ErrTabNotFound = errors.New("tab not found")
	// ErrWindowNotFound is returned for windows the manager does not track.
	ErrWindowNotFound = errors.New("window not found")
	// ErrNoActivePane is returned when a tab has no active pane.
	ErrNoActivePane = errors.New("tab has no active pane")
	// ErrDestroyed cancels completions whose tab or pane was destroyed.
	ErrDestroyed = errors.New("destroyed")
	// ErrRemovalCanceled is returned when the user chose to stay on a page.
	ErrRemovalCanceled = errors.New("removal canceled")
	// ErrUnsupportedURL is returned for URLs tabs refuse to open.
	ErrUnsupportedURL = errors.New("unsupported url")
)
