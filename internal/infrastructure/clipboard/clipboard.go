// Package clipboard provides a system clipboard adapter.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/logging"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool available (install wl-clipboard, xclip or xsel)")

// backend is the system clipboard seam.
type backend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
	Unsupported() bool
}

type systemBackend struct{}

func (systemBackend) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemBackend) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (systemBackend) Unsupported() bool          { return clipboard.Unsupported }

// Adapter implements port.Clipboard on the desktop clipboard.
type Adapter struct {
	b backend
}

var _ port.Clipboard = (*Adapter)(nil)

// New creates a clipboard adapter for the running session.
func New() *Adapter {
	return &Adapter{b: systemBackend{}}
}

// WriteText copies text to the clipboard.
func (a *Adapter) WriteText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)
	if a.b.Unsupported() {
		log.Error().Err(ErrUnavailable).Msg("clipboard write failed")
		return ErrUnavailable
	}
	if err := a.b.WriteAll(text); err != nil {
		log.Error().Err(err).Msg("clipboard write failed")
		return fmt.Errorf("write clipboard: %w", err)
	}
	log.Debug().Int("len", len(text)).Msg("clipboard write success")
	return nil
}

// ReadText reads text from the clipboard.
func (a *Adapter) ReadText(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)
	if a.b.Unsupported() {
		return "", ErrUnavailable
	}
	text, err := a.b.ReadAll()
	if err != nil {
		log.Debug().Err(err).Msg("clipboard read failed (may be empty)")
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	log.Debug().Int("len", len(text)).Msg("clipboard read success")
	return text, nil
}

// Clear clears the clipboard contents.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.WriteText(ctx, "")
}
