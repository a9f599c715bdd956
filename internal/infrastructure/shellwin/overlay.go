package shellwin

import (
	"maps"
	"sync"

	"github.com/bnema/tabshell/internal/application/port"
)

// OverlayEntry is one overlay attached to a surface.
type OverlayEntry struct {
	Name    string         `json:"name"`
	Params  map[string]any `json:"params,omitempty"`
	Visible bool           `json:"visible"`
}

// Overlay tracks surface-scoped overlays. It implements port.Prompts; the
// permission prompt and modal layers use it through port.Overlay.
type Overlay struct {
	mu      sync.RWMutex
	entries map[port.SurfaceID][]OverlayEntry
	// repositions counts window relayouts.
	repositions int
}

var _ port.Prompts = (*Overlay)(nil)

func NewOverlay() *Overlay {
	return &Overlay{entries: make(map[port.SurfaceID][]OverlayEntry)}
}

// Create opens a named overlay for the surface. It starts visible.
func (o *Overlay) Create(s port.ContentSurface, name string, params map[string]any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[s.ID()] = append(o.entries[s.ID()], OverlayEntry{
		Name:    name,
		Params:  maps.Clone(params),
		Visible: true,
	})
}

func (o *Overlay) setVisible(s port.ContentSurface, visible bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	list := o.entries[s.ID()]
	for i := range list {
		list[i].Visible = visible
	}
}

func (o *Overlay) Show(s port.ContentSurface) { o.setVisible(s, true) }
func (o *Overlay) Hide(s port.ContentSurface) { o.setVisible(s, false) }

func (o *Overlay) Close(s port.ContentSurface) {
	o.mu.Lock()
	delete(o.entries, s.ID())
	o.mu.Unlock()
}

func (o *Overlay) Reposition(port.Window) {
	o.mu.Lock()
	o.repositions++
	o.mu.Unlock()
}

// Entries returns the overlays of a surface.
func (o *Overlay) Entries(id port.SurfaceID) []OverlayEntry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]OverlayEntry(nil), o.entries[id]...)
}
