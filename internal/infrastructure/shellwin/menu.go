package shellwin

import (
	"fmt"
	"sync"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// Menu keeps the last context menu of each window until an item is picked.
type Menu struct {
	loop mainloop.Loop

	mu    sync.Mutex
	menus map[entity.WindowID][]port.MenuItem
}

var _ port.Menu = (*Menu)(nil)

func NewMenu(loop mainloop.Loop) *Menu {
	return &Menu{loop: loop, menus: make(map[entity.WindowID][]port.MenuItem)}
}

func (m *Menu) Popup(win port.Window, items []port.MenuItem) {
	m.mu.Lock()
	m.menus[win.ID()] = append([]port.MenuItem(nil), items...)
	m.mu.Unlock()
}

// Labels returns the labels of the open menu; separators are "".
func (m *Menu) Labels(id entity.WindowID) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.menus[id]
	out := make([]string, len(items))
	for i, it := range items {
		if !it.Separator {
			out[i] = it.Label
		}
	}
	return out
}

// Click picks item index of the open menu and closes it. Click handlers
// run on the control thread.
func (m *Menu) Click(id entity.WindowID, index int) error {
	m.mu.Lock()
	items := m.menus[id]
	if index < 0 || index >= len(items) {
		m.mu.Unlock()
		return fmt.Errorf("menu item %d out of range", index)
	}
	item := items[index]
	delete(m.menus, id)
	m.mu.Unlock()

	switch {
	case item.Separator:
		return fmt.Errorf("menu item %d is a separator", index)
	case item.Role != "":
		return fmt.Errorf("menu role %q needs an editable page", item.Role)
	case item.Click != nil:
		m.loop.Post(item.Click)
	}
	return nil
}
