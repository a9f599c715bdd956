package tabs

import (
	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// maxClosedURLs bounds the per-window reopen stack.
const maxClosedURLs = 50

// windowTabs is the tab set of one top-level window.
// Tabs are ordered pinned first; at most one is active.
type windowTabs struct {
	win  port.Window
	tabs []*Tab

	preloaded    *Tab
	preloadTimer mainloop.Timer

	lastSelected int
	closedURLs   []string
	events       *Channel
	closed       bool
}

func newWindowTabs(win port.Window) *windowTabs {
	return &windowTabs{win: win, events: newChannel()}
}

func (s *windowTabs) indexOf(t *Tab) int {
	for i, tab := range s.tabs {
		if tab == t {
			return i
		}
	}
	return -1
}

func (s *windowTabs) active() *Tab {
	for _, t := range s.tabs {
		if t.isActive {
			return t
		}
	}
	return nil
}

func (s *windowTabs) numPinned() int {
	n := 0
	for _, t := range s.tabs {
		if t.isPinned {
			n++
		}
	}
	return n
}

func (s *windowTabs) at(index int) (*Tab, bool) {
	if index < 0 || index >= len(s.tabs) {
		return nil, false
	}
	return s.tabs[index], true
}

func (s *windowTabs) insert(index int, t *Tab) {
	if index < 0 {
		index = 0
	}
	if index > len(s.tabs) {
		index = len(s.tabs)
	}
	s.tabs = append(s.tabs, nil)
	copy(s.tabs[index+1:], s.tabs[index:])
	s.tabs[index] = t
}

func (s *windowTabs) removeAt(index int) {
	s.tabs = append(s.tabs[:index], s.tabs[index+1:]...)
}

func (s *windowTabs) pushClosed(u string) {
	if u == "" {
		return
	}
	s.closedURLs = append(s.closedURLs, u)
	if len(s.closedURLs) > maxClosedURLs {
		s.closedURLs = s.closedURLs[len(s.closedURLs)-maxClosedURLs:]
	}
}

func (s *windowTabs) popClosed() (string, bool) {
	n := len(s.closedURLs)
	if n == 0 {
		return "", false
	}
	u := s.closedURLs[n-1]
	s.closedURLs = s.closedURLs[:n-1]
	return u, true
}

func (s *windowTabs) pinnedURLs() []string {
	urls := make([]string, 0, s.numPinned())
	for _, t := range s.tabs {
		if t.isPinned {
			urls = append(urls, t.locationURL())
		}
	}
	return urls
}
