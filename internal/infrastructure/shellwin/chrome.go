package shellwin

import (
	"context"
	"maps"
	"sync"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
)

// ChromeState is the visible state of one window's chrome.
type ChromeState struct {
	OpenMenu        string         `json:"openMenu,omitempty"`
	MenuOptions     map[string]any `json:"menuOptions,omitempty"`
	SiteInfoOpen    bool           `json:"siteInfoOpen"`
	Status          string         `json:"status,omitempty"`
	LocationBarOpen bool           `json:"locationBarOpen"`
	LocationCmds    []string       `json:"locationCmds,omitempty"`
	CurrentLocation string         `json:"currentLocation,omitempty"`
}

// Chrome is an in-memory port.ShellChrome.
type Chrome struct {
	mu     sync.RWMutex
	states map[entity.WindowID]*ChromeState
}

var _ port.ShellChrome = (*Chrome)(nil)

func NewChrome() *Chrome {
	return &Chrome{states: make(map[entity.WindowID]*ChromeState)}
}

// State returns a copy of the window's chrome state.
func (c *Chrome) State(id entity.WindowID) ChromeState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.states[id]
	if !ok {
		return ChromeState{}
	}
	out := *st
	out.MenuOptions = maps.Clone(st.MenuOptions)
	out.LocationCmds = append([]string(nil), st.LocationCmds...)
	return out
}

// Forget drops the state of a closed window.
func (c *Chrome) Forget(id entity.WindowID) {
	c.mu.Lock()
	delete(c.states, id)
	c.mu.Unlock()
}

func (c *Chrome) update(win port.Window, fn func(st *ChromeState)) {
	if win == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[win.ID()]
	if !ok {
		st = &ChromeState{}
		c.states[win.ID()] = st
	}
	fn(st)
}

func (c *Chrome) HideMenus(win port.Window) {
	c.update(win, func(st *ChromeState) {
		st.OpenMenu = ""
		st.MenuOptions = nil
	})
}

func (c *Chrome) ShowMenu(ctx context.Context, win port.Window, id string, opts map[string]any) error {
	c.update(win, func(st *ChromeState) {
		st.OpenMenu = id
		st.MenuOptions = maps.Clone(opts)
	})
	return nil
}

func (c *Chrome) ToggleMenu(ctx context.Context, win port.Window, id string, opts map[string]any) error {
	c.update(win, func(st *ChromeState) {
		if st.OpenMenu == id {
			st.OpenMenu = ""
			st.MenuOptions = nil
			return
		}
		st.OpenMenu = id
		st.MenuOptions = maps.Clone(opts)
	})
	return nil
}

func (c *Chrome) UpdateMenu(ctx context.Context, win port.Window, opts map[string]any) error {
	c.update(win, func(st *ChromeState) {
		if st.OpenMenu == "" {
			return
		}
		if st.MenuOptions == nil {
			st.MenuOptions = make(map[string]any, len(opts))
		}
		maps.Copy(st.MenuOptions, opts)
	})
	return nil
}

func (c *Chrome) HideSiteInfo(win port.Window) {
	c.update(win, func(st *ChromeState) { st.SiteInfoOpen = false })
}

func (c *Chrome) ToggleSiteInfo(ctx context.Context, win port.Window, opts map[string]any) error {
	c.update(win, func(st *ChromeState) { st.SiteInfoOpen = !st.SiteInfoOpen })
	return nil
}

func (c *Chrome) SetStatus(win port.Window, url string) {
	c.update(win, func(st *ChromeState) { st.Status = url })
}

func (c *Chrome) ShowLocationBar(ctx context.Context, win port.Window, opts map[string]any) error {
	c.update(win, func(st *ChromeState) { st.LocationBarOpen = true })
	return nil
}

func (c *Chrome) HideLocationBar(ctx context.Context, win port.Window) error {
	c.update(win, func(st *ChromeState) { st.LocationBarOpen = false })
	return nil
}

// RunLocationBarCmd records cmd. A headless location bar has no results to return.
func (c *Chrome) RunLocationBarCmd(ctx context.Context, win port.Window, cmd string, opts map[string]any) (any, error) {
	c.update(win, func(st *ChromeState) { st.LocationCmds = append(st.LocationCmds, cmd) })
	return nil, nil
}

func (c *Chrome) SetCurrentLocation(win port.Window, url string) {
	c.update(win, func(st *ChromeState) { st.CurrentLocation = url })
}
