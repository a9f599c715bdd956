// Package layout computes pixel bounds for the split panes of a tab.
//
// A layout is an ordered list of stacks (full-height columns). Columns share
// the container width equally; the panes of one stack share the column
// height equally. Bounds always tile the container exactly.
package layout

import (
	"errors"
	"slices"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// ErrPaneNotFound is returned when a pane is not part of the layout.
var ErrPaneNotFound = errors.New("pane not found in layout")

// ErrDuplicatePane is returned when adding a pane that is already laid out.
var ErrDuplicatePane = errors.New("pane already in layout")

// ErrStackNotFound is returned when a stack is not part of the layout.
var ErrStackNotFound = errors.New("stack not found in layout")

// Stack is one full-height column of panes.
type Stack struct {
	panes []entity.PaneID
}

// Panes returns a copy of the stack's panes, top to bottom.
func (s *Stack) Panes() []entity.PaneID {
	return slices.Clone(s.panes)
}

// Len returns the number of panes in the stack.
func (s *Stack) Len() int {
	return len(s.panes)
}

// PaneBounds pairs a pane with its rectangle.
type PaneBounds struct {
	Pane   entity.PaneID
	Bounds entity.Rect
}

// Layout is the pane arrangement of one tab. It is not safe for
// concurrent use; all calls happen on the control thread.
type Layout struct {
	stacks    []*Stack
	bounds    map[entity.PaneID]entity.Rect
	onChanged func()
}

// New creates an empty layout.
func New() *Layout {
	return &Layout{bounds: make(map[entity.PaneID]entity.Rect)}
}

// OnChanged registers fn to run after every structural mutation.
func (l *Layout) OnChanged(fn func()) {
	l.onChanged = fn
}

// AddPane adds pane in a new stack. With after == "" the stack is appended;
// otherwise it is inserted right after the stack containing after.
func (l *Layout) AddPane(pane, after entity.PaneID) error {
	if _, ok := l.FindStack(pane); ok {
		return ErrDuplicatePane
	}
	stack := &Stack{panes: []entity.PaneID{pane}}
	if after == "" {
		l.stacks = append(l.stacks, stack)
		l.changed()
		return nil
	}
	i := l.stackIndexOf(after)
	if i < 0 {
		return ErrPaneNotFound
	}
	l.stacks = slices.Insert(l.stacks, i+1, stack)
	l.changed()
	return nil
}

// AddPaneToStack adds pane to an existing stack, right after the pane
// after, or at the bottom when after == "".
func (l *Layout) AddPaneToStack(stack *Stack, pane, after entity.PaneID) error {
	if !slices.Contains(l.stacks, stack) {
		return ErrStackNotFound
	}
	if _, ok := l.FindStack(pane); ok {
		return ErrDuplicatePane
	}
	if after == "" {
		stack.panes = append(stack.panes, pane)
		l.changed()
		return nil
	}
	j := slices.Index(stack.panes, after)
	if j < 0 {
		return ErrPaneNotFound
	}
	stack.panes = slices.Insert(stack.panes, j+1, pane)
	l.changed()
	return nil
}

// RemovePane removes pane; a stack left empty is removed too and its
// width is shared among the remaining stacks.
func (l *Layout) RemovePane(pane entity.PaneID) error {
	i := l.stackIndexOf(pane)
	if i < 0 {
		return ErrPaneNotFound
	}
	stack := l.stacks[i]
	stack.panes = slices.DeleteFunc(stack.panes, func(p entity.PaneID) bool { return p == pane })
	if len(stack.panes) == 0 {
		l.stacks = slices.Delete(l.stacks, i, i+1)
	}
	delete(l.bounds, pane)
	l.changed()
	return nil
}

// FindStack returns the stack containing pane.
func (l *Layout) FindStack(pane entity.PaneID) (*Stack, bool) {
	i := l.stackIndexOf(pane)
	if i < 0 {
		return nil, false
	}
	return l.stacks[i], true
}

// Stacks returns the stacks left to right.
func (l *Layout) Stacks() []*Stack {
	return slices.Clone(l.stacks)
}

// Panes returns every pane, column by column, top to bottom.
func (l *Layout) Panes() []entity.PaneID {
	var out []entity.PaneID
	for _, s := range l.stacks {
		out = append(out, s.panes...)
	}
	return out
}

// Len returns the number of panes.
func (l *Layout) Len() int {
	n := 0
	for _, s := range l.stacks {
		n += len(s.panes)
	}
	return n
}

// ComputePanesBounds lays every pane out inside container and caches the
// result for GetBoundsForPane. It depends only on the stack structure and
// the container.
func (l *Layout) ComputePanesBounds(container entity.Rect) []PaneBounds {
	out := make([]PaneBounds, 0, l.Len())
	clear(l.bounds)

	cols := split(container.X, container.Width, len(l.stacks))
	for i, s := range l.stacks {
		rows := split(container.Y, container.Height, len(s.panes))
		for j, pane := range s.panes {
			r := entity.Rect{
				X:      cols[i].start,
				Y:      rows[j].start,
				Width:  cols[i].size,
				Height: rows[j].size,
			}
			l.bounds[pane] = r
			out = append(out, PaneBounds{Pane: pane, Bounds: r})
		}
	}
	return out
}

// GetBoundsForPane returns the rectangle from the last ComputePanesBounds.
func (l *Layout) GetBoundsForPane(pane entity.PaneID) (entity.Rect, bool) {
	r, ok := l.bounds[pane]
	return r, ok
}

func (l *Layout) stackIndexOf(pane entity.PaneID) int {
	return slices.IndexFunc(l.stacks, func(s *Stack) bool {
		return slices.Contains(s.panes, pane)
	})
}

func (l *Layout) changed() {
	if l.onChanged != nil {
		l.onChanged()
	}
}

type span struct {
	start int
	size  int
}

// split divides [origin, origin+length) into n contiguous spans. Offsets are
// i*length/n, so spans never overlap and always cover the full length.
func split(origin, length, n int) []span {
	if n <= 0 {
		return nil
	}
	out := make([]span, n)
	for i := range n {
		a := i * length / n
		b := (i + 1) * length / n
		out[i] = span{start: origin + a, size: b - a}
	}
	return out
}
