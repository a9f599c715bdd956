package shellwin

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// ErrNoPendingDialog is returned when answering a window with no open dialog.
var ErrNoPendingDialog = errors.New("no pending dialog")

// Dialog is a port.Dialog whose questions are answered through the control
// API. With auto-answer enabled every question is answered at once.
type Dialog struct {
	loop mainloop.Loop

	mu      sync.Mutex
	auto    *bool
	pending map[entity.WindowID][]func(bool)
}

var _ port.Dialog = (*Dialog)(nil)

func NewDialog(loop mainloop.Loop) *Dialog {
	return &Dialog{loop: loop, pending: make(map[entity.WindowID][]func(bool))}
}

// SetAutoAnswer answers every future question with leave. nil turns it off.
func (d *Dialog) SetAutoAnswer(leave *bool) {
	d.mu.Lock()
	d.auto = leave
	d.mu.Unlock()
}

// ConfirmLeave queues the question for the window.
func (d *Dialog) ConfirmLeave(ctx context.Context, win port.Window, callback func(leave bool)) {
	d.mu.Lock()
	auto := d.auto
	if auto == nil {
		d.pending[win.ID()] = append(d.pending[win.ID()], callback)
	}
	d.mu.Unlock()
	if auto != nil {
		leave := *auto
		d.loop.Post(func() { callback(leave) })
	}
}

// Pending returns the number of unanswered questions of a window.
func (d *Dialog) Pending(id entity.WindowID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending[id])
}

// Answer resolves the oldest question of the window on the control thread.
func (d *Dialog) Answer(id entity.WindowID, leave bool) error {
	d.mu.Lock()
	queue := d.pending[id]
	if len(queue) == 0 {
		d.mu.Unlock()
		return ErrNoPendingDialog
	}
	callback := queue[0]
	if len(queue) == 1 {
		delete(d.pending, id)
	} else {
		d.pending[id] = queue[1:]
	}
	d.mu.Unlock()
	d.loop.Post(func() { callback(leave) })
	return nil
}

// Forget answers "stay" to every question of a closed window.
func (d *Dialog) Forget(id entity.WindowID) {
	d.mu.Lock()
	queue := d.pending[id]
	delete(d.pending, id)
	d.mu.Unlock()
	for _, callback := range queue {
		d.loop.Post(func() { callback(false) })
	}
}
