package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PizzaHomicide/koma/internal/scrub"
	"github.com/PizzaHomicide/koma/internal/ui/tui/models"
)

// stateForwarder hands controller snapshots to the bubbletea program without blocking the controller.  Observers run
// on whichever goroutine changed the state, including the program's own update loop, so sending directly could
// deadlock.  Only the newest snapshot is kept; intermediate ones are skipped when the program is busy.
type stateForwarder struct {
	mu      sync.Mutex
	latest  scrub.State
	pending bool
	signal  chan struct{}
}

func newStateForwarder() *stateForwarder {
	return &stateForwarder{signal: make(chan struct{}, 1)}
}

// push is the controller observer
func (f *stateForwarder) push(s scrub.State) {
	f.mu.Lock()
	if !f.pending || s.Version > f.latest.Version {
		f.latest = s
		f.pending = true
	}
	f.mu.Unlock()

	select {
	case f.signal <- struct{}{}:
	default:
	}
}

// run delivers snapshots to send until ctx is done
func (f *stateForwarder) run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.signal:
			f.mu.Lock()
			s, ok := f.latest, f.pending
			f.pending = false
			f.mu.Unlock()

			if ok {
				send(models.StateMsg{State: s})
			}
		}
	}
}
