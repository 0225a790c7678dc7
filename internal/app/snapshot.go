package app

import (
	"image"
	"time"

	"golang.org/x/image/math/f64"

	"github.com/ayusman/hastaview/internal/detector"
	"github.com/ayusman/hastaview/internal/gesture"
	"github.com/ayusman/hastaview/internal/transform"
)

// Snapshot is an immutable copy of the loop state after one frame.
type Snapshot struct {
	Frame     int
	Mode      gesture.Mode
	Raw       transform.View
	View      transform.View
	Matrix    f64.Aff3
	Hands     detector.Frame
	ImageSize image.Point
	At        time.Time
}

// snapshotBuffer is the per-subscriber channel capacity.
const snapshotBuffer = 4

// Snapshot returns the state published after the latest frame.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Subscribe returns a channel receiving every published Snapshot and a
// function that ends the subscription. Slow subscribers miss snapshots
// instead of blocking the loop.
func (a *App) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, snapshotBuffer)

	a.mu.Lock()
	a.subs[ch] = struct{}{}
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if _, ok := a.subs[ch]; !ok {
			return
		}
		delete(a.subs, ch)
		close(ch)
	}
	return ch, cancel
}

// snapshot builds a Snapshot from loop-owned state. Only the loop calls it.
func (a *App) snapshot() Snapshot {
	view := a.state.View()
	hands := a.lastHands
	hands.Hands = append([]detector.Hand(nil), hands.Hands...)

	return Snapshot{
		Frame:     a.frames,
		Mode:      a.mode,
		Raw:       a.state.Raw(),
		View:      view,
		Matrix:    transform.Compose(view, a.size),
		Hands:     hands,
		ImageSize: a.size,
		At:        time.Now(),
	}
}

func (a *App) publish(s Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.current = s
	for ch := range a.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// closeSubscribers ends every subscription when the loop stops.
func (a *App) closeSubscribers() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for ch := range a.subs {
		delete(a.subs, ch)
		close(ch)
	}
}
