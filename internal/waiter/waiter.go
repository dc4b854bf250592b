// Package waiter implements the trigger waiter: a bounded,
// single-slot rendezvous that resolves a pending DOWN against the
// next event within a timeout.
package waiter

import (
	"sync"
	"time"

	"wheelgo/internal/event"
	"wheelgo/internal/logging"
)

var log = logging.L("waiter")

// State is the WaiterSlot's state machine.
type State int32

const (
	Idle State = iota
	Waiting
	Offered
	Done
)

// Action is the dispatch decision the waiter worker reaches once a
// wait resolves.
type Action int

const (
	ActionResendDown   Action = iota // MOVE, or timeout: re-emit D tagged RESEND
	ActionThroughClick               // UP at D's point: synthesize a through-click
	ActionResendBoth                 // UP elsewhere: re-emit D then E separately
	ActionEnterScroll                // DOWN of the cooperating button: enter scroll mode
)

// Result is handed to the Dispatcher once the rendezvous resolves.
type Result struct {
	Action Action
	D      event.MouseEvent
	E      event.MouseEvent // zero value when Action has no second event
}

// Dispatcher executes the side effects of a resolved wait. It is
// implemented by the mouse classifier / core so this package stays
// free of injector and scroll-mode concerns.
type Dispatcher interface {
	Dispatch(Result)
}

// Waiter is a single-slot rendezvous. One Waiter instance backs one
// Core; only one DOWN may be pending at a time, matching the
// WaiterSlot data model exactly.
type Waiter struct {
	mu    sync.Mutex
	state State
	d     event.MouseEvent
	e     event.MouseEvent

	offeredCh chan struct{}
	doneCh    chan struct{}

	dispatcher Dispatcher
}

// New creates a Waiter that reports resolved waits to dispatcher.
func New(dispatcher Dispatcher) *Waiter {
	return &Waiter{state: Idle, dispatcher: dispatcher}
}

// State returns a snapshot of the current slot state. The classifier
// uses it as a pre-check before Offer/Start; the snapshot may be stale
// by the time it is acted on, so Offer and Start re-check the state
// under the mutex.
func (w *Waiter) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start arms the slot for D and launches the waiter worker, which
// polls for an offer up to pollTimeout. Returns false if a wait is
// already active — the caller's DOWN proceeds through the normal
// checker chain instead.
func (w *Waiter) Start(d event.MouseEvent, pollTimeout time.Duration) bool {
	w.mu.Lock()
	if w.state != Idle {
		w.mu.Unlock()
		return false
	}
	w.state = Waiting
	w.d = d
	w.e = event.MouseEvent{}
	w.offeredCh = make(chan struct{}, 1)
	w.doneCh = make(chan struct{}, 1)
	offeredCh := w.offeredCh
	doneCh := w.doneCh
	w.mu.Unlock()

	go w.poll(pollTimeout, offeredCh, doneCh)
	return true
}

// Offer hands the hook thread's next observed event to the armed
// waiter. It CAS-transitions Waiting->Offered and blocks up to 150ms,
// a hard-coded in-hook bound, for the waiter worker to acknowledge
// Done. Returns false ("not accepted") if the slot was not Waiting —
// the caller's event proceeds through its normal checker chain.
func (w *Waiter) Offer(e event.MouseEvent) bool {
	const offerBound = 150 * time.Millisecond

	w.mu.Lock()
	if w.state != Waiting {
		w.mu.Unlock()
		return false
	}
	// Publish the payload before the state transition becomes
	// observable; both are protected by the same mutex here, which is a
	// valid (and idiomatic) stand-in for an explicit fence pair.
	w.e = e
	w.state = Offered
	doneCh := w.doneCh
	offeredCh := w.offeredCh
	w.mu.Unlock()

	select {
	case offeredCh <- struct{}{}:
	default:
	}

	select {
	case <-doneCh:
		return true
	case <-time.After(offerBound):
		log.Warnw("offer acknowledgement exceeded bound, proceeding anyway")
		return true
	}
}

func (w *Waiter) poll(pollTimeout time.Duration, offeredCh, doneCh chan struct{}) {
	select {
	case <-offeredCh:
		w.mu.Lock()
		if w.state != Offered {
			// Lost the race to a concurrent reset; nothing to dispatch.
			w.mu.Unlock()
			return
		}
		d, e := w.d, w.e
		w.state = Done
		w.mu.Unlock()

		w.dispatchResolved(d, e)

		w.mu.Lock()
		w.state = Idle
		w.mu.Unlock()

		select {
		case doneCh <- struct{}{}:
		default:
		}

	case <-time.After(pollTimeout):
		w.mu.Lock()
		if w.state == Offered {
			// Offered concurrently with the timeout: resolve the offer.
			d, e := w.d, w.e
			w.state = Done
			w.mu.Unlock()
			w.dispatchResolved(d, e)
			w.mu.Lock()
			w.state = Idle
			w.mu.Unlock()
			select {
			case doneCh <- struct{}{}:
			default:
			}
			return
		}
		if w.state != Waiting {
			w.mu.Unlock()
			return
		}
		d := w.d
		w.state = Idle
		w.mu.Unlock()

		w.dispatcher.Dispatch(Result{Action: ActionResendDown, D: d})
	}
}

func (w *Waiter) dispatchResolved(d, e event.MouseEvent) {
	switch {
	case e.Kind == event.MouseMove:
		w.dispatcher.Dispatch(Result{Action: ActionResendDown, D: d, E: e})
	case e.Kind == event.MouseUp && e.Point == d.Point:
		w.dispatcher.Dispatch(Result{Action: ActionThroughClick, D: d, E: e})
	case e.Kind == event.MouseUp:
		w.dispatcher.Dispatch(Result{Action: ActionResendBoth, D: d, E: e})
	case e.Kind == event.MouseDown:
		w.dispatcher.Dispatch(Result{Action: ActionEnterScroll, D: d, E: e})
	default:
		log.Warnw("unexpected offered event kind, treating as resend", "kind", e.Kind)
		w.dispatcher.Dispatch(Result{Action: ActionResendDown, D: d, E: e})
	}
}

// Reset forces the slot back to Idle, canceling any active wait
// without dispatching. Used by the Escape checker and full state
// resets.
func (w *Waiter) Reset() {
	w.mu.Lock()
	w.state = Idle
	w.mu.Unlock()
}
