// Package ingest implements bulk record validation and loading against a
// resolved model: batching, per-record error reporting, cancellation
// between batches, and progress notification.
package ingest

import (
	"sync"

	"github.com/inab/BP-Model/log"
)

// Event is one progress notification published during a batch ingest run.
type Event struct {
	Subj string // "progress" or "done"
	Data interface{}
}

// Subscriber is anything that can receive ingest progress events, mirroring
// the transport-agnostic connection shape used for the process-wide
// notification hub: an identifier plus an unchanging receive channel.
type Subscriber interface {
	ID() int64
	Chan() chan<- *Event
}

// Notifier fans out ingest events to every currently subscribed listener.
// Unlike a full connection hub, a Notifier has no routing concept — every
// subscriber receives every event — since ingest progress has exactly one
// topic per run.
type Notifier struct {
	mu   sync.Mutex
	subs map[int64]Subscriber

	// Logger receives batch-progress and cancellation diagnostics from
	// Ingest. Nil means log.Root.
	Logger log.Logger
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int64]Subscriber, 8)}
}

// Subscribe registers s to receive future events.
func (n *Notifier) Subscribe(s Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[s.ID()] = s
}

// Unsubscribe removes s.
func (n *Notifier) Unsubscribe(s Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, s.ID())
}

// Publish sends ev to every current subscriber. A subscriber with a full
// channel is skipped rather than blocking the run.
func (n *Notifier) Publish(ev *Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, s := range n.subs {
		select {
		case s.Chan() <- ev:
		default:
		}
	}
}

// Progress reports how far a batch run has gotten.
type Progress struct {
	BatchIndex int
	Attempted  int
	Succeeded  int
	Failed     int
}
