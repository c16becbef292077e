package store

import (
	"sync/atomic"

	"github.com/hearthhq/hearth/internal/models"
)

// Snapshot is the full current state of a household, delivered to
// watchers on every change. Deltas are never sent; consumers rebuild
// derived state (the assembled graph) from each snapshot, so out-of-order
// delivery across observers converges rather than corrupts.
type Snapshot struct {
	Household *models.Household
	Members   []models.Person
	Ancestors []models.Person
}

type watchReq struct {
	householdID string
	ch          chan Snapshot
}

// hub fans snapshots out to watchers.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (the watcher registry). Public methods communicate with this loop
// through channels, so no mutexes are required. Lagging watchers are
// skipped, never blocked on; the next change delivers a fresh snapshot
// anyway.
type hub struct {
	fetch func(householdID string) (Snapshot, error)

	subscribeCh   chan watchReq
	unsubscribeCh chan watchReq
	notifyCh      chan string

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

func newHub(fetch func(householdID string) (Snapshot, error)) *hub {
	h := &hub{
		fetch:         fetch,
		subscribeCh:   make(chan watchReq),
		unsubscribeCh: make(chan watchReq),
		notifyCh:      make(chan string, 256),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *hub) run() {
	defer close(h.stopped)

	watchers := make(map[string]map[chan Snapshot]struct{})

	for {
		select {
		case <-h.stopCh:
			for _, set := range watchers {
				for ch := range set {
					close(ch)
				}
			}
			return

		case req := <-h.subscribeCh:
			set, ok := watchers[req.householdID]
			if !ok {
				set = make(map[chan Snapshot]struct{})
				watchers[req.householdID] = set
			}
			set[req.ch] = struct{}{}
			// A new watcher receives the current snapshot at
			// registration, so its first message does not depend on
			// change notifications queued before the subscription.
			if snap, err := h.fetch(req.householdID); err == nil {
				select {
				case req.ch <- snap:
				default:
				}
			}

		case req := <-h.unsubscribeCh:
			if set, ok := watchers[req.householdID]; ok {
				if _, ok := set[req.ch]; ok {
					delete(set, req.ch)
					close(req.ch)
				}
				if len(set) == 0 {
					delete(watchers, req.householdID)
				}
			}

		case householdID := <-h.notifyCh:
			set := watchers[householdID]
			if len(set) == 0 {
				continue
			}
			snap, err := h.fetch(householdID)
			if err != nil {
				continue
			}
			for ch := range set {
				select {
				case ch <- snap:
				default:
					// Watcher buffer full; skip to avoid blocking the hub.
				}
			}
		}
	}
}

func (h *hub) notify(householdID string) {
	if h.closed.Load() {
		return
	}
	select {
	case h.notifyCh <- householdID:
	case <-h.stopped:
	}
}

func (h *hub) close() {
	if h.closed.CompareAndSwap(false, true) {
		close(h.stopCh)
	}
	<-h.stopped
}

// snapshot loads the full household state for watch delivery.
func (db *DB) snapshot(householdID string) (Snapshot, error) {
	h, err := db.GetHousehold(householdID)
	if err != nil {
		return Snapshot{}, err
	}
	members, err := db.ListMembers(householdID)
	if err != nil {
		return Snapshot{}, err
	}
	ancestors, err := db.ListAncestors(householdID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Household: h, Members: members, Ancestors: ancestors}, nil
}

// Watch registers a watcher for a household. The returned channel
// receives the current snapshot at registration and the full current
// snapshot after every change. Callers that navigate away must call
// Unwatch to tear the subscription down.
func (db *DB) Watch(householdID string) chan Snapshot {
	ch := make(chan Snapshot, 8)
	if db.hub.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case db.hub.subscribeCh <- watchReq{householdID: householdID, ch: ch}:
	case <-db.hub.stopped:
		close(ch)
	}
	return ch
}

// Unwatch removes a watcher and closes its channel.
func (db *DB) Unwatch(householdID string, ch chan Snapshot) {
	if db.hub.closed.Load() {
		return
	}
	select {
	case db.hub.unsubscribeCh <- watchReq{householdID: householdID, ch: ch}:
	case <-db.hub.stopped:
	}
}
