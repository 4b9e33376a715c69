// Package watch implements in-process push subscriptions for summary
// documents: a single-record feed and a per-owner recent-list feed.
// Subscriptions deliver through a buffered channel drained by a
// dedicated goroutine, so publishers never block on slow callbacks and
// an unsubscribed handle stops invoking its callback immediately.
package watch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/harlo-app/harlo-server/internal/model"
)

// subscription channels are buffered; when a subscriber falls behind,
// older snapshots are dropped in favor of the latest one.
const subscriptionBuffer = 16

// Hub fans summary changes out to subscribers.
type Hub struct {
	mu        sync.Mutex
	nextID    int
	bySummary map[uuid.UUID]map[int]*Subscription
	byOwner   map[uuid.UUID]map[int]*listSubscription
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		bySummary: make(map[uuid.UUID]map[int]*Subscription),
		byOwner:   make(map[uuid.UUID]map[int]*listSubscription),
	}
}

// Subscription is a handle for one single-record subscription. It must
// be unsubscribed exactly once when no longer needed; extra calls are
// harmless no-ops.
type Subscription struct {
	hub       *Hub
	summaryID uuid.UUID
	id        int
	ch        chan model.Summary
	done      chan struct{}
	once      sync.Once
}

// Unsubscribe detaches the subscription. The callback is not invoked
// again after it returns and the delivery channel is released.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		subs := s.hub.bySummary[s.summaryID]
		delete(subs, s.id)
		if len(subs) == 0 {
			delete(s.hub.bySummary, s.summaryID)
		}
		s.hub.mu.Unlock()

		close(s.done)
	})
}

type listSubscription struct {
	hub     *Hub
	ownerID uuid.UUID
	id      int
	limit   int
	ch      chan []model.Summary
	done    chan struct{}
	once    sync.Once
}

// ListSubscription is a handle for one recent-list subscription.
type ListSubscription struct {
	inner *listSubscription
}

// Unsubscribe detaches the subscription; safe to call more than once.
func (s *ListSubscription) Unsubscribe() {
	s.inner.once.Do(func() {
		hub := s.inner.hub
		hub.mu.Lock()
		subs := hub.byOwner[s.inner.ownerID]
		delete(subs, s.inner.id)
		if len(subs) == 0 {
			delete(hub.byOwner, s.inner.ownerID)
		}
		hub.mu.Unlock()

		close(s.inner.done)
	})
}

// Limit returns how many recent summaries the subscriber asked for.
func (s *ListSubscription) Limit() int {
	return s.inner.limit
}

// SubscribeSummary registers fn to receive every change of the summary
// with the given id. If the record does not exist yet, fn first fires
// when it is created.
func (h *Hub) SubscribeSummary(summaryID uuid.UUID, fn func(model.Summary)) *Subscription {
	h.mu.Lock()
	h.nextID++
	sub := &Subscription{
		hub:       h,
		summaryID: summaryID,
		id:        h.nextID,
		ch:        make(chan model.Summary, subscriptionBuffer),
		done:      make(chan struct{}),
	}
	if h.bySummary[summaryID] == nil {
		h.bySummary[summaryID] = make(map[int]*Subscription)
	}
	h.bySummary[summaryID][sub.id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case summary := <-sub.ch:
				select {
				case <-sub.done:
					return
				default:
				}
				fn(summary)
			}
		}
	}()

	return sub
}

// SubscribeRecent registers fn to receive the owner's recent summaries
// as a whole ordered set whenever it changes.
func (h *Hub) SubscribeRecent(ownerID uuid.UUID, limit int, fn func([]model.Summary)) *ListSubscription {
	h.mu.Lock()
	h.nextID++
	sub := &listSubscription{
		hub:     h,
		ownerID: ownerID,
		id:      h.nextID,
		limit:   limit,
		ch:      make(chan []model.Summary, subscriptionBuffer),
		done:    make(chan struct{}),
	}
	if h.byOwner[ownerID] == nil {
		h.byOwner[ownerID] = make(map[int]*listSubscription)
	}
	h.byOwner[ownerID][sub.id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case rows := <-sub.ch:
				select {
				case <-sub.done:
					return
				default:
				}
				fn(rows)
			}
		}
	}()

	return &ListSubscription{inner: sub}
}

// NotifySummary pushes a record snapshot to its single-record subscribers.
func (h *Hub) NotifySummary(summary model.Summary) {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.bySummary[summary.ID]))
	for _, sub := range h.bySummary[summary.ID] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		push(sub.ch, summary)
	}
}

// NotifyRecent pushes the owner's refreshed recent set to list
// subscribers. The caller supplies the ordered rows; subscribers with a
// smaller limit receive a truncated copy.
func (h *Hub) NotifyRecent(ownerID uuid.UUID, rows []model.Summary) {
	h.mu.Lock()
	subs := make([]*listSubscription, 0, len(h.byOwner[ownerID]))
	for _, sub := range h.byOwner[ownerID] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		snapshot := rows
		if sub.limit > 0 && len(snapshot) > sub.limit {
			snapshot = snapshot[:sub.limit]
		}
		push(sub.ch, snapshot)
	}
}

// RecentLimits returns the distinct limits of the owner's active list
// subscribers, so publishers know how many rows to fetch. Zero length
// means nobody is listening.
func (h *Hub) RecentLimits(ownerID uuid.UUID) []int {
	h.mu.Lock()
	defer h.mu.Unlock()

	var limits []int
	for _, sub := range h.byOwner[ownerID] {
		limits = append(limits, sub.limit)
	}
	return limits
}

// push enqueues v, dropping the oldest pending item when the buffer is
// full so the latest snapshot always gets through.
func push[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
