package watch

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlo-app/harlo-server/internal/model"
)

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for callback")
		panic("unreachable")
	}
}

func TestHub_SubscribeSummary_ReceivesChanges(t *testing.T) {
	hub := NewHub()
	id := uuid.New()
	got := make(chan model.Summary, 1)

	sub := hub.SubscribeSummary(id, func(s model.Summary) { got <- s })
	defer sub.Unsubscribe()

	hub.NotifySummary(model.Summary{ID: id, Status: model.StatusReady})

	s := waitFor(t, got)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, model.StatusReady, s.Status)
}

func TestHub_SubscribeSummary_IgnoresOtherRecords(t *testing.T) {
	hub := NewHub()
	got := make(chan model.Summary, 1)

	sub := hub.SubscribeSummary(uuid.New(), func(s model.Summary) { got <- s })
	defer sub.Unsubscribe()

	hub.NotifySummary(model.Summary{ID: uuid.New(), Status: model.StatusReady})

	select {
	case <-got:
		t.Fatal("callback fired for a different record")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Unsubscribe_StopsCallbacks(t *testing.T) {
	hub := NewHub()
	id := uuid.New()
	got := make(chan model.Summary, 8)

	sub := hub.SubscribeSummary(id, func(s model.Summary) { got <- s })
	sub.Unsubscribe()

	hub.NotifySummary(model.Summary{ID: id})

	select {
	case <-got:
		t.Fatal("callback fired after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Unsubscribe_Idempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.SubscribeSummary(uuid.New(), func(model.Summary) {})

	require.NotPanics(t, func() {
		sub.Unsubscribe()
		sub.Unsubscribe()
		sub.Unsubscribe()
	})
}

func TestHub_SubscribeSummary_NotYetCreatedRecord(t *testing.T) {
	hub := NewHub()
	id := uuid.New()
	got := make(chan model.Summary, 1)

	sub := hub.SubscribeSummary(id, func(s model.Summary) { got <- s })
	defer sub.Unsubscribe()

	// Nothing published yet: the callback simply does not fire.
	select {
	case <-got:
		t.Fatal("callback fired before the record exists")
	case <-time.After(50 * time.Millisecond):
	}

	// First publish after creation reaches the subscriber.
	hub.NotifySummary(model.Summary{ID: id, Status: model.StatusProcessing})
	s := waitFor(t, got)
	assert.Equal(t, model.StatusProcessing, s.Status)
}

func TestHub_SubscribeRecent_ReceivesOrderedSet(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()
	got := make(chan []model.Summary, 1)

	sub := hub.SubscribeRecent(owner, 6, func(rows []model.Summary) { got <- rows })
	defer sub.Unsubscribe()

	rows := []model.Summary{
		{ID: uuid.New(), OwnerID: owner},
		{ID: uuid.New(), OwnerID: owner},
	}
	hub.NotifyRecent(owner, rows)

	received := waitFor(t, got)
	require.Len(t, received, 2)
	assert.Equal(t, rows[0].ID, received[0].ID)
}

func TestHub_SubscribeRecent_TruncatesToLimit(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()
	got := make(chan []model.Summary, 1)

	sub := hub.SubscribeRecent(owner, 1, func(rows []model.Summary) { got <- rows })
	defer sub.Unsubscribe()

	hub.NotifyRecent(owner, []model.Summary{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}})

	received := waitFor(t, got)
	assert.Len(t, received, 1)
}

func TestHub_RecentLimits(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()

	assert.Empty(t, hub.RecentLimits(owner))

	s1 := hub.SubscribeRecent(owner, 6, func([]model.Summary) {})
	s2 := hub.SubscribeRecent(owner, 10, func([]model.Summary) {})
	defer s1.Unsubscribe()

	assert.ElementsMatch(t, []int{6, 10}, hub.RecentLimits(owner))

	s2.Unsubscribe()
	assert.ElementsMatch(t, []int{6}, hub.RecentLimits(owner))
}
