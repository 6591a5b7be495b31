package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-manager/internal/core/ports"
)

type recordingDelivery struct {
	mu        sync.Mutex
	delivered []ports.InvitationNotice
	fail      map[string]bool
	done      chan struct{}
}

func newRecordingDelivery(expected int) *recordingDelivery {
	return &recordingDelivery{fail: make(map[string]bool), done: make(chan struct{}, expected)}
}

func (r *recordingDelivery) Deliver(_ context.Context, n ports.InvitationNotice) error {
	defer func() { r.done <- struct{}{} }()
	if r.fail[n.InvitationID] {
		return errors.New("smtp unavailable")
	}
	r.mu.Lock()
	r.delivered = append(r.delivered, n)
	r.mu.Unlock()
	return nil
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func TestDispatcher_DeliversInOrderPerEmail(t *testing.T) {
	delivery := newRecordingDelivery(3)
	d := NewDispatcher(4, delivery, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Notify(ports.InvitationNotice{InvitationID: "1", Email: "a@example.com", Token: "t1"})
	d.Notify(ports.InvitationNotice{InvitationID: "1", Email: "a@example.com", Token: "t2", Resent: true})
	d.Notify(ports.InvitationNotice{InvitationID: "1", Email: "a@example.com", Token: "t3", Resent: true})
	waitFor(t, delivery.done, 3)

	cancel()
	d.Wait()

	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	if len(delivery.delivered) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(delivery.delivered))
	}
	for i, want := range []string{"t1", "t2", "t3"} {
		if delivery.delivered[i].Token != want {
			t.Fatalf("delivery %d: got token %s want %s", i, delivery.delivered[i].Token, want)
		}
	}
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	delivery := newRecordingDelivery(2)
	delivery.fail["bad"] = true
	d := NewDispatcher(1, delivery, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Notify(ports.InvitationNotice{InvitationID: "bad", Email: "x@example.com"})
	d.Notify(ports.InvitationNotice{InvitationID: "good", Email: "x@example.com"})
	waitFor(t, delivery.done, 2)

	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	if len(delivery.delivered) != 1 || delivery.delivered[0].InvitationID != "good" {
		t.Fatalf("expected only the good notice delivered, got %+v", delivery.delivered)
	}
}

func TestDispatcher_NotifyNeverBlocks(t *testing.T) {
	d := NewDispatcher(1, newRecordingDelivery(0), zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Notify(ports.InvitationNotice{InvitationID: "n", Email: "same@example.com"})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("Notify blocked on a full queue")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected a full buffer of %d, got %d", channelBuffer, got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, newRecordingDelivery(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("a@example.com")
	for i := 0; i < 10; i++ {
		if d.shardIndex("a@example.com") != first {
			t.Fatalf("shard index must be deterministic")
		}
	}
}
