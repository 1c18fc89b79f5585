package liveplot

import (
	"sync"
	"testing"
)

func TestMailboxFIFO(t *testing.T) {
	m := newMailbox()
	const n = 100
	for i := range n {
		if !m.put(message{Op: opPoint, X: float64(i)}) {
			t.Fatalf("put(%d) reported closed", i)
		}
	}
	got := m.drain()
	if len(got) != n {
		t.Fatalf("drain() returned %d messages, want %d", len(got), n)
	}
	for i, msg := range got {
		if msg.X != float64(i) {
			t.Errorf("message %d has X = %g, want %d", i, msg.X, i)
		}
	}
}

func TestMailboxDrainEmpty(t *testing.T) {
	m := newMailbox()
	if got := m.drain(); len(got) != 0 {
		t.Errorf("drain() on empty mailbox = %v", got)
	}
}

func TestMailboxPutAfterClose(t *testing.T) {
	m := newMailbox()
	m.put(message{Op: opPoint, X: 1})
	m.close()
	if m.put(message{Op: opPoint, X: 2}) {
		t.Error("put() after close reported accepted")
	}
	// The message queued before close is still drainable.
	got := m.drain()
	if len(got) != 1 || got[0].X != 1 {
		t.Errorf("drain() after close = %v, want the pre-close message", got)
	}
}

func TestMailboxWaitDrainsBeforeClose(t *testing.T) {
	m := newMailbox()
	m.put(message{Op: opPoint, X: 1})
	m.put(message{Op: opPoint, X: 2})
	m.close()

	// First wait returns the queued messages with ok=true.
	msgs, ok := m.wait()
	if !ok || len(msgs) != 2 {
		t.Fatalf("wait() = %d messages, ok=%v; want 2, true", len(msgs), ok)
	}
	// Second wait finds the mailbox closed and empty.
	msgs, ok = m.wait()
	if ok || len(msgs) != 0 {
		t.Errorf("wait() on closed empty mailbox = %d messages, ok=%v; want 0, false", len(msgs), ok)
	}
}

func TestMailboxConcurrentProducer(t *testing.T) {
	m := newMailbox()
	const n = 1000

	var got []message
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			msgs, ok := m.wait()
			got = append(got, msgs...)
			if !ok {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range n {
			m.put(message{Op: opPoint, X: float64(i)})
		}
	}()
	wg.Wait()
	m.close()
	<-done

	// One producer: every message delivered, in order.
	if len(got) != n {
		t.Fatalf("consumer saw %d messages, want %d", len(got), n)
	}
	for i, msg := range got {
		if msg.X != float64(i) {
			t.Fatalf("message %d has X = %g, want %d", i, msg.X, i)
		}
	}
}
