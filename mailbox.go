package liveplot

import "sync"

// mailbox is an unbounded FIFO queue of wire messages with a single
// blocking consumer. It is the in-process half of the offload channel on
// both sides: the parent's Send enqueues here and a writer goroutine
// drains into the pipe; the child's decode goroutine enqueues here and
// the render tick drains.
//
// The queue is unbounded on purpose: Send must never block the producer
// loop, and the delivery contract is that every accepted point reaches
// the renderer in order. The consumer drains in batches, so the queue
// stays short whenever the renderer keeps up.
type mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	msgs   []message
	closed bool
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// put appends a message. Reports false if the mailbox is already closed,
// in which case the message is dropped.
func (m *mailbox) put(msg message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.msgs = append(m.msgs, msg)
	m.cond.Signal()
	return true
}

// drain removes and returns all queued messages without blocking.
func (m *mailbox) drain() []message {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.msgs
	m.msgs = nil
	return msgs
}

// wait blocks until at least one message is queued or the mailbox is
// closed, then removes and returns everything queued. Reports ok=false
// only once the mailbox is closed AND fully drained, so a consumer loop
// terminates without losing messages.
func (m *mailbox) wait() (msgs []message, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.msgs) == 0 && !m.closed {
		m.cond.Wait()
	}
	msgs = m.msgs
	m.msgs = nil
	return msgs, len(msgs) > 0 || !m.closed
}

// close marks the mailbox closed and wakes the consumer. Already queued
// messages remain drainable; further puts are dropped.
func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
}
