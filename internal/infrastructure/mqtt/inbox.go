package mqtt

import "sync"

// inbox is a bounded FIFO queue between paho's delivery goroutines and the
// controller's poll loop.
//
// When full, the oldest message is dropped in favour of the newest: for an
// actuator, the most recent command is the one that matters, and an
// unattended device must not grow an unbounded backlog while disconnected
// from its consumer.
type inbox struct {
	mu      sync.Mutex
	queue   []Message
	cap     int
	dropped uint64
}

func newInbox(capacity int) *inbox {
	return &inbox{
		queue: make([]Message, 0, capacity),
		cap:   capacity,
	}
}

// put appends a message, evicting the oldest entry if the inbox is full.
// Reports whether an eviction occurred.
func (b *inbox) put(msg Message) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	evicted := false
	if len(b.queue) >= b.cap {
		b.queue = b.queue[1:]
		b.dropped++
		evicted = true
	}

	b.queue = append(b.queue, msg)
	return evicted
}

// take removes and returns the oldest message, if any.
func (b *inbox) take() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return Message{}, false
	}

	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg, true
}

// droppedTotal returns the number of messages evicted since startup.
func (b *inbox) droppedTotal() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
