package contact

import "sync/atomic"

// A bounded append-only array shared by concurrent writers. The write cursor
// is the only synchronized state; writers own the slots they reserve.
type appendBuffer[T any] struct {
	items  []T
	cursor atomic.Int32
}

func (b *appendBuffer[T]) reserve(n int) ([]T, bool) {
	end := int(b.cursor.Add(int32(n)))
	start := end - n
	if end > len(b.items) {
		return nil, false
	}
	return b.items[start:end:end], true
}

// The cursor may run past the capacity after a failed reservation.
func (b *appendBuffer[T]) len() int {
	n := int(b.cursor.Load())
	if n > len(b.items) {
		return len(b.items)
	}
	return n
}

func (b *appendBuffer[T]) reset() {
	b.cursor.Store(0)
}

// Buffer collects the contacts produced by one narrowphase pass. It is safe
// for concurrent use by multiple writers. Reading the contacts while writers
// are still active is not.
type Buffer struct {
	buf appendBuffer[Contact]
}

// NewBuffer allocates a buffer that can hold capacity contacts.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		buf: appendBuffer[Contact]{items: make([]Contact, capacity)},
	}
}

// Reserve claims n consecutive slots. It returns ErrBufferFull if the
// buffer cannot hold them; the caller must treat this as fatal for the pass
// since the contact set would otherwise be silently truncated.
func (b *Buffer) Reserve(n int) ([]Contact, error) {
	slots, ok := b.buf.reserve(n)
	if !ok {
		return nil, ErrBufferFull
	}
	return slots, nil
}

// Append adds a single contact.
func (b *Buffer) Append(c Contact) error {
	slots, err := b.Reserve(1)
	if err != nil {
		return err
	}
	slots[0] = c
	return nil
}

// Len returns the number of stored contacts.
func (b *Buffer) Len() int { return b.buf.len() }

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int { return len(b.buf.items) }

// Contacts returns the stored contacts. The slice aliases the buffer and is
// only valid until the next Reset.
func (b *Buffer) Contacts() []Contact {
	return b.buf.items[:b.buf.len()]
}

// Reset empties the buffer for the next pass.
func (b *Buffer) Reset() { b.buf.reset() }

// EventBuffer collects collision events with the same append semantics as
// Buffer.
type EventBuffer struct {
	buf appendBuffer[Event]
}

// NewEventBuffer allocates a buffer that can hold capacity events.
func NewEventBuffer(capacity int) *EventBuffer {
	return &EventBuffer{
		buf: appendBuffer[Event]{items: make([]Event, capacity)},
	}
}

// Append adds an event or returns ErrEventBufferFull.
func (b *EventBuffer) Append(ev Event) error {
	slots, ok := b.buf.reserve(1)
	if !ok {
		return ErrEventBufferFull
	}
	slots[0] = ev
	return nil
}

// Len returns the number of stored events.
func (b *EventBuffer) Len() int { return b.buf.len() }

// Events returns the stored events, valid until the next Reset.
func (b *EventBuffer) Events() []Event {
	return b.buf.items[:b.buf.len()]
}

// Reset empties the buffer.
func (b *EventBuffer) Reset() { b.buf.reset() }
