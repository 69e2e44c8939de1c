// Package observe provides last-value broadcast streams for UI state.
package observe

import "sync"

// Value holds the latest published value of T and fans it out to subscribers.
// Any number may subscribe. Publish never blocks: when a subscriber's buffer
// is full its oldest value is dropped, so the last value read is always the
// latest one published.
type Value[T any] struct {
	mu      sync.RWMutex
	value   T
	set     bool
	nextID  int
	readers map[int]chan T
}

// NewValue creates an empty Value.
func NewValue[T any]() *Value[T] {
	return &Value[T]{readers: make(map[int]chan T)}
}

// NewValueOf creates a Value that already holds v.
func NewValueOf[T any](v T) *Value[T] {
	o := NewValue[T]()
	o.value = v
	o.set = true
	return o
}

// Get returns the last published value, and false if nothing was published yet.
func (o *Value[T]) Get() (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value, o.set
}

// Publish stores v and sends it to every subscriber.
func (o *Value[T]) Publish(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.value = v
	o.set = true
	for _, ch := range o.readers {
		select {
		case ch <- v:
		default:
			// Full: replace the stale value so the reader ends on v
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Subscribe returns a channel receiving every later value and a cancel func
// that closes it. If a value was already published it is delivered first.
// buf below 1 is raised to 1.
func (o *Value[T]) Subscribe(buf int) (<-chan T, func()) {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan T, buf)

	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.readers[id] = ch
	if o.set {
		ch <- o.value
	}
	o.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.readers, id)
			close(ch)
			o.mu.Unlock()
		})
	}
	return ch, cancel
}
