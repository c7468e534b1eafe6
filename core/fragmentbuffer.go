package rewriting

import "sync"

// TODO: Optimize memory at some point, it is not a great idea to just
// append to a slice when we already consumed a part of it. But it needs
// to be synced properly, probably a ring buffer makes sense.

// fragmentBuffer stages fragments between the transport goroutine and
// the rewriting loop so the transport never blocks on downstream
// callbacks.
type fragmentBuffer struct {
	mu                sync.Mutex
	fragments         []string
	fragmentsConsumed int
	complete          bool
	updateSignal      chan struct{}
	cleared           bool
}

func newFragmentBuffer() *fragmentBuffer {
	return &fragmentBuffer{
		updateSignal: make(chan struct{}, 1),
	}
}

func (b *fragmentBuffer) Add(fragment string) {
	b.mu.Lock()
	b.fragments = append(b.fragments, fragment)
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *fragmentBuffer) Complete() {
	b.mu.Lock()
	b.complete = true
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *fragmentBuffer) Fragments(yield func(string) bool) {
	for {
		b.mu.Lock()
		if b.cleared {
			b.mu.Unlock()
			return
		}

		if b.fragmentsConsumed < len(b.fragments) {
			fragment := b.fragments[b.fragmentsConsumed]
			b.fragmentsConsumed++
			b.mu.Unlock()
			if !yield(fragment) {
				return
			}
			continue
		}

		if b.complete {
			b.mu.Unlock()
			return
		}

		b.mu.Unlock()
		<-b.updateSignal
	}
}

func (b *fragmentBuffer) Clear() {
	b.mu.Lock()
	b.cleared = true
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *fragmentBuffer) signalUpdate() {
	select {
	case b.updateSignal <- struct{}{}:
	default:
	}
}
