package preview

import "sync"

// Reload is sent to subscribers after the sprite is regenerated.
type Reload struct {
	Icons int `json:"icons"`
}

// Notifier broadcasts reloads to connected browsers.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Reload]struct{}
}

// NewNotifier creates a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[chan Reload]struct{})}
}

// Subscribe returns a channel that receives reloads. The caller must call
// Unsubscribe when done.
func (n *Notifier) Subscribe() chan Reload {
	ch := make(chan Reload, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Reload) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Subscribers returns the number of connected listeners.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends r to all listeners. A listener that has not consumed
// the previous reload keeps that one; reloads carry no history.
func (n *Notifier) Broadcast(r Reload) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- r:
		default:
		}
	}
}
