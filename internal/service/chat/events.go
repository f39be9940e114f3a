package chat

import "github.com/ShawnKBeck/GraceAI-Frontend/internal/model/chat"

// EventKind distinguishes Controller notifications.
type EventKind int

const (
	// EventAppended reports a new transcript entry.
	EventAppended EventKind = iota + 1
	// EventPending reports a change of the pending flag.
	EventPending
)

func (k EventKind) String() string {
	switch k {
	case EventAppended:
		return "appended"
	case EventPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners whenever observable state changes.
// Index is the transcript position for appends and -1 otherwise.
type Event struct {
	Kind    EventKind
	Message chat.Message
	Index   int
	Pending bool
}

// Listener observes a Controller.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f.
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Subscribe registers l for future events and returns a function that removes it.
// Listeners run on the goroutine that changed the state and must not call Submit.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// flush delivers queued events in order. Listeners are called without c.mu held.
func (c *Controller) flush() {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return
		}
		event := c.queue[0]
		c.queue = c.queue[1:]
		listeners := make([]Listener, 0, len(c.listeners))
		for id := 0; id < c.nextID; id++ {
			if l, ok := c.listeners[id]; ok {
				listeners = append(listeners, l)
			}
		}
		c.mu.Unlock()

		for _, l := range listeners {
			l.OnEvent(event)
		}
		if event.Kind == EventAppended && c.appendHook != nil {
			c.appendHook(event.Message)
		}
	}
}
