package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
)

// State is the Controller's position in its two-state lifecycle.
type State int

const (
	// StateIdle accepts submissions.
	StateIdle State = iota
	// StateAwaitingReply rejects submissions until the outstanding call settles.
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Controller owns one session's transcript and mediates between user input
// and the Reply Service. At most one reply call is outstanding at a time.
type Controller struct {
	replier    reply.Replier
	logger     zerolog.Logger
	appendHook func(chat.Message)

	mu         sync.Mutex
	transcript []chat.Message
	pending    bool
	input      string
	listeners  map[int]Listener
	nextID     int
	queue      []Event

	// deliverMu keeps event delivery in the order events were queued.
	deliverMu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithAppendHook registers a callback fired after every transcript append.
func WithAppendHook(hook func(chat.Message)) Option {
	return func(c *Controller) {
		c.appendHook = hook
	}
}

// WithLogger sets the logger used for reply failures and rejected submissions.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController starts a session. The transcript is seeded with the greeting
// and Grace's introduction before any option-provided hook observes it.
func NewController(replier reply.Replier, opts ...Option) *Controller {
	return NewControllerWithSeed(replier, chat.SeedTranscript(persona.Default().OpeningLine), opts...)
}

// NewControllerWithSeed starts a session with a custom seed pair.
func NewControllerWithSeed(replier reply.Replier, seed []chat.Message, opts ...Option) *Controller {
	c := &Controller{
		replier:    replier,
		logger:     zerolog.Nop(),
		transcript: make([]chat.Message, 0, 16),
		listeners:  make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	for _, msg := range seed {
		c.appendLocked(msg)
	}
	c.mu.Unlock()
	c.flush()

	return c
}

// Submit sends text to the Reply Service. It returns false without touching
// the transcript when text is blank or a reply is already pending. Otherwise
// it appends the user message immediately, blocks until the call settles and
// appends exactly one reply or fallback message before returning true.
// Reply failures never surface to the caller.
func (c *Controller) Submit(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		c.logger.Debug().Msg("submit rejected: reply pending")
		return false
	}
	history := chat.EncodeHistory(c.transcript)
	c.appendLocked(chat.UserMessage(text))
	c.input = ""
	c.setPendingLocked(true)
	c.mu.Unlock()
	c.flush()

	defer func() {
		c.mu.Lock()
		c.setPendingLocked(false)
		c.mu.Unlock()
		c.flush()
	}()

	msg := c.requestReply(ctx, text, history)

	c.mu.Lock()
	c.appendLocked(msg)
	c.mu.Unlock()
	c.flush()

	return true
}

// SubmitInput submits the current input buffer.
func (c *Controller) SubmitInput(ctx context.Context) bool {
	return c.Submit(ctx, c.Input())
}

// SetInput replaces the input buffer.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Input returns the input buffer.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Transcript returns a copy of every message, seed pair included.
func (c *Controller) Transcript() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chat.Message(nil), c.transcript...)
}

// Visible returns the messages a presentation surface renders: everything
// after the seeded greeting.
func (c *Controller) Visible() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.transcript) <= 1 {
		return nil
	}
	return append([]chat.Message(nil), c.transcript[1:]...)
}

// Pending reports whether a reply call is outstanding.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// State reports the lifecycle state.
func (c *Controller) State() State {
	if c.Pending() {
		return StateAwaitingReply
	}
	return StateIdle
}

func (c *Controller) requestReply(ctx context.Context, text string, history []chat.HistoryPair) (msg chat.Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("reply service panicked")
			msg = chat.Fallback()
		}
	}()

	if c.replier == nil {
		c.logger.Warn().Msg("no reply service configured")
		return chat.Fallback()
	}

	raw, err := c.replier.Reply(ctx, reply.Request{Message: text, History: history})
	if err != nil {
		c.logger.Warn().Err(err).Int("history", len(history)).Msg("error sending message")
		return chat.Fallback()
	}
	return chat.ReplyMessage(chat.Normalize(raw))
}

func (c *Controller) appendLocked(msg chat.Message) {
	c.transcript = append(c.transcript, msg)
	c.queue = append(c.queue, Event{
		Kind:    EventAppended,
		Message: msg,
		Index:   len(c.transcript) - 1,
		Pending: c.pending,
	})
}

func (c *Controller) setPendingLocked(pending bool) {
	if c.pending == pending {
		return
	}
	c.pending = pending
	c.queue = append(c.queue, Event{Kind: EventPending, Pending: pending, Index: -1})
}
