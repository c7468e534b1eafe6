package rewriting

import (
	"errors"

	"github.com/google/uuid"
	"github.com/kresoja/citestream-core/core/citations"
	"github.com/kresoja/citestream-core/core/events"
)

var ErrNoPattern = errors.New("a marker pattern is required to open a stream")

// Conversation owns the citation registry shared by every stream of a
// multi-turn exchange, so numbering stays globally consistent across
// responses and tool calls. Streams themselves are single-owner; only
// the registry is shared and it serializes itself.
type Conversation struct {
	registry *citations.Registry
	listener eventEmitter
}

func NewConversation(opts ...ConversationOption) (*Conversation, error) {
	options := ConversationOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	registry := options.registry
	if registry == nil {
		var err error
		registry, err = citations.NewRegistry(options.registryOptions...)
		if err != nil {
			return nil, err
		}
	}

	listener := eventEmitter(noopEventEmitter)
	if options.listener != nil {
		listener = options.listener
	}

	return &Conversation{registry: registry, listener: listener}, nil
}

// NewStream opens a rewriting stream for one live response. The stream
// starts out accepting fragments immediately.
func (c *Conversation) NewStream(opts ...StreamOption) (*Stream, error) {
	options := StreamOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.pattern == nil {
		return nil, ErrNoPattern
	}

	id := uuid.NewString()
	scope := options.scope
	if scope == "" {
		scope = id
	}

	emit := c.listener
	if options.listener != nil {
		emit = combineEmitters(emit, options.listener)
	}

	return &Stream{
		id:       id,
		scope:    scope,
		buffer:   newAlignmentBuffer(options.pattern),
		registry: c.registry,
		emit:     emit,
		state:    stateStreaming,
	}, nil
}

// AddCitationDetail ingests an out-of-band citation detail record. It
// may be called before, during or after the corresponding marker text
// arrives; a record with a conflicting equality key is dropped in
// favor of the first-seen one.
func (c *Conversation) AddCitationDetail(detail citations.Detail) {
	if accepted := c.registry.AddDetail(detail); !accepted {
		c.listener(events.NewCitationDetailConflict(detail.ToolCallID, detail.LocalIndex, detail.EqualityKey))
	}
}

// Citations returns the resolved citations in final numbering order.
func (c *Conversation) Citations() []citations.Entry {
	return c.registry.Entries()
}

// Registry exposes the conversation's registry, primarily for seeding a
// follow-up conversation.
func (c *Conversation) Registry() *citations.Registry {
	return c.registry
}
