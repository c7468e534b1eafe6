package rewriting

import (
	"github.com/kresoja/citestream-core/core/citations"
	"github.com/kresoja/citestream-core/core/events"
	"github.com/kresoja/citestream-core/core/markers"
)

type ConversationOptions struct {
	registry        *citations.Registry
	registryOptions []citations.RegistryOption
	listener        func(events.Event)
}

type ConversationOption func(*ConversationOptions)

// WithRegistry attaches an externally owned citation registry, for
// callers that manage registry lifetime themselves.
func WithRegistry(registry *citations.Registry) ConversationOption {
	return func(o *ConversationOptions) {
		o.registry = registry
	}
}

// WithRegistryOptions forwards options to the registry the conversation
// builds for itself. Ignored when WithRegistry is used.
func WithRegistryOptions(opts ...citations.RegistryOption) ConversationOption {
	return func(o *ConversationOptions) {
		o.registryOptions = append(o.registryOptions, opts...)
	}
}

// WithEventListener receives every event emitted by the conversation
// and its streams.
func WithEventListener(listener func(events.Event)) ConversationOption {
	return func(o *ConversationOptions) {
		o.listener = listener
	}
}

type StreamOptions struct {
	pattern  *markers.Pattern
	scope    string
	listener func(events.Event)
}

type StreamOption func(*StreamOptions)

// WithPattern sets the marker pattern the stream scans for. Required.
func WithPattern(pattern *markers.Pattern) StreamOption {
	return func(o *StreamOptions) {
		o.pattern = pattern
	}
}

// WithScope sets the namespace under which the stream's marker payloads
// are resolved, usually the id of the tool call that produced them.
// Defaults to the stream id.
func WithScope(scope string) StreamOption {
	return func(o *StreamOptions) {
		o.scope = scope
	}
}

// WithStreamEventListener receives the events of this stream only, in
// addition to any conversation-level listener.
func WithStreamEventListener(listener func(events.Event)) StreamOption {
	return func(o *StreamOptions) {
		o.listener = listener
	}
}

type DrainOptions struct {
	onOutput       func(segment string)
	onCitation     func(ordinal int, substitution string)
	onFinished     func(trailing string)
	onCancellation func()
}

type DrainOption func(*DrainOptions)

// WithOutputCallback receives each safe output segment as it is
// released.
func WithOutputCallback(callback func(segment string)) DrainOption {
	return func(o *DrainOptions) {
		o.onOutput = callback
	}
}

// WithCitationCallback receives each marker resolution.
func WithCitationCallback(callback func(ordinal int, substitution string)) DrainOption {
	return func(o *DrainOptions) {
		o.onCitation = callback
	}
}

// WithFinishedCallback receives the trailing output of the final flush.
func WithFinishedCallback(callback func(trailing string)) DrainOption {
	return func(o *DrainOptions) {
		o.onFinished = callback
	}
}

// WithCancellationCallback is invoked when the drain is cancelled.
func WithCancellationCallback(callback func()) DrainOption {
	return func(o *DrainOptions) {
		o.onCancellation = callback
	}
}
