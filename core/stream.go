package rewriting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kresoja/citestream-core/core/citations"
	"github.com/kresoja/citestream-core/core/events"
	"github.com/kresoja/citestream-core/core/markers"
)

var ErrStreamClosed = errors.New("stream is no longer accepting fragments")

type streamState int

const (
	stateStreaming streamState = iota
	stateFinished
	stateCancelled
)

func (s streamState) String() string {
	switch s {
	case stateStreaming:
		return "streaming"
	case stateFinished:
		return "finished"
	case stateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Stream rewrites one live response stream: fragments go in through
// Push in arrival order, fully-safe substituted output comes back out.
// Push calls for one stream must be sequential; independent streams
// share nothing but the conversation's citation registry.
type Stream struct {
	id       string
	scope    string
	buffer   alignmentBuffer
	registry *citations.Registry
	emit     eventEmitter
	state    streamState
}

func (s *Stream) ID() string {
	return s.id
}

// Scope returns the namespace used to resolve this stream's marker
// payloads.
func (s *Stream) Scope() string {
	return s.scope
}

// Push appends a fragment and returns the output that is now safe to
// show: already-substituted text that can no longer be part of a
// marker. The unresolved tail is retained for the next call.
func (s *Stream) Push(fragment string) (string, error) {
	if s.state != stateStreaming {
		return "", fmt.Errorf("push in %s state: %w", s.state, ErrStreamClosed)
	}

	output := s.render(s.buffer.push(fragment))
	if output != "" {
		s.emit(events.NewStreamOutputSegment(s.id, output))
	}
	return output, nil
}

// Finish flushes the stream and returns the trailing output. A marker
// that completed right at the end of input is still substituted; a
// marker left incomplete is never a valid citation and is released
// verbatim instead of being dropped.
func (s *Stream) Finish() (string, error) {
	if s.state != stateStreaming {
		return "", fmt.Errorf("finish in %s state: %w", s.state, ErrStreamClosed)
	}

	segments := s.buffer.flush()
	output := s.render(segments)
	s.state = stateFinished

	if trailing := trailingText(segments); trailing != "" && s.buffer.pattern.Kind() == markers.KindLiteral {
		logger.Warn("marker incomplete at end of stream, emitting verbatim",
			"streamID", s.id,
			"text", trailing,
		)
		s.emit(events.NewStreamUnresolvedTail(s.id, trailing))
	}
	s.emit(events.NewStreamFinished(s.id, output))
	return output, nil
}

// Cancel discards the pending tail and rejects further pushes. It is a
// no-op once the stream reached a terminal state.
func (s *Stream) Cancel() {
	if s.state != stateStreaming {
		return
	}

	s.buffer.discard()
	s.state = stateCancelled
	s.emit(events.NewStreamCancelled(s.id))
}

func (s *Stream) render(segments []markers.Segment) string {
	var builder strings.Builder
	for _, segment := range segments {
		if !segment.IsMatch() {
			builder.WriteString(segment.Text)
			continue
		}

		ordinal := s.registry.Resolve(s.scope, segment.Match.Payload, "")
		substitution := s.registry.SubstitutionText(ordinal)
		builder.WriteString(substitution)
		s.emit(events.NewCitationResolved(s.id, s.scope, segment.Match.Payload, ordinal, substitution))
	}
	return builder.String()
}

// trailingText returns the plain text released after the last match of
// a final flush. For the literal variant that text is by construction a
// marker prefix that never completed.
func trailingText(segments []markers.Segment) string {
	if len(segments) == 0 {
		return ""
	}
	last := segments[len(segments)-1]
	if last.IsMatch() {
		return ""
	}
	return last.Text
}
