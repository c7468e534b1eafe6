package rewriting

import (
	"errors"
	"testing"

	"github.com/kresoja/citestream-core/core/citations"
	"github.com/kresoja/citestream-core/core/events"
	"github.com/kresoja/citestream-core/core/markers"
)

func TestNewStreamRequiresPattern(t *testing.T) {
	conversation, err := NewConversation()
	if err != nil {
		t.Fatalf("expected conversation to build, got %v", err)
	}

	if _, err := conversation.NewStream(); !errors.Is(err, ErrNoPattern) {
		t.Fatalf("expected ErrNoPattern, got %v", err)
	}
}

func TestStreamsShareConversationNumbering(t *testing.T) {
	conversation, err := NewConversation()
	if err != nil {
		t.Fatalf("expected conversation to build, got %v", err)
	}

	first, err := conversation.NewStream(WithPattern(literalMarkerPattern(t)), WithScope("toolA"))
	if err != nil {
		t.Fatalf("expected stream to open, got %v", err)
	}
	second, err := conversation.NewStream(WithPattern(literalMarkerPattern(t)), WithScope("toolB"))
	if err != nil {
		t.Fatalf("expected stream to open, got %v", err)
	}

	if got := mustPush(t, first, "⟦⟦1⟧⟧"); got != "[1]" {
		t.Fatalf("expected the first citation to get ordinal 1, got %q", got)
	}
	// Same payload, different scope, no equality key: a new citation.
	if got := mustPush(t, second, "⟦⟦1⟧⟧"); got != "[2]" {
		t.Fatalf("expected a distinct ordinal for a distinct scope, got %q", got)
	}

	entries := conversation.Citations()
	if len(entries) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(entries))
	}
}

func TestDetailRecordsMergeCitationsAcrossStreams(t *testing.T) {
	conversation, err := NewConversation()
	if err != nil {
		t.Fatalf("expected conversation to build, got %v", err)
	}

	// Details arrive before any marker text.
	conversation.AddCitationDetail(citations.Detail{ToolCallID: "toolA", LocalIndex: "1", EqualityKey: "doc-1"})
	conversation.AddCitationDetail(citations.Detail{ToolCallID: "toolB", LocalIndex: "3", EqualityKey: "doc-1"})

	first, err := conversation.NewStream(WithPattern(literalMarkerPattern(t)), WithScope("toolA"))
	if err != nil {
		t.Fatalf("expected stream to open, got %v", err)
	}
	pattern, err := markers.NewLiteralPattern(markers.Enclosed("⟦⟦", "3", "⟧⟧"))
	if err != nil {
		t.Fatalf("expected pattern to compile, got %v", err)
	}
	second, err := conversation.NewStream(WithPattern(pattern), WithScope("toolB"))
	if err != nil {
		t.Fatalf("expected stream to open, got %v", err)
	}

	if got := mustPush(t, first, "⟦⟦1⟧⟧"); got != "[1]" {
		t.Fatalf("expected ordinal 1, got %q", got)
	}
	if got := mustPush(t, second, "⟦⟦3⟧⟧"); got != "[1]" {
		t.Fatalf("expected the equality key to reuse ordinal 1, got %q", got)
	}
}

func TestConflictingDetailEmitsEvent(t *testing.T) {
	var conflicts []events.CitationDetailConflict
	conversation, err := NewConversation(WithEventListener(func(event events.Event) {
		if typedEvent, ok := event.(events.CitationDetailConflict); ok {
			conflicts = append(conflicts, typedEvent)
		}
	}))
	if err != nil {
		t.Fatalf("expected conversation to build, got %v", err)
	}

	conversation.AddCitationDetail(citations.Detail{ToolCallID: "toolA", LocalIndex: "1", EqualityKey: "doc-1"})
	conversation.AddCitationDetail(citations.Detail{ToolCallID: "toolA", LocalIndex: "1", EqualityKey: "doc-2"})

	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict event, got %d", len(conflicts))
	}
	if conflicts[0].RejectedKey != "doc-2" {
		t.Fatalf("expected the later key to be rejected, got %+v", conflicts[0])
	}
}

func TestRegistrySeedingContinuesNumberingAcrossConversations(t *testing.T) {
	previous, err := NewConversation()
	if err != nil {
		t.Fatalf("expected conversation to build, got %v", err)
	}
	stream, err := previous.NewStream(WithPattern(literalMarkerPattern(t)), WithScope("toolA"))
	if err != nil {
		t.Fatalf("expected stream to open, got %v", err)
	}
	mustPush(t, stream, "⟦⟦1⟧⟧⟦⟦2⟧⟧")

	next, err := NewConversation(WithRegistryOptions(citations.WithSeed(previous.Citations())))
	if err != nil {
		t.Fatalf("expected seeded conversation to build, got %v", err)
	}
	followUp, err := next.NewStream(WithPattern(literalMarkerPattern(t)), WithScope("toolB"))
	if err != nil {
		t.Fatalf("expected stream to open, got %v", err)
	}

	if got := mustPush(t, followUp, "⟦⟦1⟧⟧"); got != "[3]" {
		t.Fatalf("expected numbering to continue at 3, got %q", got)
	}
}

func TestScopeDefaultsToStreamID(t *testing.T) {
	conversation, err := NewConversation()
	if err != nil {
		t.Fatalf("expected conversation to build, got %v", err)
	}

	stream, err := conversation.NewStream(WithPattern(literalMarkerPattern(t)))
	if err != nil {
		t.Fatalf("expected stream to open, got %v", err)
	}
	if stream.Scope() != stream.ID() {
		t.Fatalf("expected the scope to default to the stream id %q, got %q", stream.ID(), stream.Scope())
	}
}
