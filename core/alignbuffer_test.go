package rewriting

import (
	"testing"

	"github.com/kresoja/citestream-core/core/markers"
)

func TestAlignmentBufferReportsLogicalCoordinates(t *testing.T) {
	pattern, err := markers.NewLiteralPattern(markers.Enclosed("⟦⟦", "1", "⟧⟧"))
	if err != nil {
		t.Fatalf("expected pattern to compile, got %v", err)
	}
	buffer := newAlignmentBuffer(pattern)

	segments := buffer.push("abc⟦⟦")
	if len(segments) != 1 || segments[0].Text != "abc" {
		t.Fatalf("expected a single %q text run, got %+v", "abc", segments)
	}

	segments = buffer.push("1⟧⟧def")
	if len(segments) != 2 {
		t.Fatalf("expected a match and a text run, got %+v", segments)
	}
	match := segments[0].Match
	if match == nil {
		t.Fatalf("expected the first segment to be a match, got %+v", segments[0])
	}
	if match.Start != 3 || match.End != 16 {
		t.Fatalf("expected the match at logical [3, 16), got [%d, %d)", match.Start, match.End)
	}
	if match.Text != "⟦⟦1⟧⟧" || match.Payload != "1" {
		t.Fatalf("expected marker text %q with payload %q, got %+v", "⟦⟦1⟧⟧", "1", match)
	}
	if segments[1].Text != "def" {
		t.Fatalf("expected trailing text %q, got %q", "def", segments[1].Text)
	}
}

func TestAlignmentBufferEmptyFragmentIsNoOp(t *testing.T) {
	pattern, err := markers.NewLiteralPattern(markers.Enclosed("⟦⟦", "1", "⟧⟧"))
	if err != nil {
		t.Fatalf("expected pattern to compile, got %v", err)
	}
	buffer := newAlignmentBuffer(pattern)

	buffer.push("x⟦⟦")
	if segments := buffer.push(""); segments != nil {
		t.Fatalf("expected no segments for an empty fragment, got %+v", segments)
	}
	if buffer.pending() != "⟦⟦" {
		t.Fatalf("expected the tail to be retained, got %q", buffer.pending())
	}
}

func TestAlignmentBufferFlushReleasesEverything(t *testing.T) {
	pattern, err := markers.NewLiteralPattern(markers.Enclosed("⟦⟦", "1", "⟧⟧"))
	if err != nil {
		t.Fatalf("expected pattern to compile, got %v", err)
	}
	buffer := newAlignmentBuffer(pattern)

	buffer.push("x⟦⟦")
	segments := buffer.flush()
	if len(segments) != 1 || segments[0].Text != "⟦⟦" {
		t.Fatalf("expected the partial marker verbatim, got %+v", segments)
	}
	if buffer.pending() != "" {
		t.Fatalf("expected an empty tail after flush, got %q", buffer.pending())
	}
}

func TestAlignmentBufferDiscardAdvancesCursor(t *testing.T) {
	pattern, err := markers.NewLiteralPattern(markers.Enclosed("⟦⟦", "1", "⟧⟧"))
	if err != nil {
		t.Fatalf("expected pattern to compile, got %v", err)
	}
	buffer := newAlignmentBuffer(pattern)

	buffer.push("abc⟦⟦")
	buffer.discard()
	if buffer.pending() != "" {
		t.Fatalf("expected an empty tail after discard, got %q", buffer.pending())
	}
	// "abc" plus the 6-byte partial marker.
	if buffer.cursor != 9 {
		t.Fatalf("expected the cursor at 9, got %d", buffer.cursor)
	}
}
