package rewriting

import "github.com/kresoja/citestream-core/core/markers"

// alignmentBuffer owns the shared buffering discipline for one stream:
// it retains the shortest suffix of everything seen so far that could
// still belong to an in-progress marker and releases the rest. The
// retained suffix is bounded by the pattern's TailBound.
type alignmentBuffer struct {
	pattern *markers.Pattern
	tail    string
	cursor  int64 // logical offset of the first retained byte
}

func newAlignmentBuffer(pattern *markers.Pattern) alignmentBuffer {
	return alignmentBuffer{pattern: pattern}
}

// push appends a fragment and returns the ordered segments that are now
// safe to emit. Empty fragments are no-ops.
func (b *alignmentBuffer) push(fragment string) []markers.Segment {
	if fragment == "" {
		return nil
	}

	window := b.tail + fragment
	occurrences, hold := b.pattern.Scan(window, false)
	return b.consume(window, occurrences, hold)
}

// flush treats the retained tail as end of input: a match completed
// right at the end is still reported, whatever remains is released as
// plain text.
func (b *alignmentBuffer) flush() []markers.Segment {
	window := b.tail
	occurrences, _ := b.pattern.Scan(window, true)
	return b.consume(window, occurrences, 0)
}

func (b *alignmentBuffer) discard() {
	b.cursor += int64(len(b.tail))
	b.tail = ""
}

func (b *alignmentBuffer) pending() string {
	return b.tail
}

func (b *alignmentBuffer) consume(window string, occurrences []markers.Occurrence, hold int) []markers.Segment {
	limit := len(window) - hold

	var segments []markers.Segment
	pos := 0
	for _, occurrence := range occurrences {
		if occurrence.Start > pos {
			segments = append(segments, markers.Segment{Text: window[pos:occurrence.Start]})
		}
		segments = append(segments, markers.Segment{Match: &markers.Match{
			Start:   b.cursor + int64(occurrence.Start),
			End:     b.cursor + int64(occurrence.End),
			Text:    window[occurrence.Start:occurrence.End],
			Payload: occurrence.Payload,
		}})
		pos = occurrence.End
	}
	if pos < limit {
		segments = append(segments, markers.Segment{Text: window[pos:limit]})
	}

	b.tail = window[limit:]
	b.cursor += int64(limit)
	return segments
}
