package events

const (
	// KindStreamOutputSegment identifies safe rewritten output text.
	KindStreamOutputSegment Kind = "stream.output_segment"
	// KindStreamFinished identifies stream completion.
	KindStreamFinished Kind = "stream.finished"
	// KindStreamCancelled identifies stream cancellation.
	KindStreamCancelled Kind = "stream.cancelled"
	// KindStreamUnresolvedTail identifies a marker left incomplete at
	// end of stream.
	KindStreamUnresolvedTail Kind = "stream.unresolved_tail"
)

// StreamOutputSegment carries a fully-safe, already-substituted output
// text segment.
type StreamOutputSegment struct {
	Base
	StreamID string
	Segment  string
}

// NewStreamOutputSegment creates a stream output segment event.
func NewStreamOutputSegment(streamID, segment string) StreamOutputSegment {
	return StreamOutputSegment{Base: NewBase(KindStreamOutputSegment), StreamID: streamID, Segment: segment}
}

// StreamFinished marks stream completion and carries the trailing
// output released by the final flush.
type StreamFinished struct {
	Base
	StreamID string
	Trailing string
}

// NewStreamFinished creates a stream finished event.
func NewStreamFinished(streamID, trailing string) StreamFinished {
	return StreamFinished{Base: NewBase(KindStreamFinished), StreamID: streamID, Trailing: trailing}
}

// StreamCancelled marks stream cancellation; pending text was
// discarded.
type StreamCancelled struct {
	Base
	StreamID string
}

// NewStreamCancelled creates a stream cancelled event.
func NewStreamCancelled(streamID string) StreamCancelled {
	return StreamCancelled{Base: NewBase(KindStreamCancelled), StreamID: streamID}
}

// StreamUnresolvedTail marks a marker left incomplete at end of stream;
// its text was emitted verbatim.
type StreamUnresolvedTail struct {
	Base
	StreamID string
	Text     string
}

// NewStreamUnresolvedTail creates a stream unresolved tail event.
func NewStreamUnresolvedTail(streamID, text string) StreamUnresolvedTail {
	return StreamUnresolvedTail{Base: NewBase(KindStreamUnresolvedTail), StreamID: streamID, Text: text}
}
