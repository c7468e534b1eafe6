// Package events defines the typed rewriting event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - stream.*
//   - citation.*
//
// Semantics used across the package:
//
//   - Segment: fully-safe, already-substituted text piece emitted in
//     stream order.
//   - Trailing: text released by the final flush at end of stream.
//   - Finished/Cancelled: lifecycle boundaries; no further segments
//     follow either.
//
// stream events
//
//   - StreamOutputSegment (stream.output_segment): safe output text
//     released by a push.
//   - StreamFinished (stream.finished): stream completed; carries the
//     trailing output released by the final flush.
//   - StreamCancelled (stream.cancelled): stream cancelled; pending
//     text was discarded.
//   - StreamUnresolvedTail (stream.unresolved_tail): a marker was still
//     incomplete at end of stream and its text was emitted verbatim.
//
// citation events
//
//   - CitationResolved (citation.resolved): a marker occurrence was
//     mapped to its final ordinal.
//   - CitationDetailConflict (citation.detail_conflict): an out-of-band
//     detail record carried an equality key conflicting with the one
//     already bound; the first-seen key won.
package events
