package events

const (
	// KindCitationResolved identifies a marker mapped to its ordinal.
	KindCitationResolved Kind = "citation.resolved"
	// KindCitationDetailConflict identifies a rejected out-of-band
	// detail record.
	KindCitationDetailConflict Kind = "citation.detail_conflict"
)

// CitationResolved marks a marker occurrence mapped to its final
// ordinal.
type CitationResolved struct {
	Base
	StreamID     string
	Scope        string
	Payload      string
	Ordinal      int
	Substitution string
}

// NewCitationResolved creates a citation resolved event.
func NewCitationResolved(streamID, scope, payload string, ordinal int, substitution string) CitationResolved {
	return CitationResolved{
		Base:         NewBase(KindCitationResolved),
		StreamID:     streamID,
		Scope:        scope,
		Payload:      payload,
		Ordinal:      ordinal,
		Substitution: substitution,
	}
}

// CitationDetailConflict marks an out-of-band detail record rejected
// because its equality key conflicted with the first-seen one.
type CitationDetailConflict struct {
	Base
	Scope       string
	Payload     string
	RejectedKey string
}

// NewCitationDetailConflict creates a citation detail conflict event.
func NewCitationDetailConflict(scope, payload, rejectedKey string) CitationDetailConflict {
	return CitationDetailConflict{Base: NewBase(KindCitationDetailConflict), Scope: scope, Payload: payload, RejectedKey: rejectedKey}
}
