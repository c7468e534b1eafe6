package rewriting

import "github.com/kresoja/citestream-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func combineEmitters(emitters ...eventEmitter) eventEmitter {
	return func(event events.Event) {
		for _, emitter := range emitters {
			emitter(event)
		}
	}
}

func newCallbackEventEmitter(opts DrainOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.StreamOutputSegment:
			if opts.onOutput != nil {
				opts.onOutput(typedEvent.Segment)
			}
		case events.CitationResolved:
			if opts.onCitation != nil {
				opts.onCitation(typedEvent.Ordinal, typedEvent.Substitution)
			}
		case events.StreamFinished:
			if opts.onFinished != nil {
				opts.onFinished(typedEvent.Trailing)
			}
		case events.StreamCancelled:
			if opts.onCancellation != nil {
				opts.onCancellation()
			}
		}
	}
}
