package rewriting

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FragmentSource is the upstream transport contract: an ordered
// fragment stream with end-of-stream signalled by iterator exhaustion
// and transport failure surfaced through the error value.
type FragmentSource interface {
	Fragments(ctx context.Context) func(func(string, error) bool)
}

// Drain consumes a fragment source to completion, pushing every
// fragment through the stream and finishing it at end of input. It
// returns the concatenated output. Context cancellation and transport
// errors cancel the stream; the output collected so far is still
// returned.
func (s *Stream) Drain(ctx context.Context, source FragmentSource, opts ...DrainOption) (string, error) {
	options := DrainOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := tracer.Start(ctx, "draining fragment source")
	defer span.End()
	span.SetAttributes(attribute.String("stream.id", s.id))

	base := s.emit
	s.emit = combineEmitters(base, newCallbackEventEmitter(options))
	defer func() { s.emit = base }()

	buffer := newFragmentBuffer()
	done := withContextCancelHook(ctx, buffer.Clear)
	defer close(done)

	var intakeErr error
	intakeDone := make(chan struct{})
	go func() {
		defer close(intakeDone)
		defer buffer.Complete()
		intake := panicSafeNamedWorker("fragment intake", func(ctx context.Context) error {
			for fragment, err := range source.Fragments(ctx) {
				if err != nil {
					return err
				}
				buffer.Add(fragment)
			}
			return nil
		})
		intakeErr = intake(ctx)
	}()

	var collected strings.Builder
	for fragment := range buffer.Fragments {
		output, err := s.Push(fragment)
		if err != nil {
			break
		}
		collected.WriteString(output)
	}
	<-intakeDone

	if err := errors.Join(ctx.Err(), intakeErr); err != nil {
		s.Cancel()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return collected.String(), err
	}

	trailing, err := s.Finish()
	collected.WriteString(trailing)
	return collected.String(), err
}
