package markers

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
)

// DefaultLookahead bounds how many trailing bytes the regex variant may
// retain while waiting for a marker to complete.
const DefaultLookahead = 256

var (
	ErrNoLiterals      = errors.New("at least one literal marker is required")
	ErrEmptyLiteral    = errors.New("literal marker text must not be empty")
	ErrPayloadBounds   = errors.New("literal payload offsets out of range")
	ErrEmptyExpression = errors.New("marker expression must not match the empty string")
	ErrLookaheadCap    = errors.New("lookahead cap must be positive")
)

type Kind int

const (
	KindLiteral Kind = iota
	KindRegex
)

// Literal is one fixed marker text. PayloadStart and PayloadEnd are byte
// offsets into Text delimiting the citation payload.
type Literal struct {
	Text         string
	PayloadStart int
	PayloadEnd   int
}

// Enclosed builds a Literal whose payload sits between an opening and a
// closing delimiter.
func Enclosed(open, payload, close string) Literal {
	return Literal{
		Text:         open + payload + close,
		PayloadStart: len(open),
		PayloadEnd:   len(open) + len(payload),
	}
}

type compiledLiteral struct {
	Literal
	failure []int
}

// Pattern describes the marker syntax for one stream. It is a tagged
// variant resolved once at construction: either a set of fixed literal
// markers matched with a prefix-function automaton, or a compiled
// regular expression matched under a bounded lookahead cap. A Pattern is
// immutable and safe for concurrent read-only sharing.
type Pattern struct {
	kind      Kind
	literals  []compiledLiteral
	maxLen    int
	expr      *regexp.Regexp
	lookahead int
}

// NewLiteralPattern builds the fixed-marker variant from one or more
// literal markers.
func NewLiteralPattern(literals ...Literal) (*Pattern, error) {
	if len(literals) == 0 {
		return nil, ErrNoLiterals
	}

	pattern := &Pattern{kind: KindLiteral}
	for _, literal := range literals {
		if literal.Text == "" {
			return nil, ErrEmptyLiteral
		}
		if literal.PayloadStart < 0 || literal.PayloadEnd < literal.PayloadStart || literal.PayloadEnd > len(literal.Text) {
			return nil, fmt.Errorf("%w: [%d, %d) in %q", ErrPayloadBounds, literal.PayloadStart, literal.PayloadEnd, literal.Text)
		}

		pattern.literals = append(pattern.literals, compiledLiteral{
			Literal: literal,
			failure: failureFunction(literal.Text),
		})
		pattern.maxLen = max(pattern.maxLen, len(literal.Text))
	}

	return pattern, nil
}

type RegexOption func(*Pattern)

// WithLookahead overrides the lookahead cap for the regex variant.
func WithLookahead(cap int) RegexOption {
	return func(p *Pattern) { p.lookahead = cap }
}

// NewRegexPattern builds the regex variant. The payload of a match is
// the first capture group, or the whole match when the expression has
// no groups. Matching uses POSIX leftmost-longest semantics.
func NewRegexPattern(expression string, opts ...RegexOption) (*Pattern, error) {
	expr, err := regexp.CompilePOSIX(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to compile marker expression: %w", err)
	}
	if expr.MatchString("") {
		return nil, fmt.Errorf("%w: %q", ErrEmptyExpression, expression)
	}

	pattern := &Pattern{kind: KindRegex, expr: expr, lookahead: DefaultLookahead}
	for _, opt := range opts {
		opt(pattern)
	}
	if pattern.lookahead <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrLookaheadCap, pattern.lookahead)
	}

	return pattern, nil
}

func (p *Pattern) Kind() Kind {
	return p.kind
}

// TailBound is the maximum number of trailing bytes Scan may ask the
// caller to retain: max literal length - 1 for the literal variant, the
// lookahead cap for the regex variant.
func (p *Pattern) TailBound() int {
	if p.kind == KindLiteral {
		return p.maxLen - 1
	}
	return p.lookahead
}

// Occurrence is one completed marker match, in window-relative byte
// offsets.
type Occurrence struct {
	Start   int
	End     int
	Payload string
}

// Scan reports the completed, non-overlapping marker occurrences in
// window and the number of trailing bytes that must be retained because
// they may still belong to an in-progress match. Occurrences are
// ordered and resolved leftmost-start, then-longest. With final set the
// window is treated as the end of input: every completed occurrence is
// reported and nothing is retained.
func (p *Pattern) Scan(window string, final bool) ([]Occurrence, int) {
	if p.kind == KindLiteral {
		return p.scanLiterals(window, final)
	}
	return p.scanRegex(window, final)
}

func (p *Pattern) scanLiterals(window string, final bool) ([]Occurrence, int) {
	candidates := p.literalCandidates(window)

	var occurrences []Occurrence
	pos := 0
	for _, candidate := range candidates {
		if candidate.Start < pos {
			continue
		}
		if !final && candidate.Start >= p.holdStart(window, pos) {
			// A longer marker sharing this suffix may still be forming.
			break
		}
		occurrences = append(occurrences, candidate)
		pos = candidate.End
	}

	if final {
		return occurrences, 0
	}
	return occurrences, len(window) - p.holdStart(window, pos)
}

// literalCandidates collects every literal occurrence in window, sorted
// by start, then by descending length.
func (p *Pattern) literalCandidates(window string) []Occurrence {
	var candidates []Occurrence
	for _, literal := range p.literals {
		state := 0
		for i := 0; i < len(window); i++ {
			for state > 0 && window[i] != literal.Text[state] {
				state = literal.failure[state-1]
			}
			if window[i] == literal.Text[state] {
				state++
			}
			if state == len(literal.Text) {
				start := i - len(literal.Text) + 1
				candidates = append(candidates, Occurrence{
					Start:   start,
					End:     i + 1,
					Payload: window[start+literal.PayloadStart : start+literal.PayloadEnd],
				})
				state = literal.failure[state-1]
			}
		}
	}

	slices.SortStableFunc(candidates, func(a, b Occurrence) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return b.End - a.End
	})
	return candidates
}

// holdStart returns the index where the retained suffix begins: the
// start of the longest suffix of window[pos:] that is a proper prefix
// of any literal marker.
func (p *Pattern) holdStart(window string, pos int) int {
	from := max(pos, len(window)-(p.maxLen-1))
	if from >= len(window) {
		return len(window)
	}

	longest := 0
	for _, literal := range p.literals {
		state := 0
		for i := from; i < len(window); i++ {
			for state > 0 && window[i] != literal.Text[state] {
				state = literal.failure[state-1]
			}
			if window[i] == literal.Text[state] {
				state++
			}
			if state == len(literal.Text) {
				state = literal.failure[state-1]
			}
		}
		longest = max(longest, state)
	}
	return len(window) - longest
}

func (p *Pattern) scanRegex(window string, final bool) ([]Occurrence, int) {
	var occurrences []Occurrence
	pos := 0
	for pos < len(window) {
		loc := p.expr.FindStringSubmatchIndex(window[pos:])
		if loc == nil {
			break
		}

		start, end := pos+loc[0], pos+loc[1]
		if !final && end == len(window) && len(window)-start <= p.lookahead {
			// The match may still grow; retain it whole.
			return occurrences, len(window) - start
		}

		payload := window[start:end]
		if len(loc) >= 4 && loc[2] >= 0 {
			payload = window[pos+loc[2] : pos+loc[3]]
		}
		occurrences = append(occurrences, Occurrence{Start: start, End: end, Payload: payload})
		pos = end
	}

	if final {
		return occurrences, 0
	}
	return occurrences, min(len(window)-pos, p.lookahead)
}

// failureFunction computes the classic KMP prefix function for text.
func failureFunction(text string) []int {
	failure := make([]int, len(text))
	length := 0
	for i := 1; i < len(text); i++ {
		for length > 0 && text[i] != text[length] {
			length = failure[length-1]
		}
		if text[i] == text[length] {
			length++
		}
		failure[i] = length
	}
	return failure
}
