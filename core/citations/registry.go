package citations

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
)

var (
	ErrBadFormat = errors.New("substitution format must render distinct ordinals distinctly")
	ErrBadSeed   = errors.New("seed entries must carry contiguous ordinals starting at 1")
)

// Detail is an out-of-band citation detail record delivered by the
// transport, keyed by the producing tool call and the local citation
// index used in the marker text. It may arrive before, during or after
// the marker itself.
type Detail struct {
	ToolCallID  string
	LocalIndex  string
	EqualityKey string
	Title       string
	URL         string
}

// Entry is one resolved citation in final numbering order.
type Entry struct {
	Ordinal     int
	Scope       string
	Payload     string
	EqualityKey string
	Title       string
	URL         string
}

type registryKey struct {
	scope   string
	payload string
}

// Registry assigns globally-consistent citation ordinals. Ordinals are
// handed out in first-appearance order in the output stream and never
// change once assigned. The registry is owned by the conversation and
// may be shared by every stream in it; it serializes itself.
type Registry struct {
	mu sync.Mutex

	format     string
	entries    []Entry
	ordinals   map[registryKey]int
	byEquality map[string]int
	details    map[registryKey]Detail
}

// NewRegistry builds a registry, optionally seeded with the entries of
// a prior conversation so numbering continues across turns.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	options := RegistryOptions{Format: DefaultFormat}
	for _, opt := range opts {
		opt(&options)
	}

	if rendered := fmt.Sprintf(options.Format, 1); strings.Contains(rendered, "%!") || rendered == fmt.Sprintf(options.Format, 2) {
		return nil, fmt.Errorf("%w: %q", ErrBadFormat, options.Format)
	}

	registry := &Registry{
		format:     options.Format,
		ordinals:   map[registryKey]int{},
		byEquality: map[string]int{},
		details:    map[registryKey]Detail{},
	}

	if len(options.Seed) > 0 {
		if err := copier.Copy(&registry.entries, options.Seed); err != nil {
			return nil, fmt.Errorf("failed to copy seed entries: %w", err)
		}
		for i, entry := range registry.entries {
			if entry.Ordinal != i+1 {
				return nil, fmt.Errorf("%w: entry %d has ordinal %d", ErrBadSeed, i, entry.Ordinal)
			}
			registry.ordinals[registryKey{scope: entry.Scope, payload: entry.Payload}] = entry.Ordinal
			if entry.EqualityKey != "" {
				if _, taken := registry.byEquality[entry.EqualityKey]; !taken {
					registry.byEquality[entry.EqualityKey] = entry.Ordinal
				}
			}
		}
	}

	return registry, nil
}

// AddDetail records an out-of-band detail. It reports false when the
// record conflicts with an equality key already bound for the same
// scope and payload; the first-seen key wins and ordinals are never
// reassigned.
func (r *Registry) AddDetail(detail Detail) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{scope: detail.ToolCallID, payload: detail.LocalIndex}
	if existing, ok := r.details[key]; ok && existing.EqualityKey != detail.EqualityKey {
		logger.Warn("conflicting citation detail ignored",
			"scope", detail.ToolCallID,
			"payload", detail.LocalIndex,
			"existingKey", existing.EqualityKey,
			"rejectedKey", detail.EqualityKey,
		)
		return false
	}
	r.details[key] = detail

	if ordinal, resolved := r.ordinals[key]; resolved {
		// The marker arrived first; bind the late equality key now so
		// future resolutions in other scopes reuse this ordinal.
		entry := &r.entries[ordinal-1]
		if entry.EqualityKey == "" && detail.EqualityKey != "" {
			entry.EqualityKey = detail.EqualityKey
			if _, taken := r.byEquality[detail.EqualityKey]; !taken {
				r.byEquality[detail.EqualityKey] = ordinal
			}
		}
		if entry.Title == "" {
			entry.Title = detail.Title
		}
		if entry.URL == "" {
			entry.URL = detail.URL
		}
	}

	return true
}

// Resolve returns the ordinal for a marker payload seen under scope,
// assigning the next unused ordinal on first appearance. An empty
// equalityKey falls back to the key of a previously delivered detail
// record for the same scope and payload. Repeated resolution of the
// same scope and payload always returns the first assigned ordinal.
func (r *Registry) Resolve(scope, payload, equalityKey string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{scope: scope, payload: payload}
	if ordinal, ok := r.ordinals[key]; ok {
		if recorded := r.entries[ordinal-1].EqualityKey; equalityKey != "" && recorded != "" && recorded != equalityKey {
			logger.Warn("citation resolved with conflicting equality key",
				"scope", scope,
				"payload", payload,
				"existingKey", recorded,
				"rejectedKey", equalityKey,
			)
		}
		return ordinal
	}

	detail, hasDetail := r.details[key]
	if equalityKey == "" && hasDetail {
		equalityKey = detail.EqualityKey
	}

	if equalityKey != "" {
		if ordinal, ok := r.byEquality[equalityKey]; ok {
			r.ordinals[key] = ordinal
			return ordinal
		}
	}

	ordinal := r.nextOrdinalLocked()
	entry := Entry{Ordinal: ordinal, Scope: scope, Payload: payload, EqualityKey: equalityKey}
	if hasDetail {
		entry.Title = detail.Title
		entry.URL = detail.URL
	}
	r.entries = append(r.entries, entry)
	r.ordinals[key] = ordinal
	if equalityKey != "" {
		r.byEquality[equalityKey] = ordinal
	}
	return ordinal
}

// SubstitutionText renders the final visible marker for an ordinal.
func (r *Registry) SubstitutionText(ordinal int) string {
	return fmt.Sprintf(r.format, ordinal)
}

// Entries returns a snapshot of the resolved citations in ordinal
// order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

func (r *Registry) nextOrdinalLocked() int {
	return len(r.entries) + 1
}
