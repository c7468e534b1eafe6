package citations

// DefaultFormat renders ordinals in bracketed reference style.
const DefaultFormat = "[%d]"

type RegistryOptions struct {
	Format string
	Seed   []Entry
}

type RegistryOption func(*RegistryOptions)

// WithFormat overrides the substitution format. The format must contain
// exactly one integer verb for the ordinal.
func WithFormat(format string) RegistryOption {
	return func(o *RegistryOptions) {
		o.Format = format
	}
}

// WithSeed seeds the registry from a prior conversation's entries so
// numbering continues across turns.
func WithSeed(entries []Entry) RegistryOption {
	return func(o *RegistryOptions) {
		o.Seed = entries
	}
}
