package ports

// Catalog supplies localized reply strings by key. Values support
// {var}-style interpolation of supplied variables.
type Catalog interface {
	// Any returns a randomly-chosen variant for key, interpolated with vars.
	Any(key string, vars map[string]string) string

	// Get returns the variant at index, or fallback when the index is
	// out of range for the key.
	Get(key string, index int, fallback string) string

	// Count reports how many variants exist for key.
	Count(key string) int
}
