package driven

// ConfigStore holds the flat, dot-separated settings keys read by the
// settings service ("chunker.size", "entities.allow_hierarchy_cycles").
// Typed getters return the zero value for a missing key or a value of
// another type.
type ConfigStore interface {
	// Get reports the raw value at key and whether the key is set.
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores a value. File-backed stores persist it before returning.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is where the configuration lives, ":memory:" for stores
	// without a file.
	Path() string
}
