package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// InMemoryPath is the path reported by a store with no backing file.
const InMemoryPath = ":memory:"

// ConfigStore keeps settings for one process only. It backs tests and runs
// where the config directory cannot be created.
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore creates an empty in-memory config store.
func NewConfigStore() *ConfigStore {
	return NewConfigStoreAt(InMemoryPath, nil)
}

// NewConfigStoreAt creates a store that reports path as its location, so
// settings defaults (such as the run history directory) resolve next to it.
// The seed values are copied.
func NewConfigStoreAt(path string, seed map[string]any) *ConfigStore {
	values := make(map[string]any, len(seed))
	maps.Copy(values, seed)
	return &ConfigStore{path: path, values: values}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString returns the value for key if it is a string.
func (s *ConfigStore) GetString(key string) string {
	str, _ := s.lookup(key).(string)
	return str
}

// GetInt returns the value for key if it is numeric. TOML decoding yields
// int64, so every integer width is accepted.
func (s *ConfigStore) GetInt(key string) int {
	switch v := s.lookup(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// GetBool returns the value for key if it is a bool.
func (s *ConfigStore) GetBool(key string) bool {
	b, _ := s.lookup(key).(bool)
	return b
}

func (s *ConfigStore) lookup(key string) any {
	val, _ := s.Get(key)
	return val
}

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Save is a no-op; values live as long as the process.
func (s *ConfigStore) Save() error {
	return nil
}

// Load is a no-op; there is nothing to read back.
func (s *ConfigStore) Load() error {
	return nil
}

// Path returns the location reported for this store.
func (s *ConfigStore) Path() string {
	return s.path
}
