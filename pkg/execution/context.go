// Package execution provides the execution contexts workflows run
// against: a virtual, in-memory-only context and a database-backed post
// context with buffered writes. Both route all reads and writes through
// dot-path addressing.
package execution

import "sync"

// Context is the unit of execution state one workflow run operates on.
// A Context instance is exclusively owned by one in-flight run and must
// not be shared across concurrent executions.
type Context interface {
	// Get returns the value at the dot-path, or nil when any segment of
	// the path is absent.
	Get(path string) any

	// Set assigns a value at the dot-path, creating intermediate
	// containers as needed.
	Set(path string, value any)

	// Has reports whether every segment of the path resolves to an
	// existing key. The value itself may be nil.
	Has(path string) bool

	// Delete removes the leaf key at the dot-path. Unresolved paths are
	// a no-op.
	Delete(path string)

	// Export returns a snapshot of the full current document.
	Export() map[string]any

	// IsVirtual reports whether this context has no backing persisted
	// record.
	IsVirtual() bool

	// PostID returns the backing record identifier, empty for virtual
	// contexts.
	PostID() string

	SourceLanguage() string
	TargetLanguage() string

	// RegisterService attaches a named service handle steps may depend
	// on, e.g. a taxonomy resolver or a translator client.
	RegisterService(name string, service any)
	Service(name string) any
	HasService(name string) bool
}

// serviceSet implements the service capability shared by both context
// backends.
type serviceSet struct {
	mu       sync.RWMutex
	services map[string]any
}

func newServiceSet() serviceSet {
	return serviceSet{services: map[string]any{}}
}

func (s *serviceSet) RegisterService(name string, service any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.services[name] = service
}

func (s *serviceSet) Service(name string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.services[name]
}

func (s *serviceSet) HasService(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.services[name]

	return ok
}

func (s *serviceSet) copyServices() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make(map[string]any, len(s.services))
	for name, service := range s.services {
		copied[name] = service
	}

	return copied
}
