package execution

import (
	"github.com/linguaflow/linguaflow/pkg/dotpath"
)

// VirtualContext runs a workflow against a bare JSON-like payload with no
// backing persisted record. Mutations are purely in-memory; nothing is
// ever committed.
type VirtualContext struct {
	serviceSet

	data           map[string]any
	sourceLanguage string
	targetLanguage string
}

// NewVirtualContext builds a virtual context from a payload. The payload
// is cloned, so later mutations of the context never reach the caller's
// document.
func NewVirtualContext(payload map[string]any, sourceLanguage, targetLanguage string) *VirtualContext {
	if payload == nil {
		payload = map[string]any{}
	}

	return &VirtualContext{
		serviceSet:     newServiceSet(),
		data:           dotpath.Clone(payload),
		sourceLanguage: sourceLanguage,
		targetLanguage: targetLanguage,
	}
}

func (c *VirtualContext) Get(path string) any {
	value, _ := dotpath.Get(c.data, path)

	return value
}

func (c *VirtualContext) Set(path string, value any) {
	dotpath.Set(c.data, path, value)
}

func (c *VirtualContext) Has(path string) bool {
	return dotpath.Has(c.data, path)
}

func (c *VirtualContext) Delete(path string) {
	dotpath.Delete(c.data, path)
}

func (c *VirtualContext) Export() map[string]any {
	return dotpath.Clone(c.data)
}

func (c *VirtualContext) IsVirtual() bool {
	return true
}

func (c *VirtualContext) PostID() string {
	return ""
}

func (c *VirtualContext) SourceLanguage() string {
	return c.sourceLanguage
}

func (c *VirtualContext) TargetLanguage() string {
	return c.targetLanguage
}

// WithData returns a new context whose document is this context's data
// recursively merged with partial. The original context is untouched;
// registered services are copied to the clone.
func (c *VirtualContext) WithData(partial map[string]any) *VirtualContext {
	merged := dotpath.Clone(c.data)
	dotpath.Merge(merged, partial)

	clone := NewVirtualContext(merged, c.sourceLanguage, c.targetLanguage)
	for name, service := range c.copyServices() {
		clone.RegisterService(name, service)
	}

	return clone
}

// Changes returns the structural diff between the current document and an
// original snapshot.
func (c *VirtualContext) Changes(original map[string]any) map[string]any {
	if original == nil {
		original = map[string]any{}
	}

	return dotpath.Diff(c.data, original)
}
