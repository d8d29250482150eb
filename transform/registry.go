package transform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/docbridge/docbridge"
	"github.com/docbridge/docbridge/docerrors"
)

// Registry holds the registered transforms. All methods are safe for
// concurrent use: registration is serialized behind a write lock, lookups
// and resolution take a read lock and never observe a partially registered
// entry.
type Registry struct {
	mu sync.RWMutex

	entries map[string]*entry
	nextSeq int

	builtinsOnce sync.Once

	logger docbridge.Logger
}

type entry struct {
	meta *TransformMetadata
	seq  int
}

// New creates an empty Registry with the given logger. A nil logger
// defaults to NopLogger. Built-ins are not installed; call
// InstallBuiltins or use Default.
func New(logger docbridge.Logger) *Registry {
	if logger == nil {
		logger = docbridge.NopLogger{}
	}
	return &Registry{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide transform registry, lazily initialized
// with the built-in transforms on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(nil)
		defaultRegistry.InstallBuiltins()
	})
	return defaultRegistry
}

// InstallBuiltins registers the built-in transforms. It is idempotent:
// repeated calls never duplicate a registration.
func (r *Registry) InstallBuiltins() {
	r.builtinsOnce.Do(func() {
		for _, meta := range builtinTransforms() {
			if err := r.Register(meta); err != nil {
				r.logger.Error("builtin transform registration failed", "transform", meta.Name, "error", err)
			}
		}
	})
}

// Register adds a transform. The metadata is validated first; a duplicate
// name is logged as a warning and skipped so the first registration wins.
func (r *Registry) Register(meta *TransformMetadata) error {
	if meta == nil {
		return &docerrors.ValidationError{Subject: "transform", Message: "nil metadata"}
	}
	if err := meta.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[meta.Name]; exists {
		r.logger.Warn("duplicate transform registration skipped", "transform", meta.Name)
		return nil
	}
	r.entries[meta.Name] = &entry{meta: meta, seq: r.nextSeq}
	r.nextSeq++
	return nil
}

// Unregister removes a transform by name. Removing an unknown name is a
// no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Get returns the metadata for a transform name.
func (r *Registry) Get(name string) (*TransformMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, &docerrors.DependencyResolutionError{
			Transform: name,
			Message:   fmt.Sprintf("transform %q is not registered", name),
		}
	}
	return e.meta, nil
}

// Names returns the registered transform names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	es := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return es[i].seq < es[j].seq })
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.meta.Name
	}
	return names
}

// NamesByTag returns the names of transforms carrying the given tag, in
// registration order.
func (r *Registry) NamesByTag(tag string) []string {
	var out []string
	for _, name := range r.Names() {
		meta, err := r.Get(name)
		if err != nil {
			continue
		}
		for _, t := range meta.Tags {
			if t == tag {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// GetTransform validates params against the transform's parameter spec and
// instantiates it. Validation failures are raised here, before any AST
// mutation begins.
func (r *Registry) GetTransform(name string, params map[string]any) (Transformer, error) {
	meta, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	validated, err := validateParams(meta, params)
	if err != nil {
		return nil, err
	}
	return meta.Factory(validated)
}
