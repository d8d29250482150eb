package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/docbridge/docbridge"
	"github.com/docbridge/docbridge/docerrors"
)

// Registry holds the registered converters and answers detection and
// dispatch queries. All methods are safe for concurrent use: registration
// is serialized behind a write lock, lookups and detection take a read
// lock and never observe a partially registered entry.
type Registry struct {
	mu sync.RWMutex

	// entries keyed by format name; seq preserves registration order for
	// deterministic tie-breaking.
	entries map[string]*entry
	nextSeq int

	// parser/renderer factory tables, keyed by qualified name.
	parserFactories   map[string]ParserFactory
	rendererFactories map[string]RendererFactory

	// capabilities announces available optional features, keyed by probe
	// name, with the installed version ("" when unversioned).
	capabilities map[string]string

	logger docbridge.Logger
}

type entry struct {
	meta *ConverterMetadata
	seq  int
}

// New creates an empty Registry with the given logger. A nil logger
// defaults to NopLogger.
func New(logger docbridge.Logger) *Registry {
	if logger == nil {
		logger = docbridge.NopLogger{}
	}
	return &Registry{
		entries:           make(map[string]*entry),
		parserFactories:   make(map[string]ParserFactory),
		rendererFactories: make(map[string]RendererFactory),
		capabilities:      make(map[string]string),
		logger:            logger,
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, lazily initialized on first
// use. Libraries embedding docbridge in a larger application should prefer
// constructing their own Registry at the composition root.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(nil)
	})
	return defaultRegistry
}

// SetLogger replaces the registry's logger. A nil logger restores NopLogger.
func (r *Registry) SetLogger(logger docbridge.Logger) {
	if logger == nil {
		logger = docbridge.NopLogger{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a converter. The metadata is validated first; a duplicate
// format name is logged as a warning and skipped so the first registration
// wins.
func (r *Registry) Register(meta *ConverterMetadata) error {
	if meta == nil {
		return &docerrors.ValidationError{Subject: "converter", Message: "nil metadata"}
	}
	if err := meta.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[meta.FormatName]; exists {
		r.logger.Warn("duplicate converter registration skipped", "format", meta.FormatName)
		return nil
	}
	r.entries[meta.FormatName] = &entry{meta: meta, seq: r.nextSeq}
	r.nextSeq++
	r.logger.Debug("registered converter", "format", meta.FormatName, "priority", meta.Priority)
	return nil
}

// Unregister removes a converter by format name. Removing an unknown name
// is a no-op.
func (r *Registry) Unregister(formatName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, formatName)
}

// Get returns the metadata for a format name.
func (r *Registry) Get(formatName string) (*ConverterMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[formatName]
	if !ok {
		return nil, &docerrors.FormatDetectionError{
			Input:   formatName,
			Message: fmt.Sprintf("format %q is not registered", formatName),
		}
	}
	return e.meta, nil
}

// Formats returns the registered format names in registration order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	es := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return es[i].seq < es[j].seq })
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.meta.FormatName
	}
	return names
}

// RegisterParserFactory registers a named parser factory for metadata
// entries referencing their parser by name.
func (r *Registry) RegisterParserFactory(name string, factory ParserFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parserFactories[name] = factory
}

// RegisterRendererFactory registers a named renderer factory.
func (r *Registry) RegisterRendererFactory(name string, factory RendererFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendererFactories[name] = factory
}

// ResolveParser returns the parser for a format: the direct handle when
// present, otherwise the named factory. An unresolved reference is a
// configuration error, distinct from a format-not-found error.
func (r *Registry) ResolveParser(meta *ConverterMetadata) (Parser, error) {
	if meta.Parser != nil {
		return meta.Parser, nil
	}
	if meta.ParserName == "" {
		return nil, &docerrors.ConfigurationError{
			Format:  meta.FormatName,
			Message: "no parser reference",
		}
	}
	name := qualifyReference(meta.FormatName, meta.ParserName)
	r.mu.RLock()
	factory, ok := r.parserFactories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &docerrors.ConfigurationError{Format: meta.FormatName, Reference: name}
	}
	return factory(), nil
}

// ResolveRenderer returns the renderer for a format, mirroring
// ResolveParser.
func (r *Registry) ResolveRenderer(meta *ConverterMetadata) (Renderer, error) {
	if meta.Renderer != nil {
		return meta.Renderer, nil
	}
	if meta.RendererName == "" {
		return nil, &docerrors.ConfigurationError{
			Format:  meta.FormatName,
			Message: "no renderer reference",
		}
	}
	name := qualifyReference(meta.FormatName, meta.RendererName)
	r.mu.RLock()
	factory, ok := r.rendererFactories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &docerrors.ConfigurationError{Format: meta.FormatName, Reference: name}
	}
	return factory(), nil
}

// qualifyReference resolves a bare reference name under the format's
// conventional namespace; a name that already contains a dot is
// fully-qualified and used as-is.
func qualifyReference(formatName, ref string) string {
	if strings.Contains(ref, ".") {
		return ref
	}
	return formatName + "." + ref
}

// Plugin is implemented by converter plugins participating in discovery.
type Plugin interface {
	// Name identifies the plugin in discovery logs.
	Name() string
	// Register adds the plugin's converters, factories, and capabilities
	// to the registry.
	Register(r *Registry) error
}

// Discover registers each plugin in turn. Discovery is best-effort: a
// failing plugin is logged and skipped, never aborting registration of the
// remaining plugins. The returned slice carries one error per failed
// plugin.
func (r *Registry) Discover(plugins ...Plugin) []error {
	var errs []error
	for _, p := range plugins {
		if err := p.Register(r); err != nil {
			r.logger.Error("plugin registration failed", "plugin", p.Name(), "error", err)
			errs = append(errs, fmt.Errorf("plugin %s: %w", p.Name(), err))
			continue
		}
		r.logger.Debug("plugin registered", "plugin", p.Name())
	}
	return errs
}
