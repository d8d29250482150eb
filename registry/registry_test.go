package registry

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbridge/docbridge"
	"github.com/docbridge/docbridge/ast"
	"github.com/docbridge/docbridge/docerrors"
)

// stubParser is a minimal Parser for registry tests.
type stubParser struct{ name string }

func (s *stubParser) Parse(_ io.Reader) (*ast.Document, error) {
	return &ast.Document{}, nil
}

func (s *stubParser) ExtractMetadata(doc *ast.Document) ast.Metadata {
	return doc.Meta
}

// stubRenderer is a minimal Renderer for registry tests.
type stubRenderer struct{ name string }

func (s *stubRenderer) Render(_ *ast.Document, w io.Writer) error {
	_, err := w.Write([]byte(s.name))
	return err
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, msg)
}

func (l *recordingLogger) With(...any) docbridge.Logger { return l }

func TestRegister_And_Get(t *testing.T) {
	r := New(nil)
	meta := &ConverterMetadata{
		FormatName: "markdown",
		Extensions: []string{".md"},
		Parser:     &stubParser{},
		Renderer:   &stubRenderer{},
	}
	require.NoError(t, r.Register(meta))

	got, err := r.Get("markdown")
	require.NoError(t, err)
	assert.Same(t, meta, got)
}

func TestRegister_NilMetadata(t *testing.T) {
	r := New(nil)
	err := r.Register(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrValidation)
}

func TestRegister_InvalidMetadata(t *testing.T) {
	tests := []struct {
		name string
		meta *ConverterMetadata
	}{
		{"missing format name", &ConverterMetadata{Extensions: []string{".md"}}},
		{"extension without dot", &ConverterMetadata{FormatName: "x", Extensions: []string{"md"}}},
		{"empty magic pattern", &ConverterMetadata{
			FormatName:    "x",
			MagicPatterns: []MagicPattern{{Offset: 0}},
		}},
		{"dependency without feature", &ConverterMetadata{
			FormatName:   "x",
			Dependencies: []Dependency{{Constraint: ">=1.0"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(nil).Register(tt.meta)
			require.Error(t, err)
			assert.ErrorIs(t, err, docerrors.ErrValidation)
		})
	}
}

func TestRegister_DuplicateWarnsAndKeepsFirst(t *testing.T) {
	logger := &recordingLogger{}
	r := New(logger)

	first := &ConverterMetadata{FormatName: "markdown", Priority: 1}
	second := &ConverterMetadata{FormatName: "markdown", Priority: 99}
	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))

	got, err := r.Get("markdown")
	require.NoError(t, err)
	assert.Same(t, first, got)
	assert.Len(t, logger.warns, 1)
}

func TestUnregister(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Register(&ConverterMetadata{FormatName: "markdown"}))

	r.Unregister("markdown")
	_, err := r.Get("markdown")
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrFormatDetection)

	// Unregistering an unknown name is a no-op.
	r.Unregister("markdown")
}

func TestFormats_RegistrationOrder(t *testing.T) {
	r := New(nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(&ConverterMetadata{FormatName: name}))
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Formats())
}

func TestResolveParser_Direct(t *testing.T) {
	r := New(nil)
	p := &stubParser{}
	meta := &ConverterMetadata{FormatName: "markdown", Parser: p}

	got, err := r.ResolveParser(meta)
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestResolveParser_BareNameQualified(t *testing.T) {
	r := New(nil)
	r.RegisterParserFactory("markdown.parser", func() Parser { return &stubParser{name: "md"} })
	meta := &ConverterMetadata{FormatName: "markdown", ParserName: "parser"}

	got, err := r.ResolveParser(meta)
	require.NoError(t, err)
	assert.Equal(t, "md", got.(*stubParser).name)
}

func TestResolveParser_FullyQualifiedName(t *testing.T) {
	r := New(nil)
	r.RegisterParserFactory("common.text", func() Parser { return &stubParser{name: "text"} })
	meta := &ConverterMetadata{FormatName: "markdown", ParserName: "common.text"}

	got, err := r.ResolveParser(meta)
	require.NoError(t, err)
	assert.Equal(t, "text", got.(*stubParser).name)
}

func TestResolveParser_UnresolvedIsConfigError(t *testing.T) {
	r := New(nil)
	meta := &ConverterMetadata{FormatName: "markdown", ParserName: "parser"}

	_, err := r.ResolveParser(meta)
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrConfig)
	assert.NotErrorIs(t, err, docerrors.ErrFormatDetection)
}

func TestResolveParser_NoReference(t *testing.T) {
	r := New(nil)
	_, err := r.ResolveParser(&ConverterMetadata{FormatName: "markdown"})
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrConfig)
}

func TestResolveRenderer(t *testing.T) {
	r := New(nil)
	r.RegisterRendererFactory("markdown.renderer", func() Renderer { return &stubRenderer{name: "md"} })

	direct := &stubRenderer{name: "direct"}
	got, err := r.ResolveRenderer(&ConverterMetadata{FormatName: "markdown", Renderer: direct})
	require.NoError(t, err)
	assert.Same(t, direct, got)

	got, err = r.ResolveRenderer(&ConverterMetadata{FormatName: "markdown", RendererName: "renderer"})
	require.NoError(t, err)
	assert.Equal(t, "md", got.(*stubRenderer).name)

	_, err = r.ResolveRenderer(&ConverterMetadata{FormatName: "markdown", RendererName: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrConfig)
}

// testPlugin registers a single converter or fails.
type testPlugin struct {
	name string
	fail bool
}

func (p *testPlugin) Name() string { return p.name }

func (p *testPlugin) Register(r *Registry) error {
	if p.fail {
		return errors.New("broken plugin")
	}
	return r.Register(&ConverterMetadata{FormatName: p.name})
}

func TestDiscover_SkipsFailingPlugins(t *testing.T) {
	logger := &recordingLogger{}
	r := New(logger)

	errs := r.Discover(
		&testPlugin{name: "good-one"},
		&testPlugin{name: "broken", fail: true},
		&testPlugin{name: "good-two"},
	)

	// The failing plugin is reported but never aborts the rest.
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken")
	assert.Equal(t, []string{"good-one", "good-two"}, r.Formats())
	assert.Len(t, logger.errs, 1)
}

func TestDefault_Singleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestConcurrentLookups(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Register(&ConverterMetadata{
		FormatName: "markdown",
		Extensions: []string{".md"},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := r.Get("markdown"); err != nil {
					t.Error(err)
					return
				}
				if _, err := r.Detect(Probe{Filename: "x.md"}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
