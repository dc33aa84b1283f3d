package module

import (
	"strings"
	"sync"

	"github.com/sunholo/wgsllink/internal/importtree"
	"github.com/sunholo/wgsllink/internal/lexer"
	"github.com/sunholo/wgsllink/internal/preprocess"
	"github.com/sunholo/wgsllink/internal/wgsl"
)

// TemplateFunc renders a module's source through a named string
// template (`#template name`). The substitution engine itself is out
// of scope; this is an injected collaborator (spec.md §6).
type TemplateFunc func(src string) string

// Template pairs a `#template` name with its rendering function.
type Template struct {
	Name   string
	Render TemplateFunc
}

// Config bundles the three registry construction inputs spec.md §6
// names, plus the ambient parse parameters every source is run
// through (preprocessor params, parse budget).
type Config struct {
	WGSL          map[string]string
	Generators    []GeneratorModule
	Templates     []Template
	Params        preprocess.Params
	MaxParseCount int
}

// Registry holds parsed modules indexed by canonical path and by
// source file path (spec.md §4.H). Parsing is lazy and memoized: no
// source is touched until the first call to Parsed, FindTextModule, or
// ModuleByPath.
type Registry struct {
	cfg Config

	parseOnce sync.Once
	modules   []*Module
	byPath    map[string]*Module
	byFile    map[string]*Module

	resolveMu    sync.Mutex
	resolveCache map[*Module]*ResolveMap
}

// New builds a registry over cfg. No parsing happens until Parsed (or
// one of the lookup methods, which call it internally) is first used.
func New(cfg Config) *Registry {
	return &Registry{cfg: cfg, resolveCache: map[*Module]*ResolveMap{}}
}

// Parsed returns the registry's full parsed view: every WGSL source
// parsed, every generator module registered.
func (r *Registry) Parsed() []*Module {
	r.parseOnce.Do(r.parse)
	return r.modules
}

func (r *Registry) parse() {
	r.byPath = map[string]*Module{}
	r.byFile = map[string]*Module{}

	// Deterministic order: callers comparing diagnostic output across
	// runs should see the same module processed first every time.
	paths := make([]string, 0, len(r.cfg.WGSL))
	for p := range r.cfg.WGSL {
		paths = append(paths, p)
	}
	sortStrings(paths)

	for _, path := range paths {
		m := r.parseOne(path, r.cfg.WGSL[path])
		r.modules = append(r.modules, m)
		r.byFile[path] = m
		// A module is addressable both by its declared `module`
		// canonical path and by its raw registry key: a source-relative
		// import (`from ./file1`) names the latter, an ordinary
		// Gleam-style import (`import lib::foo`) the former, and they
		// may differ. First registration for a given key wins.
		r.registerPath(m.CanonicalPath(), m)
		r.registerPath(strings.Join(importtree.SplitCanonical(path), "/"), m)
	}
	for i := range r.cfg.Generators {
		g := r.cfg.Generators[i]
		m := &Module{PathSegments: g.PathSegments, Generator: &g}
		m.exports = map[string]*Export{
			g.Name: {Name: g.Name, Module: m, Gen: &g},
		}
		r.modules = append(r.modules, m)
		r.registerPath(m.CanonicalPath(), m)
	}
	r.applyExtends()
}

// registerPath indexes m under key if nothing has claimed that key yet.
func (r *Registry) registerPath(key string, m *Module) {
	if key == "" {
		return
	}
	if _, exists := r.byPath[key]; !exists {
		r.byPath[key] = m
	}
}

func (r *Registry) parseOne(path, src string) *Module {
	normalized := lexer.NormalizeString(src)
	pre := preprocess.Run(path, normalized, r.cfg.Params)
	res := wgsl.Parse(path, pre.Text, r.cfg.MaxParseCount)

	m := &Module{
		SourceName:      path,
		Source:          pre.Text,
		Elems:           res.Elems,
		SrcMap:          pre.SrcMap,
		BudgetExhausted: res.BudgetExhausted,
		PathSegments:    modulePathSegments(path, res.Elems),
	}
	m.exports = buildExports(res.Elems)
	for _, e := range m.exports {
		e.Module = m
	}
	return m
}

// modulePathSegments derives a module's canonical path from its
// `module` directive, falling back to the registry key (the source's
// own path) when the module carries no directive of its own.
func modulePathSegments(path string, elems []*wgsl.Elem) []string {
	for _, e := range elems {
		if e.Kind == wgsl.KindModule && len(e.PathSegments) > 0 {
			return e.PathSegments
		}
	}
	return importtree.SplitCanonical(path)
}

// FindTextModule looks a module up by its registry key (source file
// path) first, then by canonical path.
func (r *Registry) FindTextModule(pathOrName string) *Module {
	r.Parsed()
	if m, ok := r.byFile[pathOrName]; ok {
		return m
	}
	return r.byPath[importtree.Canonicalize(pathOrName)]
}

// ModuleByPath looks a module up by its already-split canonical path
// segments (spec.md §4.G: "find the exporting module by walking the
// registry with the segments as a path").
func (r *Registry) ModuleByPath(segments []string) *Module {
	r.Parsed()
	return r.byPath[strings.Join(segments, "/")]
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}
