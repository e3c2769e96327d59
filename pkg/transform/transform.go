// Package transform implements the rename engine for vendored UI component
// modules. It rewrites one file's source at a time: exported components and
// their prop-type aliases gain a fixed marker prefix, relative imports are
// canonicalized with the same rule, and every reference site is updated to
// match. Bindings imported from one protected package are never renamed.
//
// A transform is a pure in-memory computation with no I/O and no shared
// state, so any number of invocations may run concurrently.
package transform

import (
	"fmt"
)

// Options configures a Transformer.
type Options struct {
	// Marker is the prefix applied to renamed exports and prop types.
	Marker string
	// ProtectedPackage is the module specifier whose imported bindings
	// must never be renamed.
	ProtectedPackage string
	// TypeSuffix is the conventional prop-type suffix paired with
	// component names.
	TypeSuffix string
}

// DefaultOptions returns the standard retrofit options.
func DefaultOptions() Options {
	return Options{
		Marker:           "Trailhead",
		ProtectedPackage: "react",
		TypeSuffix:       "Props",
	}
}

// ParseError reports syntactically invalid input. The file is skipped;
// nothing was rewritten.
type ParseError struct {
	Msg    string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("parse error: %s", e.Msg)
}

// TransformError reports an internal invariant violation inside a phase.
// The input must be treated as unchanged; no partial output exists.
type TransformError struct {
	Phase string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform failed in %s phase: %v", e.Phase, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// Transformer runs the rename engine with a fixed set of options. It holds
// no per-file state and is safe for concurrent use.
type Transformer struct {
	opts Options
}

// New creates a Transformer. Zero-valued options fall back to defaults.
func New(opts Options) *Transformer {
	def := DefaultOptions()
	if opts.Marker == "" {
		opts.Marker = def.Marker
	}
	if opts.ProtectedPackage == "" {
		opts.ProtectedPackage = def.ProtectedPackage
	}
	if opts.TypeSuffix == "" {
		opts.TypeSuffix = def.TypeSuffix
	}
	return &Transformer{opts: opts}
}

// Options returns the effective options after defaulting.
func (t *Transformer) Options() Options {
	return t.opts
}

// phase is one step of the pipeline. Phases run in a fixed order and thread
// the shared file context explicitly.
type phase struct {
	name string
	run  func(*fileContext) error
}

var phases = []phase{
	{"export rename", renameExports},
	{"namespace protection", protectNamespace},
	{"type-alias mapping", mapTypeAliases},
	{"import rewrite", rewriteImports},
	{"reference update", updateReferences},
}

// Transform runs the full pipeline on one file's source text. It returns a
// Result on success, a *ParseError for invalid input, or a *TransformError
// if a phase violated an internal invariant. Panics inside phases are
// converted to errors at this boundary so a caller batching many files can
// always continue past a bad one.
func (t *Transformer) Transform(source string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &TransformError{Phase: "internal", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	ctx, cerr := newContext([]byte(source), t.opts)
	if cerr != nil {
		return nil, cerr
	}
	defer ctx.close()

	for _, p := range phases {
		if perr := p.run(ctx); perr != nil {
			return nil, &TransformError{Phase: p.name, Err: perr}
		}
	}

	return emit(ctx), nil
}
