package transform

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// fileContext carries the per-invocation state threaded through every phase:
// the current source and tree, the rename maps, the protected-name set, and
// the change/warning logs. It is created fresh for each Transform call and
// never shared.
type fileContext struct {
	opts   Options
	source []byte
	tree   *sitter.Tree

	// nameMap maps original component identifiers to their renamed form.
	// Entries are written once, by the export renamer or the import
	// rewriter, and only read afterward.
	nameMap map[string]string

	// typeMap is the parallel table for prop-type alias names.
	typeMap map[string]string

	// protected holds local bindings of the protected package's imports.
	// Membership permanently excludes a name from renaming.
	protected map[string]struct{}

	changes  []string
	warnings []string
	applied  int
}

// newContext parses the source and initializes empty phase state.
// A syntactically invalid input yields a *ParseError and no context.
func newContext(source []byte, opts Options) (*fileContext, error) {
	tree, err := parseTSX(source)
	if err != nil {
		return nil, err
	}

	return &fileContext{
		opts:      opts,
		source:    source,
		tree:      tree,
		nameMap:   make(map[string]string),
		typeMap:   make(map[string]string),
		protected: make(map[string]struct{}),
	}, nil
}

// parseTSX parses source with the TSX grammar. A fresh parser per call keeps
// concurrent invocations fully independent.
func parseTSX(source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())

	tree := parser.Parse(nil, source)
	if tree == nil {
		return nil, &ParseError{Msg: "parser produced no tree"}
	}

	root := tree.RootNode()
	if root.HasError() {
		line, col := firstErrorPosition(root)
		tree.Close()
		return nil, &ParseError{
			Msg:    "syntax error",
			Line:   line,
			Column: col,
		}
	}

	return tree, nil
}

// firstErrorPosition locates the first ERROR or missing node for diagnostics.
func firstErrorPosition(node *sitter.Node) (line, col int) {
	if node.Type() == "ERROR" || node.IsMissing() {
		return int(node.StartPoint().Row) + 1, int(node.StartPoint().Column) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		return firstErrorPosition(child)
	}
	return int(node.StartPoint().Row) + 1, int(node.StartPoint().Column) + 1
}

// commit splices a phase's edits into the source and re-parses, so the next
// phase sees a fresh tree. The previous tree is released.
func (ctx *fileContext) commit(edits *editSet) error {
	if edits.empty() {
		return nil
	}

	next, err := edits.apply(ctx.source)
	if err != nil {
		return err
	}

	tree, perr := parseTSX(next)
	if perr != nil {
		// Edits should never produce invalid syntax. Keep the prior
		// source intact and surface the invariant violation.
		return fmt.Errorf("re-parse after edits failed: %w", perr)
	}

	ctx.tree.Close()
	ctx.tree = tree
	ctx.source = next
	ctx.applied += len(edits.edits)

	return nil
}

// close releases the final tree.
func (ctx *fileContext) close() {
	if ctx.tree != nil {
		ctx.tree.Close()
		ctx.tree = nil
	}
}

// nodeText returns the source text covered by a node.
func (ctx *fileContext) nodeText(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start >= uint32(len(ctx.source)) || end > uint32(len(ctx.source)) {
		return ""
	}
	return string(ctx.source[start:end])
}

// isProtected reports whether a name is bound to the protected package.
func (ctx *fileContext) isProtected(name string) bool {
	_, ok := ctx.protected[name]
	return ok
}

// renamed looks a name up in the component map, then the prop-type map.
// Protected names never resolve.
func (ctx *fileContext) renamed(name string) (string, bool) {
	if ctx.isProtected(name) {
		return "", false
	}
	if to, ok := ctx.nameMap[name]; ok {
		return to, true
	}
	if to, ok := ctx.typeMap[name]; ok {
		return to, true
	}
	return "", false
}

// mapName records a component rename. First writer wins; the maps are
// append-only within one invocation.
func (ctx *fileContext) mapName(from, to string) {
	if _, ok := ctx.nameMap[from]; ok {
		return
	}
	ctx.nameMap[from] = to
}

// mapType records a prop-type rename.
func (ctx *fileContext) mapType(from, to string) {
	if _, ok := ctx.typeMap[from]; ok {
		return
	}
	ctx.typeMap[from] = to
}

func (ctx *fileContext) logChange(format string, args ...interface{}) {
	ctx.changes = append(ctx.changes, fmt.Sprintf(format, args...))
}

func (ctx *fileContext) logWarning(format string, args ...interface{}) {
	ctx.warnings = append(ctx.warnings, fmt.Sprintf(format, args...))
}
