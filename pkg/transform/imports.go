package transform

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// rewriteImports canonicalizes relative imports: the module path gains the
// marker segment before its base name, and each named component specifier is
// renamed with the same rule as the export renamer. Specifier renames go
// through the name map too, so a file importing a sibling that has not been
// processed yet still ends up with one consistent view for the reference
// passes.
//
// Re-exports with a relative source (export * from './x',
// export { X } from './x') follow the same rules, so barrel files keep
// pointing at files that exist after the batch driver renames them on disk.
//
// Imports of the protected package are skipped entirely by exact specifier
// match. An import already pointing at a canonical path is left untouched,
// which keeps re-runs no-ops.
func rewriteImports(ctx *fileContext) error {
	edits := &editSet{}
	root := ctx.tree.RootNode()

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil {
			continue
		}
		switch stmt.Type() {
		case "import_statement":
			rewriteImportStatement(ctx, stmt, edits)
		case "export_statement":
			rewriteReexportStatement(ctx, stmt, edits)
		}
	}

	return ctx.commit(edits)
}

func rewriteImportStatement(ctx *fileContext, stmt *sitter.Node, edits *editSet) {
	spec := moduleSpecifier(ctx, stmt)
	if spec == "" || spec == ctx.opts.ProtectedPackage {
		return
	}
	if !isRelativeSpecifier(spec) {
		return
	}
	if hasCanonicalPath(ctx.opts.Marker, spec) {
		return
	}

	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "string":
			if frag := stringFragment(child); frag != nil {
				rewritten := CanonicalImportPath(ctx.opts.Marker, spec)
				edits.replace(frag.StartByte(), frag.EndByte(), rewritten)
				ctx.logChange("rewrote import path %s -> %s", spec, rewritten)
			}
		case "import_clause":
			rewriteImportClause(ctx, child, edits)
		}
	}
}

// rewriteReexportStatement canonicalizes a re-export with a relative module
// source. A re-export binds nothing locally, so its specifier renames never
// enter the name map.
func rewriteReexportStatement(ctx *fileContext, stmt *sitter.Node, edits *editSet) {
	spec := moduleSpecifier(ctx, stmt)
	if spec == "" || spec == ctx.opts.ProtectedPackage {
		return
	}
	if !isRelativeSpecifier(spec) {
		return
	}
	if hasCanonicalPath(ctx.opts.Marker, spec) {
		return
	}

	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "string":
			if frag := stringFragment(child); frag != nil {
				rewritten := CanonicalImportPath(ctx.opts.Marker, spec)
				edits.replace(frag.StartByte(), frag.EndByte(), rewritten)
				ctx.logChange("rewrote re-export path %s -> %s", spec, rewritten)
			}
		case "export_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				specifier := child.NamedChild(j)
				if specifier != nil && specifier.Type() == "export_specifier" {
					rewriteReexportSpecifierName(ctx, specifier, edits)
				}
			}
		}
	}
}

// rewriteReexportSpecifierName applies the marker rule to the remote name of
// one re-export specifier. An alias keeps its published spelling.
func rewriteReexportSpecifierName(ctx *fileContext, specifier *sitter.Node, edits *editSet) {
	name := specifier.NamedChild(0)
	if name == nil {
		return
	}

	text := ctx.nodeText(name)
	if !isComponentName(text) || ctx.isProtected(text) {
		return
	}

	renamed := CanonicalName(ctx.opts.Marker, text)
	if renamed == text {
		return
	}

	edits.replace(name.StartByte(), name.EndByte(), renamed)
	ctx.logChange("renamed re-export specifier %s -> %s", text, renamed)
}

// rewriteImportClause renames the component-cased named specifiers of one
// relative import.
func rewriteImportClause(ctx *fileContext, clause *sitter.Node, edits *editSet) {
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node.Type() == "import_specifier" {
			rewriteImportSpecifierName(ctx, node, edits)
			return
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(clause)
}

// rewriteImportSpecifierName applies the marker rule to one named specifier.
// With an alias (import { Button as B }) only the imported name changes; the
// local binding keeps its spelling, so no map entry is recorded.
func rewriteImportSpecifierName(ctx *fileContext, specifier *sitter.Node, edits *editSet) {
	var name, alias *sitter.Node
	for i := 0; i < int(specifier.NamedChildCount()); i++ {
		child := specifier.NamedChild(i)
		if child == nil {
			continue
		}
		if name == nil {
			name = child
		} else {
			alias = child
		}
	}
	if name == nil {
		return
	}

	text := ctx.nodeText(name)
	if !isComponentName(text) || ctx.isProtected(text) {
		return
	}

	renamed := CanonicalName(ctx.opts.Marker, text)
	if renamed == text {
		return
	}

	edits.replace(name.StartByte(), name.EndByte(), renamed)
	ctx.logChange("renamed import specifier %s -> %s", text, renamed)

	if alias == nil {
		ctx.mapName(text, renamed)
		// Keep the conventional prop-type pairing reachable for
		// reference sites even though the sibling declares it.
		if !strings.HasSuffix(text, ctx.opts.TypeSuffix) {
			suffixed := text + ctx.opts.TypeSuffix
			ctx.mapType(suffixed, CanonicalName(ctx.opts.Marker, suffixed))
		}
	}
}
