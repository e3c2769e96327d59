package transform

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// protectNamespace scans imports of the protected package and records every
// local binding they introduce. A namespace import protects its single
// binding; qualified access through it is then safe automatically, since the
// later passes only rename bare identifiers. Named and default imports
// protect each local binding individually, including renamed aliases.
//
// Protected names can never enter the rename maps, so the set only has to be
// consulted, never rebuilt, by the phases that follow.
func protectNamespace(ctx *fileContext) error {
	root := ctx.tree.RootNode()

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil || stmt.Type() != "import_statement" {
			continue
		}
		if moduleSpecifier(ctx, stmt) != ctx.opts.ProtectedPackage {
			continue
		}
		protectImportBindings(ctx, stmt)
	}

	return nil
}

// moduleSpecifier returns the module specifier string of an import or
// re-export statement without its quotes, or "" when there is none.
func moduleSpecifier(ctx *fileContext, stmt *sitter.Node) string {
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if child == nil || child.Type() != "string" {
			continue
		}
		return stringText(ctx, child)
	}
	return ""
}

// stringText extracts the content of a string literal node.
func stringText(ctx *fileContext, str *sitter.Node) string {
	for i := 0; i < int(str.NamedChildCount()); i++ {
		frag := str.NamedChild(i)
		if frag != nil && frag.Type() == "string_fragment" {
			return ctx.nodeText(frag)
		}
	}
	return ""
}

// stringFragment returns the string_fragment node of a string literal, or
// nil for an empty literal.
func stringFragment(str *sitter.Node) *sitter.Node {
	for i := 0; i < int(str.NamedChildCount()); i++ {
		frag := str.NamedChild(i)
		if frag != nil && frag.Type() == "string_fragment" {
			return frag
		}
	}
	return nil
}

// protectImportBindings records every local binding of one import statement.
func protectImportBindings(ctx *fileContext, stmt *sitter.Node) {
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}

		switch node.Type() {
		case "namespace_import":
			// import * as X from pkg
			for i := 0; i < int(node.NamedChildCount()); i++ {
				if id := node.NamedChild(i); id != nil && id.Type() == "identifier" {
					ctx.protect(ctx.nodeText(id))
				}
			}
			return
		case "import_specifier":
			// import { a } or { a as b }: the last identifier is the
			// local binding.
			var local *sitter.Node
			for i := 0; i < int(node.NamedChildCount()); i++ {
				if id := node.NamedChild(i); id != nil {
					local = id
				}
			}
			if local != nil {
				ctx.protect(ctx.nodeText(local))
			}
			return
		case "identifier":
			// Default import binding directly under the import clause.
			ctx.protect(ctx.nodeText(node))
			return
		}

		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}

	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if child != nil && child.Type() == "import_clause" {
			walk(child)
		}
	}
}

// protect adds a name to the protected set.
func (ctx *fileContext) protect(name string) {
	if name == "" {
		return
	}
	ctx.protected[name] = struct{}{}
}
