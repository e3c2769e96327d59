package transform

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// renameExports rewrites top-level exported component declarations and seeds
// the name map. A component counts as exported when its declaration carries
// the export keyword directly, or when a separate export clause names it,
// which is how ref-forwarding const components are usually published
// (const X = forwardRef(...); export { X }). Clause specifiers are rewritten
// in the same pass so the published names match the renamed declarations.
//
// Only names following the component convention are touched; lowercase
// helper exports and non-exported declarations are left alone. Names already
// carrying the marker are skipped, which makes the phase a no-op on its own
// output.
func renameExports(ctx *fileContext) error {
	edits := &editSet{}
	root := ctx.tree.RootNode()

	clauseExported := exportClauseNames(ctx, root)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil {
			continue
		}
		if stmt.Type() == "export_statement" {
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				renameDeclaredNames(ctx, stmt.NamedChild(j), edits, nil)
			}
			continue
		}
		renameDeclaredNames(ctx, stmt, edits, clauseExported)
	}

	renameExportClauses(ctx, root, edits)

	return ctx.commit(edits)
}

// renameDeclaredNames applies the marker rule to the names one declaration
// binds. Covers plain function components, class components, and const
// components including ref-forwarding wrappers. A non-nil allow set restricts
// renames to clause-exported names, so unexported siblings keep their
// spelling.
func renameDeclaredNames(ctx *fileContext, decl *sitter.Node, edits *editSet, allow map[string]bool) {
	if decl == nil {
		return
	}

	rename := func(name *sitter.Node) {
		if name == nil {
			return
		}
		if allow != nil && !allow[ctx.nodeText(name)] {
			return
		}
		renameDeclarationName(ctx, name, edits)
	}

	switch decl.Type() {
	case "function_declaration", "generator_function_declaration", "class_declaration", "abstract_class_declaration":
		rename(declarationName(decl))
	case "lexical_declaration", "variable_declaration":
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			declarator := decl.NamedChild(j)
			if declarator == nil || declarator.Type() != "variable_declarator" {
				continue
			}
			rename(declarationName(declarator))
		}
	}
}

// exportClauseNames collects the local names published by bare export clauses
// (export { X }). Re-export clauses with a module source bind nothing locally
// and are handled with the import rewrite instead.
func exportClauseNames(ctx *fileContext, root *sitter.Node) map[string]bool {
	names := make(map[string]bool)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil || stmt.Type() != "export_statement" {
			continue
		}
		if moduleSpecifier(ctx, stmt) != "" {
			continue
		}
		clause := exportClause(stmt)
		if clause == nil {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			spec := clause.NamedChild(j)
			if spec == nil || spec.Type() != "export_specifier" {
				continue
			}
			if local := spec.NamedChild(0); local != nil {
				names[ctx.nodeText(local)] = true
			}
		}
	}
	return names
}

// renameExportClauses rewrites bare export clause specifiers from the name
// map. The local side of each specifier must follow its declaration; an
// aliased specifier keeps its published alias.
func renameExportClauses(ctx *fileContext, root *sitter.Node, edits *editSet) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil || stmt.Type() != "export_statement" {
			continue
		}
		if moduleSpecifier(ctx, stmt) != "" {
			continue
		}
		clause := exportClause(stmt)
		if clause == nil {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			spec := clause.NamedChild(j)
			if spec == nil || spec.Type() != "export_specifier" {
				continue
			}
			local := spec.NamedChild(0)
			if local == nil {
				continue
			}
			text := ctx.nodeText(local)
			renamed, ok := ctx.renamed(text)
			if !ok || renamed == text {
				continue
			}
			edits.replace(local.StartByte(), local.EndByte(), renamed)
		}
	}
}

// exportClause returns the export_clause child of an export statement, if any.
func exportClause(stmt *sitter.Node) *sitter.Node {
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		if child := stmt.NamedChild(i); child != nil && child.Type() == "export_clause" {
			return child
		}
	}
	return nil
}

// declarationName returns the name node of a declaration or declarator.
func declarationName(decl *sitter.Node) *sitter.Node {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier", "type_identifier":
			return child
		}
		// The name precedes parameters, type annotations, and values;
		// anything else means a pattern binding we do not rename.
		return nil
	}
	return nil
}

// renameDeclarationName applies the marker rule to a single declared name.
func renameDeclarationName(ctx *fileContext, name *sitter.Node, edits *editSet) {
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
	ctx.mapName(text, renamed)
	ctx.logChange("renamed export %s -> %s", text, renamed)
}
