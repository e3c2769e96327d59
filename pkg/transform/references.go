package transform

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// updateReferences propagates the rename maps to every reference site in
// five fixed sub-passes, narrowest first:
//
//  1. destructured parameter type annotations
//  2. type-query expressions (typeof X)
//  3. JSX element tag names
//  4. type references (annotations, generics, extends clauses)
//  5. remaining bare identifiers, as a catch-all
//
// Each sub-pass commits its edits and re-parses before the next runs, and
// only substitutes names still in their original spelling, so every pass is
// individually idempotent. Intrinsic lowercase tags and protected bindings
// never match the maps and are untouched by construction.
func updateReferences(ctx *fileContext) error {
	passes := []func(*fileContext) error{
		updateParameterTypes,
		updateTypeQueries,
		updateElementTags,
		updateTypeReferences,
		updateIdentifiers,
	}

	for _, pass := range passes {
		if err := pass(ctx); err != nil {
			return err
		}
	}

	return nil
}

// updateParameterTypes substitutes the type annotation of destructured
// parameters when it names a mapped type.
func updateParameterTypes(ctx *fileContext) error {
	edits := &editSet{}

	walkTree(ctx.tree.RootNode(), func(node *sitter.Node) bool {
		if node.Type() != "required_parameter" && node.Type() != "optional_parameter" {
			return true
		}

		destructured := false
		var annotation *sitter.Node
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case "object_pattern", "array_pattern":
				destructured = true
			case "type_annotation":
				annotation = child
			}
		}
		if !destructured || annotation == nil {
			return false
		}

		for i := 0; i < int(annotation.NamedChildCount()); i++ {
			child := annotation.NamedChild(i)
			if child != nil && child.Type() == "type_identifier" {
				substituteNode(ctx, child, edits, "parameter type")
			}
		}
		return false
	})

	return ctx.commit(edits)
}

// updateTypeQueries substitutes X in typeof X expressions.
func updateTypeQueries(ctx *fileContext) error {
	edits := &editSet{}

	walkTree(ctx.tree.RootNode(), func(node *sitter.Node) bool {
		if node.Type() != "type_query" {
			return true
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child != nil && child.Type() == "identifier" {
				substituteNode(ctx, child, edits, "type query")
			}
		}
		return false
	})

	return ctx.commit(edits)
}

// updateElementTags substitutes simple JSX tag names. Qualified tags
// (Foreign.Dialog) keep a non-identifier name node and are skipped, which is
// what keeps protected namespace access intact here.
func updateElementTags(ctx *fileContext) error {
	edits := &editSet{}

	walkTree(ctx.tree.RootNode(), func(node *sitter.Node) bool {
		switch node.Type() {
		case "jsx_opening_element", "jsx_closing_element", "jsx_self_closing_element":
		default:
			return true
		}

		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child == nil {
				continue
			}
			if child.Type() == "identifier" {
				substituteNode(ctx, child, edits, "element tag")
			}
			// Only the first named child can be the tag name.
			break
		}
		return true
	})

	return ctx.commit(edits)
}

// updateTypeReferences substitutes every remaining mapped type identifier:
// annotations, generic arguments, and extends clauses all produce
// type_identifier nodes.
func updateTypeReferences(ctx *fileContext) error {
	edits := &editSet{}

	walkTree(ctx.tree.RootNode(), func(node *sitter.Node) bool {
		switch node.Type() {
		case "nested_type_identifier":
			// Qualified types (Foreign.Thing) resolve through their
			// namespace; only the namespace itself could rename, and
			// the identifier pass decides that.
			return false
		case "type_identifier":
			substituteNode(ctx, node, edits, "type reference")
			return false
		}
		return true
	})

	return ctx.commit(edits)
}

// updateIdentifiers is the catch-all: any bare identifier still matching the
// maps is substituted. Import statements are excluded; the import rewriter
// already decided what happens there.
func updateIdentifiers(ctx *fileContext) error {
	edits := &editSet{}

	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node == nil {
			return
		}

		switch node.Type() {
		case "import_statement":
			return
		case "member_expression", "nested_identifier":
			// Properties resolve through their object; only the object
			// side holds bare references.
			for i := 0; i < int(node.NamedChildCount())-1; i++ {
				visit(node.NamedChild(i))
			}
			return
		case "identifier":
			substituteNode(ctx, node, edits, "identifier")
			return
		}

		for i := 0; i < int(node.NamedChildCount()); i++ {
			visit(node.NamedChild(i))
		}
	}
	visit(ctx.tree.RootNode())

	return ctx.commit(edits)
}

// substituteNode rewrites one name node if its text is mapped and not
// protected. Already-renamed text no longer matches the map keys.
func substituteNode(ctx *fileContext, node *sitter.Node, edits *editSet, site string) {
	text := ctx.nodeText(node)
	renamed, ok := ctx.renamed(text)
	if !ok || renamed == text {
		return
	}

	edits.replace(node.StartByte(), node.EndByte(), renamed)
	ctx.logChange("updated %s %s -> %s", site, text, renamed)
}

// walkTree visits nodes depth-first. The visitor returns false to skip the
// node's subtree.
func walkTree(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walkTree(node.NamedChild(i), visit)
	}
}
