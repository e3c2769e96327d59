package transform

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// mapTypeAliases pairs renamed components with their prop-type declarations
// using the conventional name suffix (ButtonProps for Button). Matched
// declarations are renamed with the same marker rule and exported if they
// were not already, since a renamed component's prop type is part of the
// public surface.
//
// The pairing is a pure name heuristic. A suffixed type whose base name is
// not a mapped component only produces a warning; nothing here fails hard.
func mapTypeAliases(ctx *fileContext) error {
	edits := &editSet{}
	root := ctx.tree.RootNode()
	found := make(map[string]struct{})

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil {
			continue
		}

		switch stmt.Type() {
		case "type_alias_declaration", "interface_declaration":
			mapTypeDeclaration(ctx, stmt, false, edits, found)
		case "export_statement":
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				decl := stmt.NamedChild(j)
				if decl == nil {
					continue
				}
				if decl.Type() == "type_alias_declaration" || decl.Type() == "interface_declaration" {
					mapTypeDeclaration(ctx, decl, true, edits, found)
				}
			}
		}
	}

	// Components without a local prop-type declaration still get a
	// synthesized map entry, so references to a conventionally named type
	// defined elsewhere substitute correctly.
	for comp := range ctx.nameMap {
		alias := comp + ctx.opts.TypeSuffix
		if _, ok := found[alias]; ok {
			continue
		}
		ctx.mapType(alias, CanonicalName(ctx.opts.Marker, alias))
	}

	return ctx.commit(edits)
}

// mapTypeDeclaration inspects one type alias or interface declaration.
func mapTypeDeclaration(ctx *fileContext, decl *sitter.Node, exported bool, edits *editSet, found map[string]struct{}) {
	name := typeDeclarationName(decl)
	if name == nil {
		return
	}

	text := ctx.nodeText(name)
	if strings.HasPrefix(text, ctx.opts.Marker) {
		return
	}
	if !strings.HasSuffix(text, ctx.opts.TypeSuffix) || text == ctx.opts.TypeSuffix {
		return
	}

	base := strings.TrimSuffix(text, ctx.opts.TypeSuffix)
	if _, ok := ctx.nameMap[base]; !ok {
		if isComponentName(base) {
			ctx.logWarning("prop type %s has no matching component export; left unchanged", text)
		}
		return
	}

	renamed := CanonicalName(ctx.opts.Marker, text)
	edits.replace(name.StartByte(), name.EndByte(), renamed)
	ctx.mapType(text, renamed)
	found[text] = struct{}{}
	ctx.logChange("renamed prop type %s -> %s", text, renamed)

	if !exported {
		edits.insert(decl.StartByte(), "export ")
		ctx.logChange("exported prop type %s", renamed)
	}
}

// typeDeclarationName returns the name node of a type alias or interface.
func typeDeclarationName(decl *sitter.Node) *sitter.Node {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child != nil && child.Type() == "type_identifier" {
			return child
		}
	}
	return nil
}
