package transform

// Result is the outcome of one successful transform.
type Result struct {
	// Content is the full transformed source.
	Content string `json:"content"`
	// Changed is true iff at least one edit was applied.
	Changed bool `json:"changed"`
	// Changes lists every edit in application order.
	Changes []string `json:"changes,omitempty"`
	// Warnings lists non-fatal ambiguities, such as a prop type that
	// could not be paired with a component.
	Warnings []string `json:"warnings,omitempty"`
}

// emit serializes the final tree state back into a Result. Edits were
// spliced directly into the source text, so everything the phases did not
// touch is byte-identical to the input.
func emit(ctx *fileContext) *Result {
	return &Result{
		Content:  string(ctx.source),
		Changed:  ctx.applied > 0,
		Changes:  ctx.changes,
		Warnings: ctx.warnings,
	}
}
