package transform

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransformer() *Transformer {
	return New(Options{
		Marker:           "Trailhead",
		ProtectedPackage: "react",
		TypeSuffix:       "Props",
	})
}

func TestTransform_ComponentWithPropType(t *testing.T) {
	source := `type ButtonProps = { color: string }

export function Button({ color }: ButtonProps) {
  return <button>{color}</button>
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)
	require.True(t, res.Changed)

	assert.Contains(t, res.Content, "export function TrailheadButton({ color }: TrailheadButtonProps)")
	assert.Contains(t, res.Content, "export type TrailheadButtonProps = { color: string }")
	// Intrinsic lowercase tags are never renamed.
	assert.Contains(t, res.Content, "<button>{color}</button>")
	assert.NotContains(t, res.Content, "export type ButtonProps ", "original alias name should be gone")
	assert.Empty(t, res.Warnings)
}

func TestTransform_Idempotence(t *testing.T) {
	sources := []string{
		`type ButtonProps = { color: string }

export function Button({ color }: ButtonProps) {
  return <button>{color}</button>
}
`,
		`import { Bar } from "./bar"

export function Foo() {
  return <Bar />
}
`,
		`import * as React from "react"

export const Card = React.forwardRef<HTMLDivElement, CardProps>((props, ref) => (
  <div ref={ref} {...props} />
))

export type CardProps = { title: string }
`,
		`const Toggle = () => <button />

export { Toggle }
`,
		`export * from "./button"
export { Card } from "./card"
`,
	}

	tr := newTestTransformer()
	for _, source := range sources {
		first, err := tr.Transform(source)
		require.NoError(t, err)

		second, err := tr.Transform(first.Content)
		require.NoError(t, err)

		assert.False(t, second.Changed, "re-running on transformed output must be a no-op")
		assert.Equal(t, first.Content, second.Content)
		assert.Empty(t, second.Changes)
	}
}

func TestTransform_ProtectedNamespaceImport(t *testing.T) {
	source := `import * as Foreign from "protected-pkg"

export function Dialog() {
  return <Foreign.Dialog title="hi" />
}
`

	tr := New(Options{Marker: "Trailhead", ProtectedPackage: "protected-pkg", TypeSuffix: "Props"})
	res, err := tr.Transform(source)
	require.NoError(t, err)

	// Every Foreign.* reference stays byte-identical.
	assert.Contains(t, res.Content, `import * as Foreign from "protected-pkg"`)
	assert.Contains(t, res.Content, "<Foreign.Dialog title=\"hi\" />")
	// The local export still renames.
	assert.Contains(t, res.Content, "export function TrailheadDialog()")
}

func TestTransform_ProtectedNamedImports(t *testing.T) {
	source := `import { forwardRef as fr, Fragment } from "react"

export const Button = fr((props, ref) => <button ref={ref} {...props} />)

export function List() {
  return <Fragment>{null}</Fragment>
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	assert.Contains(t, res.Content, `import { forwardRef as fr, Fragment } from "react"`)
	assert.Contains(t, res.Content, "fr((props, ref)")
	assert.Contains(t, res.Content, "<Fragment>{null}</Fragment>")
	assert.Contains(t, res.Content, "export const TrailheadButton")
	assert.Contains(t, res.Content, "export function TrailheadList()")
}

func TestTransform_ImportPathRule(t *testing.T) {
	source := `import { Bar } from "./bar"

export function Foo() {
  return <Bar />
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	assert.Contains(t, res.Content, `import { TrailheadBar } from "./trailhead-bar"`)
	assert.Contains(t, res.Content, "<TrailheadBar />")

	second, err := newTestTransformer().Transform(res.Content)
	require.NoError(t, err)
	assert.False(t, second.Changed)
}

func TestTransform_ImportAliasKeepsLocalBinding(t *testing.T) {
	source := `import { Badge as B } from "./badge"

export function Tag() {
  return <B />
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	// The imported name changes, the local alias and its uses do not.
	assert.Contains(t, res.Content, `import { TrailheadBadge as B } from "./trailhead-badge"`)
	assert.Contains(t, res.Content, "<B />")
}

func TestTransform_PackageImportsUntouched(t *testing.T) {
	source := `import { cva } from "class-variance-authority"
import { Slot } from "@radix-ui/react-slot"

export const buttonVariants = cva("inline-flex")

export function Button() {
  return <Slot />
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	// Non-relative imports keep their path and specifiers.
	assert.Contains(t, res.Content, `import { cva } from "class-variance-authority"`)
	assert.Contains(t, res.Content, `import { Slot } from "@radix-ui/react-slot"`)
	// Lowercase helper exports never rename.
	assert.Contains(t, res.Content, "export const buttonVariants = cva(")
	assert.Contains(t, res.Content, "export function TrailheadButton()")
}

func TestTransform_TypeQuery(t *testing.T) {
	source := `export const Button = () => <button />

export type ButtonElement = typeof Button
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	assert.Contains(t, res.Content, "export const TrailheadButton = ()")
	assert.Contains(t, res.Content, "typeof TrailheadButton")
}

func TestTransform_ForwardRefComponent(t *testing.T) {
	source := `import * as React from "react"

export interface InputProps extends React.ComponentProps<"input"> {
  label?: string
}

export const Input = React.forwardRef<HTMLInputElement, InputProps>(
  ({ label, ...props }, ref) => <input ref={ref} {...props} />
)

Input.displayName = "Input"
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	assert.Contains(t, res.Content, "export const TrailheadInput = React.forwardRef<HTMLInputElement, TrailheadInputProps>")
	assert.Contains(t, res.Content, "export interface TrailheadInputProps extends React.ComponentProps<\"input\">")
	// Qualified access through the protected namespace is untouched.
	assert.Contains(t, res.Content, "React.forwardRef")
	// The member object renames, the string literal does not.
	assert.Contains(t, res.Content, `TrailheadInput.displayName = "Input"`)
}

func TestTransform_ExportClauseComponent(t *testing.T) {
	source := `import * as React from "react"

type ToggleProps = { pressed: boolean }

const Toggle = React.forwardRef<HTMLButtonElement, ToggleProps>((props, ref) => (
  <button ref={ref} aria-pressed={props.pressed} />
))

export { Toggle }
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)
	require.True(t, res.Changed)

	assert.Contains(t, res.Content, "const TrailheadToggle = React.forwardRef<HTMLButtonElement, TrailheadToggleProps>")
	assert.Contains(t, res.Content, "export { TrailheadToggle }")
	assert.Contains(t, res.Content, "export type TrailheadToggleProps = { pressed: boolean }")
	assert.NotContains(t, res.Content, "export { Toggle }")
}

func TestTransform_ExportClauseAliasAndHelper(t *testing.T) {
	source := `const Badge = () => <span />

function variant(name: string) {
  return name
}

export { Badge as Chip, variant }
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	// The declaration and the local side of the specifier rename together;
	// the published alias and the helper keep their spelling.
	assert.Contains(t, res.Content, "const TrailheadBadge = () => <span />")
	assert.Contains(t, res.Content, "export { TrailheadBadge as Chip, variant }")
	assert.Contains(t, res.Content, "function variant(name: string)")
}

func TestTransform_BarrelReexports(t *testing.T) {
	source := `export * from "./button"
export { Card } from "./card"
export { Dialog as Modal } from "./dialog"
export { VERSION } from "pkg-meta"
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)
	require.True(t, res.Changed)

	assert.Contains(t, res.Content, `export * from "./trailhead-button"`)
	assert.Contains(t, res.Content, `export { TrailheadCard } from "./trailhead-card"`)
	assert.Contains(t, res.Content, `export { TrailheadDialog as Modal } from "./trailhead-dialog"`)
	// Package re-exports are never touched.
	assert.Contains(t, res.Content, `export { VERSION } from "pkg-meta"`)
}

func TestTransform_UnexportedPropTypeGetsExported(t *testing.T) {
	source := `interface CardProps {
  title: string
}

export function Card({ title }: CardProps) {
  return <div>{title}</div>
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	assert.Contains(t, res.Content, "export interface TrailheadCardProps")
	assert.Contains(t, res.Content, "export function TrailheadCard({ title }: TrailheadCardProps)")
}

func TestTransform_UnpairedPropTypeWarns(t *testing.T) {
	source := `type CardProps = { title: string }

export function Button() {
  return <button />
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	// Pairing is a name heuristic; a miss warns and never fails.
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "CardProps")
	assert.Contains(t, res.Content, "type CardProps = { title: string }")
}

func TestTransform_NonExportedHelpersUntouched(t *testing.T) {
	source := `function useThing() {
  return 1
}

const Internal = () => <div />

export function Widget() {
  return <Internal />
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	assert.Contains(t, res.Content, "function useThing()")
	assert.Contains(t, res.Content, "const Internal = ()")
	assert.Contains(t, res.Content, "<Internal />")
	assert.Contains(t, res.Content, "export function TrailheadWidget()")
}

func TestTransform_AlreadyMarkedIsNoop(t *testing.T) {
	source := `import { TrailheadBar } from "./trailhead-bar"

export type TrailheadButtonProps = { color: string }

export function TrailheadButton({ color }: TrailheadButtonProps) {
  return <TrailheadBar color={color} />
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, source, res.Content)
}

func TestTransform_ParseError(t *testing.T) {
	source := `export function Button() {
  return <button
}
`

	res, err := newTestTransformer().Transform(source)
	require.Error(t, err)
	assert.Nil(t, res)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Greater(t, parseErr.Line, 0)
}

func TestTransform_ChangedFlagFalseWithoutEdits(t *testing.T) {
	source := `const helper = (a: number) => a * 2

export default helper
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, source, res.Content)
}

func TestTransform_ConcurrentInvocations(t *testing.T) {
	source := `export function Button() {
  return <button />
}
`

	tr := newTestTransformer()
	want, err := tr.Transform(source)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := tr.Transform(source)
			if err != nil || res.Content != want.Content {
				t.Errorf("concurrent transform diverged: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestTransform_DefaultOptions(t *testing.T) {
	tr := New(Options{})
	opts := tr.Options()

	assert.Equal(t, "Trailhead", opts.Marker)
	assert.Equal(t, "react", opts.ProtectedPackage)
	assert.Equal(t, "Props", opts.TypeSuffix)
}

func TestTransform_ChangeLogOrder(t *testing.T) {
	source := `type ButtonProps = { color: string }

export function Button({ color }: ButtonProps) {
  return <button>{color}</button>
}
`

	res, err := newTestTransformer().Transform(source)
	require.NoError(t, err)
	require.NotEmpty(t, res.Changes)

	// The export rename always precedes its prop-type rename.
	exportIdx, typeIdx := -1, -1
	for i, change := range res.Changes {
		if strings.Contains(change, "renamed export Button") {
			exportIdx = i
		}
		if strings.Contains(change, "renamed prop type ButtonProps") {
			typeIdx = i
		}
	}
	require.GreaterOrEqual(t, exportIdx, 0)
	require.GreaterOrEqual(t, typeIdx, 0)
	assert.Less(t, exportIdx, typeIdx)
}
