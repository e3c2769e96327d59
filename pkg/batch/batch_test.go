package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead-diy/retrofit/pkg/transform"
)

const buttonSource = `type ButtonProps = { color: string }

export function Button({ color }: ButtonProps) {
  return <button>{color}</button>
}
`

const helperSource = `export function formatLabel(label: string) {
  return label.trim()
}
`

const brokenSource = `export function Broken() {
  return <button
}
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestRunner(useCache bool) *Runner {
	return NewRunner(Options{
		Transform: transform.Options{
			Marker:           "Trailhead",
			ProtectedPackage: "react",
			TypeSuffix:       "Props",
		},
		Workers:  2,
		UseCache: useCache,
	})
}

func TestRunner_Run(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	writeFile(t, src, "button.tsx", buttonSource)
	writeFile(t, src, "lib/format.ts", helperSource)
	writeFile(t, src, "broken.tsx", brokenSource)

	summary, err := newTestRunner(false).Run(src, dest)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 1, summary.Failed)

	// Output files carry the canonical marker name.
	data, err := os.ReadFile(filepath.Join(dest, "trailhead-button.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "export function TrailheadButton")

	// Unchanged helpers are still installed, under the canonical name.
	_, err = os.Stat(filepath.Join(dest, "lib", "trailhead-format.ts"))
	assert.NoError(t, err)

	// A failing file produces no output and never aborts the batch.
	_, err = os.Stat(filepath.Join(dest, "trailhead-broken.tsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_DryRun(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	writeFile(t, src, "button.tsx", buttonSource)

	runner := NewRunner(Options{
		Transform: transform.Options{Marker: "Trailhead"},
		DryRun:    true,
	})

	summary, err := runner.Run(src, dest)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Changed)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry run must not write files")
}

func TestRunner_CacheReuse(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	writeFile(t, src, "button.tsx", buttonSource)
	writeFile(t, src, "card.tsx", `export function Card() {
  return <div />
}
`)

	first, err := newTestRunner(true).Run(src, dest)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)

	second, err := newTestRunner(true).Run(src, dest)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)

	// Cached and fresh results must agree.
	assert.Equal(t, first.Changed, second.Changed)
}

func TestResultCache_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".retrofit", "cache.msgpack")

	c := OpenResultCache(path)
	res := &transform.Result{Content: "x", Changed: true, Warnings: []string{"w"}}
	key := Key("source", transform.Options{Marker: "Trailhead"})
	c.Put(key, res)
	require.NoError(t, c.Save())

	reopened := OpenResultCache(path)
	got, ok := reopened.Get(key)
	require.True(t, ok)
	assert.Equal(t, res.Content, got.Content)
	assert.Equal(t, res.Changed, got.Changed)
	assert.Equal(t, res.Warnings, got.Warnings)
}

func TestResultCache_CorruptFileIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.msgpack")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0644))

	c := OpenResultCache(path)
	assert.Equal(t, 0, c.Len())
}

func TestKey_DependsOnOptions(t *testing.T) {
	a := Key("source", transform.Options{Marker: "Trailhead"})
	b := Key("source", transform.Options{Marker: "Acme"})
	c := Key("other", transform.Options{Marker: "Trailhead"})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDestPath(t *testing.T) {
	assert.Equal(t, "trailhead-button.tsx", destPath("Trailhead", "button.tsx"))
	assert.Equal(t, "ui/trailhead-card.tsx", destPath("Trailhead", "ui/card.tsx"))
	assert.Equal(t, "trailhead-button.tsx", destPath("Trailhead", "trailhead-button.tsx"))
}
