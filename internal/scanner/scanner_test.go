package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func scanPaths(t *testing.T, root string) map[string]bool {
	t.Helper()
	files, err := New(DefaultOptions()).Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	paths := make(map[string]bool)
	for _, f := range files {
		paths[f.Path] = true
	}
	return paths
}

func TestScan_ComponentFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "button.tsx", "export {}")
	writeFile(t, root, "use-toast.ts", "export {}")
	writeFile(t, root, "types.d.ts", "declare module 'x'")
	writeFile(t, root, "styles.css", "body {}")
	writeFile(t, root, "README.md", "# readme")

	paths := scanPaths(t, root)

	if !paths["button.tsx"] {
		t.Error("expected button.tsx to be found")
	}
	if !paths["use-toast.ts"] {
		t.Error("expected use-toast.ts to be found")
	}
	if paths["types.d.ts"] {
		t.Error("declaration files should be skipped")
	}
	if paths["styles.css"] || paths["README.md"] {
		t.Error("non-component files should be skipped")
	}
}

func TestScan_DefaultExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "button.tsx", "export {}")
	writeFile(t, root, "node_modules/react/index.ts", "export {}")
	writeFile(t, root, "dist/button.tsx", "export {}")

	paths := scanPaths(t, root)

	if len(paths) != 1 || !paths["button.tsx"] {
		t.Errorf("expected only button.tsx, got %v", paths)
	}
}

func TestScan_HiddenSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "card.tsx", "export {}")
	writeFile(t, root, ".hidden/secret.tsx", "export {}")
	writeFile(t, root, ".hidden.tsx", "export {}")

	paths := scanPaths(t, root)

	if len(paths) != 1 || !paths["card.tsx"] {
		t.Errorf("expected only card.tsx, got %v", paths)
	}
}

func TestScan_IgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".retrofitignore", "stories/\n*.test.tsx\n")
	writeFile(t, root, "button.tsx", "export {}")
	writeFile(t, root, "button.test.tsx", "export {}")
	writeFile(t, root, "stories/button.tsx", "export {}")

	paths := scanPaths(t, root)

	if !paths["button.tsx"] {
		t.Error("expected button.tsx to be found")
	}
	if paths["button.test.tsx"] {
		t.Error("*.test.tsx should be ignored")
	}
	if paths["stories/button.tsx"] {
		t.Error("stories/ should be ignored")
	}
}

func TestScan_NegationPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".retrofitignore", "*.tsx\n!keep.tsx\n")
	writeFile(t, root, "drop.tsx", "export {}")
	writeFile(t, root, "keep.tsx", "export {}")

	paths := scanPaths(t, root)

	if paths["drop.tsx"] {
		t.Error("drop.tsx should be ignored")
	}
	if !paths["keep.tsx"] {
		t.Error("keep.tsx should be re-included by negation")
	}
}

func TestIsComponentFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"button.tsx", true},
		{"use-toast.ts", true},
		{"types.d.ts", false},
		{"index.js", false},
		{"style.css", false},
	}

	for _, tt := range tests {
		if got := IsComponentFile(tt.path); got != tt.want {
			t.Errorf("IsComponentFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
