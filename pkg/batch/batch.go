// Package batch drives the rename engine over a directory of vendored
// component modules. Every file is an independent transform invocation, so
// the work is spread across a worker pool with no shared transform state.
// Output files are written under the canonical marker file name, the same
// rule the engine applies to rewritten import paths.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/trailhead-diy/retrofit/internal/scanner"
	"github.com/trailhead-diy/retrofit/pkg/transform"
)

// Options configures a batch run.
type Options struct {
	// Transform is passed through to every engine invocation.
	Transform transform.Options

	// Workers is the pool size. Zero means one worker per CPU.
	Workers int

	// DryRun computes results without writing any output file.
	DryRun bool

	// UseCache enables the persisted result cache under the
	// destination's .retrofit directory.
	UseCache bool
}

// FileResult records the outcome for one source file.
type FileResult struct {
	Source   string   `json:"source"`
	Dest     string   `json:"dest,omitempty"`
	Changed  bool     `json:"changed"`
	CacheHit bool     `json:"cache_hit,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Err      string   `json:"error,omitempty"`
}

// Summary aggregates a whole run. A failed file never aborts the batch; it
// is counted and reported here.
type Summary struct {
	Processed int          `json:"processed"`
	Changed   int          `json:"changed"`
	Unchanged int          `json:"unchanged"`
	Failed    int          `json:"failed"`
	CacheHits int          `json:"cache_hits"`
	Files     []FileResult `json:"files"`
}

// Runner executes batch transforms.
type Runner struct {
	opts        Options
	transformer *transform.Transformer
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	transformer := transform.New(opts.Transform)
	// Keep cache keys and destination names in sync with the engine's
	// defaulted options.
	opts.Transform = transformer.Options()
	return &Runner{
		opts:        opts,
		transformer: transformer,
	}
}

// Run transforms every component module under srcDir and writes the results
// under destDir with canonical file names. Relative directory structure is
// preserved.
func (r *Runner) Run(srcDir, destDir string) (*Summary, error) {
	sc := scanner.New(scanner.DefaultOptions())
	files, err := sc.Scan(srcDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", srcDir, err)
	}

	var cache *ResultCache
	if r.opts.UseCache {
		cache = OpenResultCache(filepath.Join(destDir, ".retrofit", "cache.msgpack"))
	}

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	jobs := make(chan scanner.FileInfo)
	results := make([]FileResult, 0, len(files))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				res := r.processFile(file, destDir, cache)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)
	wg.Wait()

	if cache != nil {
		// Cache persistence failures do not fail the run.
		_ = cache.Save()
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Source < results[j].Source })

	summary := &Summary{Files: results}
	for _, res := range results {
		summary.Processed++
		switch {
		case res.Err != "":
			summary.Failed++
		case res.Changed:
			summary.Changed++
		default:
			summary.Unchanged++
		}
		if res.CacheHit {
			summary.CacheHits++
		}
	}

	return summary, nil
}

// processFile transforms one file. Errors are captured in the result so the
// batch continues past a bad file with its original left untouched.
func (r *Runner) processFile(file scanner.FileInfo, destDir string, cache *ResultCache) FileResult {
	out := FileResult{Source: file.Path}

	data, err := os.ReadFile(file.FullPath)
	if err != nil {
		out.Err = fmt.Sprintf("reading file: %v", err)
		return out
	}
	source := string(data)

	var res *transform.Result
	var key string
	if cache != nil {
		key = Key(source, r.opts.Transform)
		if cached, ok := cache.Get(key); ok {
			res = cached
			out.CacheHit = true
		}
	}

	if res == nil {
		res, err = r.transformer.Transform(source)
		if err != nil {
			out.Err = err.Error()
			return out
		}
		if cache != nil {
			cache.Put(key, res)
		}
	}

	out.Changed = res.Changed
	out.Warnings = res.Warnings
	out.Dest = destPath(r.opts.Transform.Marker, file.Path)

	if r.opts.DryRun {
		return out
	}

	full := filepath.Join(destDir, filepath.FromSlash(out.Dest))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		out.Err = fmt.Sprintf("creating output directory: %v", err)
		return out
	}
	if err := os.WriteFile(full, []byte(res.Content), 0644); err != nil {
		out.Err = fmt.Sprintf("writing output: %v", err)
		return out
	}

	return out
}

// destPath maps a source-relative path to its canonical destination path.
// This must stay in lockstep with the engine's import-path rewriting, which
// is why both defer to transform.CanonicalFileName.
func destPath(marker string, relPath string) string {
	dir, base := filepath.Split(filepath.ToSlash(relPath))
	return dir + transform.CanonicalFileName(marker, base)
}
