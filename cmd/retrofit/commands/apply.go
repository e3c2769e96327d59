package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailhead-diy/retrofit/internal/config"
	"github.com/trailhead-diy/retrofit/internal/log"
	"github.com/trailhead-diy/retrofit/pkg/batch"
	"github.com/trailhead-diy/retrofit/pkg/transform"
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply [source-dir] [dest-dir]",
	Short: "Transform a whole directory of component modules",
	Long: `Walks the source directory, transforms every .ts/.tsx component
module, and writes the results into the destination directory under the
canonical marker file names. Failing files are reported and skipped; the
batch always continues.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		srcDir := cfg.SourceDir
		destDir := cfg.OutputDir
		if len(args) > 0 {
			srcDir = args[0]
		}
		if len(args) > 1 {
			destDir = args[1]
		}

		workers, _ := cmd.Flags().GetInt("workers")
		if workers == 0 {
			workers = cfg.Workers
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		return runApply(cfg, srcDir, destDir, workers, dryRun, noCache, jsonOutput)
	},
}

func init() {
	applyCmd.Flags().IntP("workers", "w", 0, "Worker pool size (0 = one per CPU)")
	applyCmd.Flags().Bool("dry-run", false, "Compute results without writing files")
	applyCmd.Flags().Bool("no-cache", false, "Disable the result cache")
	applyCmd.Flags().BoolP("json", "j", false, "Output summary as JSON")
}

func runApply(cfg *config.Config, srcDir, destDir string, workers int, dryRun, noCache, jsonOutput bool) error {
	runner := batch.NewRunner(batch.Options{
		Transform: transform.Options{
			Marker:           cfg.Marker,
			ProtectedPackage: cfg.ProtectedPackage,
			TypeSuffix:       cfg.TypeSuffix,
		},
		Workers:  workers,
		DryRun:   dryRun,
		UseCache: cfg.Cache && !noCache && !dryRun,
	})

	var spinner *log.ProgressSpinner
	if !jsonOutput {
		spinner = log.NewProgressSpinner(fmt.Sprintf("Transforming %s...", srcDir))
		spinner.Start()
	}

	summary, err := runner.Run(srcDir, destDir)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		printSummary(summary, dryRun)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Processed)
	}
	return nil
}

func printSummary(summary *batch.Summary, dryRun bool) {
	logger := log.Default()

	for _, file := range summary.Files {
		if file.Err != "" {
			logger.Error("skipped", "file", file.Source, "error", file.Err)
			continue
		}
		for _, w := range file.Warnings {
			logger.Warn(w, "file", file.Source)
		}
		logger.Debug("processed", "file", file.Source, "dest", file.Dest, "changed", file.Changed, "cache", file.CacheHit)
	}

	verb := "Transformed"
	if dryRun {
		verb = "Would transform"
	}
	fmt.Printf("%s %d files: %d changed, %d unchanged, %d failed",
		verb, summary.Processed, summary.Changed, summary.Unchanged, summary.Failed)
	if summary.CacheHits > 0 {
		fmt.Printf(" (%d from cache)", summary.CacheHits)
	}
	fmt.Println()
}
