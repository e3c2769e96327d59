package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/trailhead-diy/retrofit/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a retrofit config file interactively",
	Long: `Guides you through retrofit configuration and writes
.retrofit/config.yaml in the current directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	cfg := config.DefaultConfig()
	workers := strconv.Itoa(cfg.Workers)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Marker prefix").
				Description("Prefix applied to renamed components and prop types").
				Placeholder(cfg.Marker).
				Value(&cfg.Marker),
			huh.NewInput().
				Title("Protected package").
				Description("Imports from this package are never renamed").
				Placeholder(cfg.ProtectedPackage).
				Value(&cfg.ProtectedPackage),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Source directory").
				Description("Where the vendored components live").
				Placeholder(cfg.SourceDir).
				Value(&cfg.SourceDir),
			huh.NewInput().
				Title("Output directory").
				Description("Where transformed components are written").
				Placeholder(cfg.OutputDir).
				Value(&cfg.OutputDir),
			huh.NewInput().
				Title("Workers").
				Description("Batch parallelism (0 = one per CPU)").
				Value(&workers),
			huh.NewConfirm().
				Title("Enable result cache?").
				Value(&cfg.Cache),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	if n, err := strconv.Atoi(workers); err == nil {
		cfg.Workers = n
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	path := config.ProjectConfigFilePath()
	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
