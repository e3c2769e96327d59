package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailhead-diy/retrofit/internal/config"
	"github.com/trailhead-diy/retrofit/internal/healthcheck"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config, grammar, and output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loadErr := config.Load()

		result := healthcheck.Check(cfg, loadErr)
		for _, check := range result.Checks {
			if check.Status == "ok" {
				fmt.Printf("  ok    %-8s %s\n", check.Name, check.Detail)
			} else {
				fmt.Printf("  FAIL  %-8s %s\n", check.Name, check.Error)
			}
		}

		if !result.Healthy() {
			return fmt.Errorf("environment is not healthy")
		}
		fmt.Println("All checks passed")
		return nil
	},
}
