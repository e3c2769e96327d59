package commands

import (
	"github.com/spf13/cobra"

	"github.com/trailhead-diy/retrofit/internal/log"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "retrofit",
	Short: "retrofit - rename vendored UI components behind a marker prefix",
	Long: `retrofit rewrites a vendored UI component library so its exports,
prop types, and cross-file imports carry a fixed marker prefix and can
coexist with consumer code after installation.

Commands:
  transform   Transform a single component module
  apply       Transform a whole directory of component modules
  init        Create a retrofit config file interactively
  doctor      Check config, grammar, and output directory

Use "retrofit [command] --help" for more information about a command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.Default().SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	RootCmd.AddCommand(transformCmd)
	RootCmd.AddCommand(applyCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(doctorCmd)
}
