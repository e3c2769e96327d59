package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/trailhead-diy/retrofit/internal/config"
	"github.com/trailhead-diy/retrofit/internal/log"
	"github.com/trailhead-diy/retrofit/pkg/transform"
)

// transformCmd represents the transform command
var transformCmd = &cobra.Command{
	Use:   "transform [file]",
	Short: "Transform a single component module",
	Long: `Runs the rename engine over one component module and prints the
transformed source to stdout. Use "-" to read from stdin. On a parse or
transform error the original file is left untouched and the command exits
non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("output")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return runTransform(args[0], outPath, jsonOutput)
	},
}

func init() {
	transformCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	transformCmd.Flags().BoolP("json", "j", false, "Output full result as JSON")
}

func runTransform(path, outPath string, jsonOutput bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var source []byte
	if path == "-" {
		source, err = io.ReadAll(os.Stdin)
	} else {
		source, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	t := transform.New(transform.Options{
		Marker:           cfg.Marker,
		ProtectedPackage: cfg.ProtectedPackage,
		TypeSuffix:       cfg.TypeSuffix,
	})

	res, err := t.Transform(string(source))
	if err != nil {
		var parseErr *transform.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("%s: %w", path, parseErr)
		}
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, w := range res.Warnings {
		log.Default().Warn(w, "file", path)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(res.Content), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		log.Default().Info("transformed", "file", path, "output", outPath, "changed", res.Changed)
		return nil
	}

	fmt.Print(res.Content)
	return nil
}
