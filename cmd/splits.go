package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AirLabUR/MSOC/configs"
	"github.com/AirLabUR/MSOC/internal/dataset"
	"github.com/AirLabUR/MSOC/internal/manifest"
	"github.com/AirLabUR/MSOC/pkg/logging"
)

// splitsCmd represents the splits command
var splitsCmd = &cobra.Command{
	Use:   "splits",
	Short: "Partition the manifest and display split composition",
	Long: `Load the dataset manifest, apply the configured partition policy, and
display per-split counts broken down by category and method.

Examples:
  # Stratified policy
  msoc-data --root /data/FakeAVCeleb_v1.2 splits

  # Original fold-file protocol
  msoc-data --root /data/FakeAVCeleb_v1.2 splits --dataset-type original --train-fold train_1.txt`,
	RunE: runSplits,
}

func init() {
	rootCmd.AddCommand(splitsCmd)

	splitsCmd.Flags().String("dataset-type", "", `partition policy ("original" or "new")`)
	splitsCmd.Flags().String("train-fold", "", "train fold id allowlist file (original policy only)")
	splitsCmd.Flags().Int64("seed", 0, "partition seed")
}

func runSplits(cmd *cobra.Command, args []string) error {
	config, err := loadPipelineConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(config.LogLevel)
	module, err := dataset.NewModule(config, logger)
	if err != nil {
		return fmt.Errorf("failed to build data module: %w", err)
	}

	splits := module.Splits()

	fmt.Printf("MANIFEST SPLITS (%s policy, seed %d)\n", config.Data.DatasetType, config.Data.Seed)
	fmt.Println(strings.Repeat("=", 60))

	printSplit("TRAIN", splits.Train)
	printSplit("VAL", splits.Val)
	printSplit("TEST", splits.Test)

	return nil
}

func printSplit(name string, rows []manifest.Row) {
	fmt.Printf("\n%s (%d rows)\n", name, len(rows))
	fmt.Println(strings.Repeat("-", 60))
	if len(rows) == 0 {
		fmt.Println("  (empty)")
		return
	}

	byCategory := make(map[string]int)
	byMethod := make(map[string]int)
	var categories, methods []string
	for _, row := range rows {
		if byCategory[row.Category] == 0 {
			categories = append(categories, row.Category)
		}
		byCategory[row.Category]++
		if byMethod[row.Method] == 0 {
			methods = append(methods, row.Method)
		}
		byMethod[row.Method]++
	}

	for _, category := range categories {
		fmt.Printf("  category %-18s %d\n", category, byCategory[category])
	}
	for _, method := range methods {
		fmt.Printf("  method   %-18s %d\n", method, byMethod[method])
	}
}

// loadPipelineConfig merges subcommand flags over the viper configuration
func loadPipelineConfig(cmd *cobra.Command) (*configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if flag := cmd.Flags().Lookup("dataset-type"); flag != nil && flag.Changed {
		config.Data.DatasetType = flag.Value.String()
	}
	if flag := cmd.Flags().Lookup("train-fold"); flag != nil && flag.Changed {
		config.Data.TrainFold = flag.Value.String()
	}
	if flag := cmd.Flags().Lookup("seed"); flag != nil && flag.Changed {
		seed, err := cmd.Flags().GetInt64("seed")
		if err != nil {
			return nil, err
		}
		config.Data.Seed = seed
	}

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
