package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/convertto3mf/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch [plan.yaml]",
	Short: "Convert every file listed in a YAML plan",
	Long: `Run the conversions listed in a plan file:

  jobs:
    - input: parts/bracket.stl
    - input: parts/housing.obj
      output: out/housing.3mf
      format: obj

Relative paths are resolved against the directory of the plan. Conversions
run in parallel, limited by batch.workers.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 0, "number of parallel conversions (default from batch.workers)")
	_ = v.BindPFlag("batch.workers", batchCmd.Flags().Lookup("workers"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	plan, err := batch.Load(args[0])
	if err != nil {
		return err
	}

	converter, err := newConverter()
	if err != nil {
		return err
	}

	summary, err := batch.Run(cmd.Context(), converter, plan, cfg.Batch.Workers)
	logger.Info("Batch finished",
		zap.Int("jobs", len(plan.Jobs)),
		zap.Int("failed", summary.Failed))
	if err != nil {
		return fmt.Errorf("%d of %d conversions failed: %w", summary.Failed, len(plan.Jobs), err)
	}
	return nil
}
