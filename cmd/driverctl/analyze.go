package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/convertstack/driver-engine/internal/engine"
	"github.com/convertstack/driver-engine/internal/ingest"
	"github.com/convertstack/driver-engine/internal/utils"
)

type analyzeOptions struct {
	insightsPath   string
	minBucketSize  int
	minTippingRate float64
	maxRows        int
	output         string
	logLevel       string
}

func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOptions{
		minBucketSize:  engine.DefaultMinBucketSize,
		minTippingRate: engine.DefaultMinTippingRate,
		logLevel:       "warn",
	}

	cmd := &cobra.Command{
		Use:   "analyze <export.csv>",
		Short: "Run the driver analysis over a CSV export and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.insightsPath, "insights", "", "Path to an insight rule pack (YAML)")
	cmd.Flags().IntVar(&opts.minBucketSize, "min-bucket", opts.minBucketSize, "Minimum users per value bucket for tipping-point detection")
	cmd.Flags().Float64Var(&opts.minTippingRate, "min-rate", opts.minTippingRate, "Minimum conversion rate a tipping jump must reach")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "Cap on rows analyzed (0 = unlimited)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "Log level (debug, info, warn, error)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, opts analyzeOptions) error {
	logger := utils.NewLogger(opts.logLevel, false, false)

	rows, err := ingest.ReadCSVFile(path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("export %s contains no data rows", path)
	}
	logger.Info("export loaded", slog.String("path", path), slog.Int("rows", len(rows)))

	insights, err := engine.NewInsightEngine(opts.insightsPath, logger)
	if err != nil {
		return fmt.Errorf("load insight rules: %w", err)
	}

	pipeline := engine.NewPipeline(logger, insights, nil, engine.Options{
		MinBucketSize:  opts.minBucketSize,
		MinTippingRate: opts.minTippingRate,
		MaxRows:        opts.maxRows,
	})

	result, err := pipeline.Analyze(cmd.Context(), rows)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')

	if opts.output != "" {
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		logger.Info("result written", slog.String("path", opts.output))
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
