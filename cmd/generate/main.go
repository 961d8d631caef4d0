package main

import (
	"context"
	"fmt"
	"os"

	"poolpower-site/internal/generator"
	"poolpower-site/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return generator.StatusFatal.ExitCode()
	}
	defer shutdownSystem()

	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		logger.Outcome(ctx, generator.StatusFatal.String(), generator.StatusFatal.ExitCode(), "error", err)
		return generator.StatusFatal.ExitCode()
	}

	compressOldBuildLogs(ctx, cfg)

	src, err := initializeSource(ctx, cfg)
	if err != nil {
		logger.Outcome(ctx, generator.StatusFatal.String(), generator.StatusFatal.ExitCode(), "error", err)
		return generator.StatusFatal.ExitCode()
	}

	res := generator.New(src, generator.SettingsFromConfig(cfg)).Run(ctx)

	fields := []any{
		"total_rows", res.TotalRows,
		"active_deals", res.ActiveDeals,
		"warnings", len(res.Warnings),
	}
	if res.OutputPath != "" {
		fields = append(fields, "output_path", res.OutputPath)
	}
	if res.Err != nil {
		fields = append(fields, "error", res.Err)
	}
	logger.Outcome(ctx, res.Status.String(), res.Status.ExitCode(), fields...)

	return res.Status.ExitCode()
}
