// Command checksheet verifies that the configured data source is reachable
// and lists the tabs of the configured resource.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"poolpower-site/internal/logger"
	"poolpower-site/internal/source"
	"poolpower-site/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", store.ConfigPath(), "path to config file")
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Shutdown(context.Background()) }()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout())
	defer cancel()

	src, err := source.New(ctx, cfg)
	if err != nil {
		fmt.Printf("Error creating %s source: %v\n", cfg.Source.Kind, err)
		return 1
	}

	resource := cfg.Resource()
	tabs, err := src.ListTabs(ctx, resource)
	if err != nil {
		fmt.Printf("Error opening %q: %v\n", resource, err)
		return 1
	}

	fmt.Printf("Successfully opened %q via %s\n", resource, src.Name())
	if len(tabs) == 0 {
		fmt.Println("No tabs listed (single-sheet resource)")
		return 0
	}
	fmt.Println("Tabs:")
	for _, t := range tabs {
		marker := " "
		if t == cfg.Source.TabName {
			marker = "*"
		}
		fmt.Printf(" %s %s\n", marker, t)
	}
	return 0
}
