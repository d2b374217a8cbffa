package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"homescout/config"
	"homescout/httputil"
	"homescout/identity"
	"homescout/logging"
	"homescout/scheduler"
	"homescout/scraper"
	"homescout/storage"
)

var (
	inputPath  = flag.String("input", "", "Path to the locations file (overrides INPUT_PATH)")
	outputPath = flag.String("output", "", "Path to the output dataset (overrides OUTPUT_PATH)")
	daemon     = flag.Bool("daemon", false, "Keep running and re-crawl on SCRAPE_CRON")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *inputPath != "" {
		cfg.InputPath = *inputPath
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}
	logging.SetLevel(cfg.LogLevel)

	locations, err := readLocations(cfg.InputPath)
	if err != nil {
		log.Fatalf("Error: %s file not found: %v", cfg.InputPath, err)
	}
	log.Printf("Found %d locations to process", len(locations))
	log.Printf("Price filtering enabled: only saving properties worth $%.0f or more", cfg.PriceThreshold)

	dataset := storage.NewDatasetStore(cfg.OutputPath, cfg.DedupStrategy)
	dataset.Load()

	client := httputil.NewScrapingClient(cfg.RequestTimeout)
	fetcher := scraper.NewFetcher(client, identity.RandomHeaders, cfg.MaxRetries, cfg.RetryDelay)
	orch := scraper.NewOrchestrator(cfg, fetcher, dataset)

	if cfg.RunsDBPath != "" {
		runs, err := storage.NewRunStore(cfg.RunsDBPath)
		if err != nil {
			log.Printf("Warning: run history disabled, could not open %s: %v", cfg.RunsDBPath, err)
		} else {
			defer runs.Close()
			orch.SetRunStore(runs)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DatabaseURL != "" {
		sink, err := storage.NewPostgresSink(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Postgres sink disabled: %v", err)
		} else {
			defer sink.Close()
			orch.SetSink(sink)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Scraping interrupted by user")
		cancel()
	}()

	if *daemon && cfg.Cron == "" {
		log.Println("Warning: -daemon requires SCRAPE_CRON, running once instead")
	}
	if *daemon && cfg.Cron != "" {
		sched := scheduler.New(orch, locations)
		if err := sched.Start(ctx, cfg.Cron); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		log.Println("Daemon running. Press Ctrl+C to stop.")
		<-ctx.Done()
		sched.Stop()
		log.Println("Goodbye!")
		return
	}

	run(ctx, orch, locations)
	log.Printf("Total records scraped: %d", dataset.Len())
}

// run executes one full crawl. A panic escaping the driver is logged with
// its stack trace before the process terminates abnormally.
func run(ctx context.Context, orch *scraper.Orchestrator, locations []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Unexpected error: %v", r)
			log.Printf("Stack trace: %s", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := orch.RunAll(ctx, locations); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("Error in main run: %v", err)
	}
}

// readLocations loads the input file, one location per line, skipping
// blank lines. A missing file is the one fatal startup condition.
func readLocations(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var locations []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			locations = append(locations, line)
		}
	}
	return locations, nil
}
