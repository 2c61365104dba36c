// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/opsgrid/faultline"
	"github.com/opsgrid/faultline/config"
	"github.com/opsgrid/faultline/ingestion"
	"github.com/opsgrid/faultline/search"
	"github.com/opsgrid/faultline/tabular"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "faultline",
		Usage: "Network incident ingestion and hybrid search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest an incident batch file (csv, xlsx) into both stores",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "index-retries",
						Usage: "Extra full-batch attempts when documents fail to index",
						Value: 1,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search past incidents",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (hybrid, vector, keyword)",
						Value: "hybrid",
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Number of results (overrides config)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask for a resolution suggestion based on similar past incidents",
				ArgsUsage: "<question>",
				Action:    askCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) error {
	// A missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openSystem(ctx context.Context, c *cli.Context) (*faultline.System, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	system, err := faultline.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	return system, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: faultline ingest <file>")
	}
	path := c.Args().First()

	ctx := context.Background()

	batch, err := tabular.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	system, err := openSystem(ctx, c)
	if err != nil {
		return err
	}
	defer system.Close()

	pipeline, err := system.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	// A run is idempotent end to end: reconciliation turns repeats into
	// updates and the bulk upsert overwrites by incident_id, so index
	// failures are repaired by simply running the batch again. The embedding
	// cache keeps repeat runs from re-paying the embedding service.
	var result *ingestion.Result
	err = ingestion.RetryWithBackoff(ctx, func() error {
		result = pipeline.Run(ctx, batch)
		if result.Failed() {
			return result.Err
		}
		if n := len(result.IndexFailures); n > 0 {
			return fmt.Errorf("%d documents failed to index", n)
		}
		return nil
	}, 1+c.Int("index-retries"), c.Duration("retry-delay"))

	if result == nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("%s", result.String())
	}
	if err != nil {
		slog.Warn("some documents were not indexed; re-run ingest to repair", "error", err)
	}

	fmt.Println(result.String())
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: faultline search <query>")
	}
	query := c.Args().First()

	ctx := context.Background()

	system, err := openSystem(ctx, c)
	if err != nil {
		return err
	}
	defer system.Close()

	var opts []search.Option
	if size := c.Int("size"); size > 0 {
		opts = append(opts, search.WithSize(size))
	}
	searcher, err := system.NewSearcher(opts...)
	if err != nil {
		return err
	}

	results, err := searcher.Search(ctx, query, search.Mode(c.String("mode")))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no matching incidents")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%2d. %s (score %.3f)\n", i+1, r.IncidentID, r.Score)
		if desc, ok := r.Fields["incident_description"].(string); ok {
			fmt.Printf("    %s\n", desc)
		}
		if rc, ok := r.Fields["root_cause"].(string); ok && rc != "" {
			fmt.Printf("    root cause: %s\n", rc)
		}
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: faultline ask <question>")
	}
	question := c.Args().First()

	ctx := context.Background()

	system, err := openSystem(ctx, c)
	if err != nil {
		return err
	}
	defer system.Close()

	resolver, err := system.NewResolver()
	if err != nil {
		return err
	}

	answer, err := resolver.Resolve(ctx, question)
	if err != nil {
		return err
	}

	fmt.Println(answer.Summary)
	if len(answer.Incidents) > 0 {
		fmt.Printf("\nBased on %d similar incidents.\n", len(answer.Incidents))
	}
	return nil
}
