// Copyright 2026 Chemtrace Labs
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
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/chemtrace/sdsvault/ai"
	"github.com/chemtrace/sdsvault/ai/openai"
	"github.com/chemtrace/sdsvault/core"
	"github.com/chemtrace/sdsvault/ingestion"
	"github.com/chemtrace/sdsvault/reembed"
	"github.com/chemtrace/sdsvault/retrieval"
	"github.com/chemtrace/sdsvault/storage/badger"
)

func main() {
	// Pick up OPENAI_API_KEY and friends from a local .env if present.
	godotenv.Load()

	app := &cli.App{
		Name:  "sdsvault",
		Usage: "Safety data sheet section retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Load safety data sheets from a CSV source into the database",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "csv",
						Usage:    "Path to the CSV source file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "text-embedding-ada-002",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent row workers",
						Value: 4,
					},
				},
			},
			{
				Name:   "retrieve",
				Usage:  "Retrieve sections for a product",
				Action: retrieveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "product",
						Aliases:  []string{"p"},
						Usage:    "Product name (exact match)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "supplier",
						Usage: "Supplier name (exact match)",
					},
					&cli.StringFlag{
						Name:  "sections",
						Usage: "Comma-separated section numbers, e.g. \"4,8\"",
					},
					&cli.StringSliceFlag{
						Name:    "term",
						Aliases: []string{"t"},
						Usage:   "Search term (repeatable)",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "text-embedding-ada-002",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall deadline for the retrieval",
						Value: 30 * time.Second,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored sections with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "normalize",
						Usage: "Normalize vectors to unit length after embedding",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newEmbedder(c *cli.Context) (ai.Embedder, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithToken(os.Getenv("OPENAI_API_KEY")),
	)

	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewDocumentRepository(backend)
	defer repo.Close()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	source, err := os.Open(c.String("csv"))
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer source.Close()

	rows, err := ingestion.ReadRows(source)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Read %d rows from %s\n", len(rows), c.String("csv"))

	pipeline, err := ingestion.NewPipeline(repo, embedder,
		ingestion.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	stats, err := pipeline.Ingest(ctx, rows)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d rows: %d sections stored, %d embedding failures\n",
		stats.Rows, stats.Stored, stats.Failed)
	return nil
}

func retrieveCommand(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewDocumentRepository(backend)
	defer repo.Close()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	retriever, err := retrieval.NewRetriever(repo, embedder)
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	sections, err := parseSections(c.String("sections"))
	if err != nil {
		return err
	}

	query := core.Query{
		ProductName: c.String("product"),
		Supplier:    c.String("supplier"),
		SectionIDs:  sections,
		Terms:       c.StringSlice("term"),
	}

	result, err := retriever.Retrieve(ctx, query)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	printResult(result)

	// Non-matched outcomes are visible to scripts through the exit code.
	switch result.Status {
	case core.StatusNotFound:
		return cli.Exit("", 1)
	case core.StatusSectionMismatch:
		return cli.Exit("", 2)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewDocumentRepository(backend)
	defer repo.Close()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Normalize:      c.Bool("normalize"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

// parseSections parses a comma-separated list of section numbers.
func parseSections(value string) ([]core.SectionID, error) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	sections := make([]core.SectionID, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid section number %q", part)
		}
		section := core.SectionID(n)
		if !section.Valid() {
			return nil, fmt.Errorf("section number %d out of range 1..%d", n, core.MaxSectionID)
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func printResult(result *core.Result) {
	switch result.Status {
	case core.StatusMatched:
		fmt.Printf("Found %d matches\n", len(result.Matches))
		for i, match := range result.Matches {
			fmt.Printf("%d: %s / %s - section %d (%s)\n",
				i+1, match.ProductName, match.Supplier, match.SectionID, match.SectionID.Name())
			if len(match.QueryTerms) > 0 {
				fmt.Printf("   terms: %s\n", strings.Join(match.QueryTerms, ", "))
			}
			fmt.Printf("   %s\n", match.PageContent)
		}
	case core.StatusNotFound:
		fmt.Println("No matching documents found")
	case core.StatusSectionMismatch:
		fmt.Println("No matches within the requested sections")
		if result.Suggestion != "" {
			fmt.Printf("Suggestion: %s\n", result.Suggestion)
		}
	default:
		fmt.Printf("Unexpected result status %d\n", result.Status)
	}
}

func setupLogger(c *cli.Context) error {
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
		return fmt.Errorf("invalid log level: %s", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}
