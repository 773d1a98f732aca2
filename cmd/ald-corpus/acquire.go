// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ald-corpus/internal/acquire"
	"github.com/pdiddy/ald-corpus/internal/catalog"
	"github.com/pdiddy/ald-corpus/internal/secrets"
	"github.com/pdiddy/ald-corpus/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelayMin  = 1 * time.Second
	defaultDelayMax  = 3 * time.Second
	defaultUserAgent = "ald-corpus/0.1"
)

var acquireCmd = &cobra.Command{
	Use:   "acquire [DOIs...]",
	Short: "Download ALD paper PDFs into the corpus",
	Long: `Acquire downloads the PDF for each work-list DOI and stores it under
its slug with a YAML metadata sidecar. The work list comes from DOIs on
the command line, a --input file, or the ALD process database. Documents
already stored are skipped, so interrupted runs resume where they
stopped. Every acquired document is recorded in the catalog.`,
	RunE: runAcquire,
}

func init() {
	acquireCmd.Flags().String("corpus-dir", "corpus", "base directory for the corpus")
	acquireCmd.Flags().String("input", "", "file with one DOI per line (blank lines and # comments ignored)")
	acquireCmd.Flags().Int("limit", 0, "process at most this many targets (0 = all)")
	acquireCmd.Flags().Int("workers", 0, "concurrent downloads (default 4)")
	acquireCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	acquireCmd.Flags().Duration("delay-min", 0, "politeness delay lower bound (default 1s)")
	acquireCmd.Flags().Duration("delay-max", 0, "politeness delay upper bound (default 3s)")
	acquireCmd.Flags().Int("max-attempts", 0, "fetch attempts per request (default 6)")

	rootCmd.AddCommand(acquireCmd)
}

func runAcquire(cmd *cobra.Command, args []string) error {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	input, _ := cmd.Flags().GetString("input")
	limit, _ := cmd.Flags().GetInt("limit")
	workers, _ := cmd.Flags().GetInt("workers")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	delayMin, _ := cmd.Flags().GetDuration("delay-min")
	delayMax, _ := cmd.Flags().GetDuration("delay-max")
	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")

	if timeout == 0 {
		timeout = defaultTimeout
	}
	if delayMin == 0 {
		delayMin = defaultDelayMin
	}
	if delayMax == 0 {
		delayMax = defaultDelayMax
	}

	userAgent := defaultUserAgent
	if email := secretDefault(secrets.KeyContactEmail, ""); email != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", userAgent, email)
	}

	cfg := types.AcquisitionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		RetryConfig: types.RetryConfig{
			MaxAttempts: maxAttempts,
		},
		DelayMin:  delayMin,
		DelayMax:  delayMax,
		CorpusDir: corpusDir,
		Workers:   workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := &http.Client{Timeout: cfg.Timeout}

	targets, err := acquisitionTargets(ctx, client, cfg, args, input)
	if err != nil {
		return err
	}
	if limit > 0 && len(targets) > limit {
		targets = targets[:limit]
	}
	if len(targets) == 0 {
		return fmt.Errorf("no acquisition targets: provide DOIs, --input, or a reachable work list")
	}

	result := acquire.AcquireBatch(ctx, client, targets, cfg, os.Stdout)

	// An interrupted batch still records the documents it completed.
	return recordInCatalog(context.Background(), corpusDir, result.Documents)
}

// acquisitionTargets builds the work list: command-line DOIs win, then a
// DOI file, then the ALD database.
func acquisitionTargets(ctx context.Context, client *http.Client, cfg types.AcquisitionConfig, args []string, input string) ([]types.Document, error) {
	if len(args) > 0 {
		targets := make([]types.Document, 0, len(args))
		for _, doi := range args {
			targets = append(targets, types.Document{DOI: doi, Slug: acquire.Slug(doi)})
		}
		return targets, nil
	}

	if input != "" {
		return readDOIFile(input)
	}

	fmt.Fprintln(os.Stderr, "Fetching work list from the ALD database...")
	targets, err := acquire.FetchWorkList(ctx, client, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching work list: %w", err)
	}
	return targets, nil
}

// readDOIFile reads one DOI per line. Blank lines and lines starting
// with # are ignored.
func readDOIFile(path string) ([]types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DOI file: %w", err)
	}

	var targets []types.Document
	for _, line := range strings.Split(string(data), "\n") {
		doi := strings.TrimSpace(line)
		if doi == "" || strings.HasPrefix(doi, "#") {
			continue
		}
		targets = append(targets, types.Document{DOI: doi, Slug: acquire.Slug(doi)})
	}
	return targets, nil
}

// recordInCatalog upserts every document the batch produced, including
// reruns of already stored documents, so the catalog converges on the
// full corpus.
func recordInCatalog(ctx context.Context, corpusDir string, docs []*types.Document) error {
	if len(docs) == 0 {
		return nil
	}

	store, err := catalog.NewStore(filepath.Join(corpusDir, catalog.FileName))
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer store.Close()

	for _, doc := range docs {
		if err := store.Upsert(ctx, doc); err != nil {
			fmt.Fprintf(os.Stderr, "warning: catalog update failed for %s: %v\n", doc.DOI, err)
		}
	}
	return nil
}
