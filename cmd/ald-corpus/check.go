// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ald-corpus/internal/acquire"
	"github.com/pdiddy/ald-corpus/internal/httputil"
	"github.com/pdiddy/ald-corpus/internal/secrets"
	"github.com/pdiddy/ald-corpus/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check [DOIs...]",
	Short: "Check publisher full-text availability for DOIs",
	Long: `Check probes the Elsevier full-text API for each DOI and reports
whether the article is retrievable with the configured API key. Useful
before a large acquisition run to estimate coverage. Requires the
elsevier-api-key secret; without it the check is skipped.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("input", "", "file with one DOI per line (blank lines and # comments ignored)")
	checkCmd.Flags().String("api-key", "", "Elsevier API key (default: elsevier-api-key secret)")
	checkCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	checkCmd.Flags().Duration("delay-min", 0, "politeness delay lower bound (default 1s)")
	checkCmd.Flags().Duration("delay-max", 0, "politeness delay upper bound (default 3s)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	flagKey, _ := cmd.Flags().GetString("api-key")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	delayMin, _ := cmd.Flags().GetDuration("delay-min")
	delayMax, _ := cmd.Flags().GetDuration("delay-max")

	if timeout == 0 {
		timeout = defaultTimeout
	}
	if delayMin == 0 {
		delayMin = defaultDelayMin
	}
	if delayMax == 0 {
		delayMax = defaultDelayMax
	}

	apiKey := secretDefault(secrets.KeyElsevierAPI, flagKey)
	if apiKey == "" {
		logger.Warn().Msg("no elsevier-api-key secret configured; skipping availability check")
		return nil
	}

	targets := make([]string, 0, len(args))
	targets = append(targets, args...)
	if input != "" {
		fromFile, err := readDOIFile(input)
		if err != nil {
			return err
		}
		for _, t := range fromFile {
			targets = append(targets, t.DOI)
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("provide DOIs as arguments or via --input")
	}

	cfg := types.AcquisitionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
	}
	client := &http.Client{Timeout: cfg.Timeout}
	pacer := httputil.NewPacer(delayMin, delayMax)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	available := 0
	for _, doi := range targets {
		if err := pacer.Wait(ctx); err != nil {
			return err
		}
		ok, err := acquire.CheckAvailability(ctx, client, doi, apiKey, cfg)
		switch {
		case err != nil:
			fmt.Printf("error:       %s (%v)\n", doi, err)
		case ok:
			available++
			fmt.Printf("available:   %s\n", doi)
		default:
			fmt.Printf("unavailable: %s\n", doi)
		}
	}

	fmt.Printf("\n%d of %d available\n", available, len(targets))
	return nil
}
