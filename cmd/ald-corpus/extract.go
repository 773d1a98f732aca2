// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/ald-corpus/internal/extract"
	"github.com/pdiddy/ald-corpus/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text and figures from stored PDFs into the dataset",
	Long: `Extract reads every PDF in the corpus and writes one dataset folder
per document: content.txt with cleaned full text and Images/ with the
figures that pass the size filter. Documents that already have a
content.txt are skipped. The batch report goes to the console and to
extraction.log in the corpus directory.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("corpus-dir", "corpus", "base directory for the corpus")
	extractCmd.Flags().String("pdf-dir", "", "PDF input directory (default <corpus-dir>/pdfs)")
	extractCmd.Flags().String("dataset-dir", "", "dataset output directory (default <corpus-dir>/dataset)")
	extractCmd.Flags().Int("workers", 0, "concurrent extractions (default 4)")
	extractCmd.Flags().Int("min-image-bytes", 0, "reject images smaller than this many bytes (default 5000)")
	extractCmd.Flags().Int("min-image-width", 0, "reject images narrower than this many pixels (default 100)")
	extractCmd.Flags().Int("min-image-height", 0, "reject images shorter than this many pixels (default 100)")
	extractCmd.Flags().Bool("strip-references", false, "drop the trailing references section from extracted text")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")
	pdfDir, _ := cmd.Flags().GetString("pdf-dir")
	datasetDir, _ := cmd.Flags().GetString("dataset-dir")
	workers, _ := cmd.Flags().GetInt("workers")
	minBytes, _ := cmd.Flags().GetInt("min-image-bytes")
	minWidth, _ := cmd.Flags().GetInt("min-image-width")
	minHeight, _ := cmd.Flags().GetInt("min-image-height")
	stripRefs, _ := cmd.Flags().GetBool("strip-references")

	if pdfDir == "" {
		pdfDir = filepath.Join(corpusDir, "pdfs")
	}
	if datasetDir == "" {
		datasetDir = filepath.Join(corpusDir, "dataset")
	}

	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		return fmt.Errorf("creating corpus directory: %w", err)
	}

	logPath := filepath.Join(corpusDir, "extraction.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", logPath, err)
	}
	defer logFile.Close()

	runLogger := zerolog.New(zerolog.MultiLevelWriter(
		consoleWriter(),
		zerolog.ConsoleWriter{Out: logFile, TimeFormat: time.RFC3339, NoColor: true},
	)).With().Timestamp().Logger()

	cfg := types.ExtractionConfig{
		PDFDir:          pdfDir,
		DatasetDir:      datasetDir,
		MinImageBytes:   minBytes,
		MinImageWidth:   minWidth,
		MinImageHeight:  minHeight,
		StripReferences: stripRefs,
		Workers:         workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := extract.ExtractAll(ctx, cfg, runLogger); err != nil {
		return err
	}
	return nil
}
