// Package extract turns stored PDFs into per-document dataset folders:
// normalized text in content.txt plus filtered figure images under
// Images/. Page-level problems degrade single documents, never the
// batch.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ald-corpus/pkg/types"
)

const (
	imagesDir   = "Images"
	contentFile = "content.txt"
)

const defaultWorkers = 4

// Result is the terminal outcome for one document.
type Result struct {
	Name     string // document stem, e.g. "paper12"
	Status   types.ExtractionStatus
	Text     string
	Images   int
	Warnings []string
}

// ExtractDocument processes one stored PDF into outDir: content.txt
// with the normalized text and an Images/ directory with the filtered
// figures. A document yielding no text at all still writes an empty
// content.txt, so reruns skip it, but keeps no images.
func ExtractDocument(pdfPath, outDir string, cfg types.ExtractionConfig, logger zerolog.Logger) *Result {
	name := docStem(pdfPath)
	res := &Result{Name: name, Status: types.ExtractionFail}

	imgDir := filepath.Join(outDir, imagesDir)
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		logger.Error().Err(err).Str("pdf", name).Msg("cannot create dataset directory")
		return res
	}

	records, err := ReadPages(pdfPath)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		logger.Error().Err(err).Str("pdf", name).Msg("cannot read PDF")
		return res
	}

	var pageTexts []string
	for _, rec := range records {
		for _, warn := range rec.Warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: %s", rec.Page, warn))
			logger.Warn().Str("pdf", name).Int("page", rec.Page).Msg(warn)
		}
		if t := Normalize(rec.Text); t != "" {
			pageTexts = append(pageTexts, t)
		}
	}

	text := strings.Join(pageTexts, "\n\n")
	if cfg.StripReferences {
		text, _ = SplitReferences(text)
	}
	res.Text = text

	if text == "" {
		if err := writeContent(outDir, ""); err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			logger.Error().Err(err).Str("pdf", name).Msg("cannot write content")
			return res
		}
		res.Status = types.ExtractionEmpty
		logger.Warn().Str("pdf", name).Msg("no text extracted; may be scanned or image-based")
		return res
	}

	if err := writeContent(outDir, text); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		logger.Error().Err(err).Str("pdf", name).Msg("cannot write content")
		return res
	}

	filter := NewFilter(cfg.MinImageBytes, cfg.MinImageWidth, cfg.MinImageHeight)
	seq := 0
	for _, rec := range records {
		for _, img := range rec.Images {
			if !filter.Accept(img.Data) {
				continue
			}
			fname := fmt.Sprintf("page%d_img%d.%s", rec.Page, seq, normalizeExt(img.Format))
			if err := os.WriteFile(filepath.Join(imgDir, fname), img.Data, 0o644); err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: saving %s: %v", rec.Page, fname, err))
				logger.Warn().Err(err).Str("pdf", name).Str("image", fname).Msg("cannot save image")
				continue
			}
			seq++
		}
	}
	res.Images = seq
	res.Status = types.ExtractionDone
	logger.Info().Str("pdf", name).Int("pages", len(records)).Int("images", seq).Msg("extracted")
	return res
}

// ExtractAll scans cfg.PDFDir for stored PDFs and processes each into
// its own folder under cfg.DatasetDir with a pool of workers. Documents
// whose content.txt already exists are skipped. Individual failures
// never abort the batch; the returned error covers setup problems only.
func ExtractAll(ctx context.Context, cfg types.ExtractionConfig, logger zerolog.Logger) (Snapshot, error) {
	var stats Stats

	if err := os.MkdirAll(cfg.DatasetDir, 0o755); err != nil {
		return stats.Snapshot(), fmt.Errorf("creating dataset directory: %w", err)
	}
	entries, err := os.ReadDir(cfg.PDFDir)
	if err != nil {
		return stats.Snapshot(), fmt.Errorf("reading pdf directory: %w", err)
	}

	var pdfs []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		pdfs = append(pdfs, e.Name())
	}
	logger.Info().Int("count", len(pdfs)).Str("dir", cfg.PDFDir).Msg("found PDF files to process")

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if len(pdfs) > 0 && workers > len(pdfs) {
		workers = len(pdfs)
	}

	var skipped atomic.Int64
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fname := range jobs {
				name := docStem(fname)
				outDir := filepath.Join(cfg.DatasetDir, name)
				if _, err := os.Stat(filepath.Join(outDir, contentFile)); err == nil {
					skipped.Add(1)
					logger.Info().Str("pdf", name).Msg("skipped (already extracted)")
					continue
				}

				res := ExtractDocument(filepath.Join(cfg.PDFDir, fname), outDir, cfg, logger)
				switch res.Status {
				case types.ExtractionDone:
					stats.AddSuccess()
					stats.AddImages(res.Images)
				case types.ExtractionEmpty:
					stats.AddEmpty()
				default:
					stats.AddFailed()
				}
			}
		}()
	}

dispatch:
	for _, fname := range pdfs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- fname:
		}
	}
	close(jobs)
	wg.Wait()

	sn := stats.Snapshot()
	logger.Info().
		Int("success", sn.Success).
		Int("failed", sn.Failed).
		Int("empty", sn.Empty).
		Int("skipped", int(skipped.Load())).
		Int("images", sn.Images).
		Msg("extraction complete")
	return sn, nil
}

// docStem returns the document name for a PDF path or filename.
func docStem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeContent(outDir, text string) error {
	return os.WriteFile(filepath.Join(outDir, contentFile), []byte(text), 0o644)
}
