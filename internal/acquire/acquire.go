// Package acquire turns DOI work lists into stored PDFs with YAML
// metadata sidecars. Downloads go through a shared retry policy and a
// process-wide politeness pacer; documents already on disk are skipped,
// so interrupted batches resume where they stopped.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ald-corpus/internal/httputil"
	"github.com/pdiddy/ald-corpus/pkg/types"
)

const pdfsDir = "pdfs"

const defaultWorkers = 4

// BatchResult holds the outcome of a batch acquisition run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Documents  []*types.Document
}

// Total returns the total number of targets processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any documents failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// AcquireDocument fetches the PDF for one work-list target and stores it
// under its DOI slug with a metadata sidecar. If the PDF already exists
// on disk the download is skipped and the stored metadata is returned.
// The landing page may serve the PDF directly; otherwise its HTML is
// scanned for a viewer link, and the payload fetched from that link must
// validate as a PDF before anything is written.
func AcquireDocument(ctx context.Context, client *http.Client, pacer *httputil.Pacer, target types.Document, cfg types.AcquisitionConfig) (doc *types.Document, skipped bool, err error) {
	doi := strings.TrimSpace(target.DOI)
	if !doiPattern.MatchString(doi) {
		return nil, false, fmt.Errorf("not a DOI: %q", target.DOI)
	}

	slug := Slug(doi)
	dir := filepath.Join(cfg.CorpusDir, pdfsDir)
	pdfPath := filepath.Join(dir, slug+".pdf")
	metaPath := filepath.Join(dir, slug+".yaml")

	// Resume support: a stored PDF is never re-fetched.
	if _, statErr := os.Stat(pdfPath); statErr == nil {
		d, readErr := readMetadata(metaPath)
		if readErr != nil {
			d = &types.Document{DOI: doi, Slug: slug, PDFPath: pdfPath}
		}
		return d, true, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	pol := retryPolicy(cfg)
	header := requestHeader(cfg)
	header.Set("Accept", "application/pdf,text/html;q=0.9,*/*;q=0.8")

	if err := pacer.Wait(ctx); err != nil {
		return nil, false, err
	}
	landing, err := httputil.Fetch(ctx, client, LandingURL(doi), header, pol)
	if err != nil {
		return nil, false, fmt.Errorf("fetching landing page: %w", err)
	}

	payload := landing
	if !strings.Contains(strings.ToLower(landing.ContentType), "application/pdf") {
		pdfURL, findErr := FindPDFLink(landing.Body, landing.URL)
		if findErr != nil {
			return nil, false, findErr
		}
		if err := pacer.Wait(ctx); err != nil {
			return nil, false, err
		}
		payload, err = httputil.Fetch(ctx, client, pdfURL, header, pol)
		if err != nil {
			return nil, false, fmt.Errorf("fetching PDF: %w", err)
		}
	}
	if !IsPDFPayload(payload.ContentType, payload.Body) {
		return nil, false, fmt.Errorf("%s did not return a PDF (content type %q)", payload.URL, payload.ContentType)
	}

	if err := storePDF(payload.Body, pdfPath); err != nil {
		return nil, false, fmt.Errorf("storing %s: %w", slug, err)
	}

	d := &types.Document{
		DOI:              doi,
		Slug:             slug,
		Material:         target.Material,
		Reactant:         target.Reactant,
		SourceURL:        payload.URL,
		PDFPath:          pdfPath,
		ExtractionStatus: types.ExtractionNone,
		AcquiredAt:       time.Now().UTC(),
	}
	if err := writeMetadata(d, metaPath); err != nil {
		return nil, false, fmt.Errorf("writing metadata for %s: %w", slug, err)
	}
	return d, false, nil
}

// AcquireBatch processes the work list with a pool of workers, printing
// per-document status lines and a summary to w. Individual failures do
// not abort the batch. All workers share one pacer, so adding workers
// never shortens the spacing between outbound requests. Cancelling ctx
// stops dispatch; in-flight documents finish or abort on their next
// blocking call.
func AcquireBatch(ctx context.Context, client *http.Client, targets []types.Document, cfg types.AcquisitionConfig, w io.Writer) BatchResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if len(targets) > 0 && workers > len(targets) {
		workers = len(targets)
	}
	pacer := httputil.NewPacer(cfg.DelayMin, cfg.DelayMax)

	var (
		mu     sync.Mutex
		result BatchResult
		wg     sync.WaitGroup
	)
	jobs := make(chan types.Document)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				doc, wasSkipped, err := AcquireDocument(ctx, client, pacer, target, cfg)
				mu.Lock()
				switch {
				case err != nil:
					fmt.Fprintf(w, "failed:  %s (%v)\n", target.DOI, err)
					result.Failed++
				case wasSkipped:
					fmt.Fprintf(w, "skipped: %s (already exists)\n", doc.Slug)
					result.Skipped++
					result.Documents = append(result.Documents, doc)
				default:
					fmt.Fprintf(w, "downloaded: %s\n", doc.Slug)
					result.Downloaded++
					result.Documents = append(result.Documents, doc)
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, t := range targets {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- t:
		}
	}
	close(jobs)
	wg.Wait()

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// requestHeader builds the base header sent with every outbound request.
func requestHeader(cfg types.AcquisitionConfig) http.Header {
	h := http.Header{}
	if cfg.UserAgent != "" {
		h.Set("User-Agent", cfg.UserAgent)
	}
	return h
}

// retryPolicy maps config overrides onto the default fetch policy.
func retryPolicy(cfg types.AcquisitionConfig) httputil.Policy {
	pol := httputil.DefaultPolicy()
	if cfg.MaxAttempts > 0 {
		pol.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelay > 0 {
		pol.BaseDelay = cfg.BaseDelay
	}
	if cfg.MaxDelay > 0 {
		pol.MaxDelay = cfg.MaxDelay
	}
	if cfg.JitterMax > 0 {
		pol.JitterMax = cfg.JitterMax
	}
	return pol
}

// storePDF writes body to destPath through a temporary file in the same
// directory, renaming only after a complete write. Interrupted runs
// never leave a partial PDF under the final name.
func storePDF(body []byte, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(body)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeMetadata writes a Document record to a YAML sidecar.
func writeMetadata(doc *types.Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// readMetadata reads a Document record from a YAML sidecar.
func readMetadata(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc types.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
