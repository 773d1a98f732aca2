// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageImage is one raw image pulled from a page, before filtering.
type PageImage struct {
	Data   []byte
	Format string // extractor format hint like "jpg" or "png"
}

// PageRecord holds the per-page output of the content extractor.
type PageRecord struct {
	Page     int    // 1-based page number
	Text     string // raw page text, empty when extraction failed
	Images   []PageImage
	Warnings []string
}

// ReadPages walks every page of the PDF at path, collecting raw text
// and embedded images. A failure on one page, text or images, is
// recorded as a warning on that page's record and never aborts the
// others. The returned error is reserved for documents that cannot be
// opened at all.
func ReadPages(path string) ([]PageRecord, error) {
	f, reader, err := openReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	total := reader.NumPage()
	records := make([]PageRecord, 0, total)
	for n := 1; n <= total; n++ {
		rec := PageRecord{Page: n}

		text, err := safePageText(reader, n)
		if err != nil {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("text extraction failed: %v", err))
		} else {
			rec.Text = text
		}

		images, err := safePageImages(f, n)
		if err != nil {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("image extraction failed: %v", err))
		} else {
			rec.Images = images
		}

		records = append(records, rec)
	}
	return records, nil
}

// openReader guards pdf.Open, which can panic on malformed cross
// reference tables, and converts the panic into an error.
func openReader(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.Open(path)
}

// extractPageText pulls the plain text of one page. Declared as a var
// so tests can inject page-level failures.
var extractPageText = func(r *pdf.Reader, pageNum int) (string, error) {
	page := r.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page object missing")
	}
	return page.GetPlainText(nil)
}

// extractPageImages pulls the raw images of one page. Declared as a var
// so tests can stub the extractor. Images come back in object number
// order so reruns name them identically.
var extractPageImages = func(rs io.ReadSeeker, pageNum int) ([]PageImage, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	extracted, err := api.ExtractImagesRaw(rs, []string{strconv.Itoa(pageNum)}, nil)
	if err != nil {
		return nil, err
	}

	var images []PageImage
	for _, pageMap := range extracted {
		objNrs := make([]int, 0, len(pageMap))
		for objNr := range pageMap {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)
		for _, objNr := range objNrs {
			img := pageMap[objNr]
			data, err := io.ReadAll(img)
			if err != nil {
				return nil, err
			}
			images = append(images, PageImage{Data: data, Format: img.FileType})
		}
	}
	return images, nil
}

// safePageText converts the panics GetPlainText throws on malformed
// content streams into ordinary errors.
func safePageText(r *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return extractPageText(r, pageNum)
}

// safePageImages does the same for the image extractor.
func safePageImages(rs io.ReadSeeker, pageNum int) (images []PageImage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return extractPageImages(rs, pageNum)
}
