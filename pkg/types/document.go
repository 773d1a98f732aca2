// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractionStatus indicates the state of dataset extraction for a document.
type ExtractionStatus string

const (
	ExtractionNone  ExtractionStatus = "none"
	ExtractionDone  ExtractionStatus = "extracted"
	ExtractionEmpty ExtractionStatus = "empty"
	ExtractionFail  ExtractionStatus = "failed"
)

// Document holds metadata and file paths for one acquired work.
type Document struct {
	// DOI is the Digital Object Identifier in canonical form
	// (e.g. "10.1116/1.5079247").
	DOI string `json:"doi" yaml:"doi"`

	// Slug is the filesystem-safe form of the DOI used as a filename stem.
	Slug string `json:"slug" yaml:"slug"`

	// CorpusName is the stable sequential name assigned by the catalog
	// (e.g. "paper12.pdf"). Empty until assigned.
	CorpusName string `json:"corpus_name,omitempty" yaml:"corpus_name,omitempty"`

	// Material is the deposited material reported by the process database.
	Material string `json:"material,omitempty" yaml:"material,omitempty"`

	// Reactant is the co-reactant reported by the process database.
	Reactant string `json:"reactant,omitempty" yaml:"reactant,omitempty"`

	// SourceURL is the URL from which the PDF was downloaded.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFPath is the local filesystem path to the stored PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// ExtractionStatus tracks whether the document has been turned into
	// dataset artifacts.
	ExtractionStatus ExtractionStatus `json:"extraction_status" yaml:"extraction_status"`

	// AcquiredAt is the download timestamp (UTC).
	AcquiredAt time.Time `json:"acquired_at" yaml:"acquired_at"`
}
