// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog tracks acquired documents in a SQLite database and
// assigns the stable paper<N>.pdf corpus names used by downstream
// tooling.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ald-corpus/pkg/types"
)

// FileName is the database filename inside the corpus directory.
const FileName = "catalog.db"

// Store manages the document catalog.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the catalog database at dbPath and creates
// the schema if it does not exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			doi TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			corpus_name TEXT NOT NULL DEFAULT '',
			material TEXT,
			reactant TEXT,
			source_url TEXT,
			pdf_path TEXT,
			extraction_status TEXT,
			acquired_at TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_slug ON documents(slug)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_corpus_name
			ON documents(corpus_name) WHERE corpus_name != ''`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

const selectColumns = `SELECT doi, slug, corpus_name, material, reactant,
	source_url, pdf_path, extraction_status, acquired_at FROM documents`

// Upsert inserts or updates the record for doc.DOI. An already assigned
// corpus name is kept, so numbering stays stable when a document is
// re-acquired.
func (s *Store) Upsert(ctx context.Context, doc *types.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (doi, slug, corpus_name, material, reactant,
			source_url, pdf_path, extraction_status, acquired_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(doi) DO UPDATE SET
			slug=excluded.slug, material=excluded.material,
			reactant=excluded.reactant, source_url=excluded.source_url,
			pdf_path=excluded.pdf_path,
			extraction_status=excluded.extraction_status,
			acquired_at=excluded.acquired_at`,
		doc.DOI, doc.Slug, doc.CorpusName, doc.Material, doc.Reactant,
		doc.SourceURL, doc.PDFPath, string(doc.ExtractionStatus),
		formatTime(doc.AcquiredAt),
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", doc.DOI, err)
	}
	return nil
}

// Get returns the record for doi, or nil when the catalog has no entry.
func (s *Store) Get(ctx context.Context, doi string) (*types.Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx, selectColumns+` WHERE doi = ?`, doi))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", doi, err)
	}
	return doc, nil
}

// List returns all records ordered by DOI.
func (s *Store) List(ctx context.Context) ([]*types.Document, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY doi`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// AssignNames assigns paper<N>.pdf corpus names, in DOI order, to every
// document that does not have one, renaming the stored PDF in pdfDir to
// match. Numbering continues after the highest name already assigned;
// existing assignments are never changed. Returns the number of
// documents named.
func (s *Store) AssignNames(ctx context.Context, pdfDir string) (int, error) {
	maxN, err := s.maxAssigned(ctx)
	if err != nil {
		return 0, err
	}

	pending, err := s.unnamed(ctx)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, d := range pending {
		maxN++
		name := fmt.Sprintf("paper%d.pdf", maxN)

		oldPath := d.pdfPath
		if oldPath == "" {
			oldPath = filepath.Join(pdfDir, d.slug+".pdf")
		}
		newPath := filepath.Join(pdfDir, name)
		if err := os.Rename(oldPath, newPath); err != nil {
			return assigned, fmt.Errorf("renaming %s: %w", d.slug, err)
		}

		if _, err := s.db.ExecContext(ctx,
			`UPDATE documents SET corpus_name = ?, pdf_path = ? WHERE doi = ?`,
			name, newPath, d.doi,
		); err != nil {
			return assigned, fmt.Errorf("recording corpus name for %s: %w", d.doi, err)
		}
		assigned++
	}
	return assigned, nil
}

func (s *Store) maxAssigned(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT corpus_name FROM documents WHERE corpus_name != ''`)
	if err != nil {
		return 0, fmt.Errorf("reading corpus names: %w", err)
	}
	defer rows.Close()

	maxN := 0
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return 0, fmt.Errorf("scanning corpus name: %w", err)
		}
		var n int
		if _, err := fmt.Sscanf(name, "paper%d.pdf", &n); err == nil && n > maxN {
			maxN = n
		}
	}
	return maxN, rows.Err()
}

type pendingDoc struct {
	doi     string
	slug    string
	pdfPath string
}

func (s *Store) unnamed(ctx context.Context) ([]pendingDoc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doi, slug, pdf_path FROM documents WHERE corpus_name = '' ORDER BY doi`)
	if err != nil {
		return nil, fmt.Errorf("reading unnamed documents: %w", err)
	}
	defer rows.Close()

	var pending []pendingDoc
	for rows.Next() {
		var d pendingDoc
		if err := rows.Scan(&d.doi, &d.slug, &d.pdfPath); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		pending = append(pending, d)
	}
	return pending, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*types.Document, error) {
	var doc types.Document
	var status, acquired string
	if err := row.Scan(&doc.DOI, &doc.Slug, &doc.CorpusName, &doc.Material,
		&doc.Reactant, &doc.SourceURL, &doc.PDFPath, &status, &acquired); err != nil {
		return nil, err
	}
	doc.ExtractionStatus = types.ExtractionStatus(status)
	doc.AcquiredAt = parseTime(acquired)
	return &doc, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
