// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// ExportCSV writes the slug-to-corpus-name mapping for every named
// document to path, in DOI order. The first row is the header
// "original,renamed"; the original column carries the slug filename.
func (s *Store) ExportCSV(ctx context.Context, path string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, corpus_name FROM documents WHERE corpus_name != '' ORDER BY doi`)
	if err != nil {
		return fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"original", "renamed"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for rows.Next() {
		var slug, name string
		if err := rows.Scan(&slug, &name); err != nil {
			return fmt.Errorf("scanning mapping: %w", err)
		}
		if err := w.Write([]string{slug + ".pdf", name}); err != nil {
			return fmt.Errorf("writing mapping: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return f.Close()
}
