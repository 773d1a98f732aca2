// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ald-corpus/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the document catalog (list, assign, export)",
	Long: `Catalog manages the SQLite registry of acquired documents. Use
subcommands to list the corpus, assign stable paper<N>.pdf names, or
export the slug-to-name mapping as CSV.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued documents",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, _, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-12s  %-12s  %-10s  %s\n",
		"DOI", "Corpus", "Material", "Status", "Acquired")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 82))

	for _, d := range docs {
		doi := d.DOI
		if len(doi) > 30 {
			doi = doi[:27] + "..."
		}
		corpus := d.CorpusName
		if corpus == "" {
			corpus = "-"
		}
		material := d.Material
		if len(material) > 12 {
			material = material[:9] + "..."
		}
		acquired := "-"
		if !d.AcquiredAt.IsZero() {
			acquired = d.AcquiredAt.Format("2006-01-02")
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-12s  %-12s  %-10s  %s\n",
			doi, corpus, material, d.ExtractionStatus, acquired)
	}

	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(docs))
	return nil
}

// --- assign subcommand ---

var catalogAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign stable paper<N>.pdf names to unnamed documents",
	Long: `Assign gives every catalogued document without a corpus name the next
sequential paper<N>.pdf name, in DOI order, and renames the stored PDF
to match. Existing names are never changed, so repeated runs are safe.`,
	RunE: runCatalogAssign,
}

func runCatalogAssign(cmd *cobra.Command, args []string) error {
	store, corpusDir, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.AssignNames(context.Background(), filepath.Join(corpusDir, "pdfs"))
	if err != nil {
		return err
	}
	fmt.Printf("Assigned %d new corpus name(s)\n", n)
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the slug-to-corpus-name mapping as CSV",
	Long: `Export writes mappings.csv with an original,renamed header row, one
line per named document, mapping the slug filename to its assigned
paper<N>.pdf corpus name.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	store, corpusDir, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(corpusDir, "mappings.csv")
	}

	if err := store.ExportCSV(context.Background(), out); err != nil {
		return err
	}
	fmt.Printf("Exported mappings to %s\n", out)
	return nil
}

// --- shared helpers ---

func openCatalog(cmd *cobra.Command) (*catalog.Store, string, error) {
	corpusDir, _ := cmd.Flags().GetString("corpus-dir")

	store, err := catalog.NewStore(filepath.Join(corpusDir, catalog.FileName))
	if err != nil {
		return nil, "", fmt.Errorf("opening catalog: %w", err)
	}
	return store, corpusDir, nil
}

func init() {
	// Shared flag on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("corpus-dir", "corpus", "base directory for the corpus")

	catalogExportCmd.Flags().String("out", "", "output CSV path (default <corpus-dir>/mappings.csv)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAssignCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
