//go:build mage

// Package main contains Mage build targets for ald-corpus developer tooling.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"corpus/pdfs",
	"corpus/dataset",
}

const secretsDir = ".secrets"

// Init creates the corpus directory layout and the secrets directory.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if err := os.MkdirAll(secretsDir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", secretsDir, err)
	}
	fmt.Println("  ", secretsDir)
	fmt.Println("Corpus directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "ald-corpus"
	cmdPkg  = "./cmd/ald-corpus"
)

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := fmt.Sprintf("-X main.version=%s", gitVersion())
	cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the full test suite.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go test: %w", err)
	}
	return nil
}

// Lint vets the module.
func Lint() error {
	cmd := exec.Command("go", "vet", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go vet: %w", err)
	}
	return nil
}

// Stats prints corpus metrics: acquired PDFs, extracted documents, and saved images.
func Stats() error {
	pdfs, err := countFiles(filepath.Join("corpus", "pdfs"), ".pdf")
	if err != nil {
		return err
	}
	docs, err := countDatasets(filepath.Join("corpus", "dataset"))
	if err != nil {
		return err
	}
	images, err := countImages(filepath.Join("corpus", "dataset"))
	if err != nil {
		return err
	}

	fmt.Printf("PDFs acquired:       %d\n", pdfs)
	fmt.Printf("Documents extracted: %d\n", docs)
	fmt.Printf("Images saved:        %d\n", images)
	return nil
}

// gitVersion returns a version string from git metadata, or "dev" when
// git is unavailable or the tree is not a repository.
func gitVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}
	v := strings.TrimSpace(string(out))
	if v == "" {
		return "dev"
	}
	return v
}

// runStage executes the built CLI with the given subcommand and arguments.
func runStage(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// countFiles walks root and counts files with the given extension.
// A missing root counts as zero.
func countFiles(root, ext string) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			total++
		}
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		return 0, nil
	}
	return total, err
}

// countDatasets counts dataset folders that contain a content.txt.
func countDatasets(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s: %w", root, err)
	}
	total := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), "content.txt")); err == nil {
			total++
		}
	}
	return total, nil
}

// countImages counts files under the per-document Images folders.
func countImages(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s: %w", root, err)
	}
	total := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		images, err := os.ReadDir(filepath.Join(root, e.Name(), "Images"))
		if err != nil {
			continue
		}
		total += len(images)
	}
	return total, nil
}
