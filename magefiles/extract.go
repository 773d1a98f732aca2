//go:build mage

package main

import "github.com/magefile/mage/mg"

// Extract builds the per-document dataset from the acquired PDFs.
func Extract() error {
	mg.Deps(Build)
	return runStage("extract")
}
