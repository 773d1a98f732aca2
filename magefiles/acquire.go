//go:build mage

package main

import "github.com/magefile/mage/mg"

// Acquire downloads PDFs for the ALD work list into corpus/pdfs.
func Acquire() error {
	mg.Deps(Build)
	return runStage("acquire")
}
