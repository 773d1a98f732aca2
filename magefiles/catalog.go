//go:build mage

package main

import "github.com/magefile/mage/mg"

// Assign gives every acquired PDF its stable paper<N>.pdf corpus name.
func Assign() error {
	mg.Deps(Build)
	return runStage("catalog", "assign")
}

// Mappings exports the DOI to corpus-name mapping as corpus/mappings.csv.
func Mappings() error {
	mg.Deps(Build)
	return runStage("catalog", "export")
}
