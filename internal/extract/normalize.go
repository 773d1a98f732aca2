// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// normalize.go cleans raw PDF text for downstream model training.
// The rules drop page furniture and reference noise while keeping the
// scientific prose intact.

package extract

import (
	"regexp"
	"strings"
)

// Cleanup patterns, applied in order within one pass.
var (
	// hyphenBreak matches words split across a line break, like
	// "hydro-\ngen".
	hyphenBreak = regexp.MustCompile(`(\w+)-\s*\n\s*(\w+)`)

	// emailAddr matches author contact addresses.
	emailAddr = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// urlRef matches http(s) URLs and bare www hosts.
	urlRef = regexp.MustCompile(`https?://\S+|www\.\S+`)

	// doiRef matches inline DOI strings like "doi:10.1116/1.5079247".
	doiRef = regexp.MustCompile(`(?i)doi:\s*\S+`)

	// pageNumberLine matches lines holding nothing but a page number.
	pageNumberLine = regexp.MustCompile(`(?m)^[ \t]*\d{1,4}[ \t]*$`)

	// furnitureLine matches running header and footer lines: page
	// markers, copyright notices, rights statements, download stamps.
	furnitureLine = regexp.MustCompile(`(?im)^[ \t]*(?:page[ \t]*\d+|©[ \t]*\d{4}.*|all rights reserved.*|downloaded from.*)[ \t]*$`)

	// citationBracket matches bracketed numeric citations, including
	// lists and ranges: [1], [12,13], [1-5].
	citationBracket = regexp.MustCompile(`\s*\[\d+(?:[,\-–]\s*\d+)*\]`)

	// figureRef matches a bare figure or table reference alone on a
	// line or dangling at the end of one, like "Fig. 1" or "Table 2".
	figureRef = regexp.MustCompile(`(?im)[ \t]*\b(?:figure|fig\.?|table)[ \t]*\d+[ \t]*$`)

	// spaceRun matches runs of spaces and tabs.
	spaceRun = regexp.MustCompile(`[ \t]+`)

	// blankRun matches three or more newlines, keeping paragraph breaks
	// but dropping larger gaps.
	blankRun = regexp.MustCompile(`\n{3,}`)

	// symbolLine matches lines of bare punctuation, like rules and
	// separator rows.
	symbolLine = regexp.MustCompile(`(?m)^[ \t]*[^\w\s]{1,5}[ \t]*$`)
)

// referencesHeading matches a references-style section header alone on
// a line.
var referencesHeading = regexp.MustCompile(`(?im)^[ \t]*(?:references|bibliography|works cited)[ \t]*\r?\n`)

// Normalize cleans raw page text: broken words are rejoined, emails,
// URLs, DOIs, citation brackets, and dangling figure references are
// dropped, page furniture lines are removed, and whitespace is
// collapsed. The rule pass repeats until the text stops changing, so
// normalizing already-normalized text is a no-op.
func Normalize(text string) string {
	for {
		next := normalizePass(text)
		if next == text {
			return text
		}
		text = next
	}
}

// normalizePass applies every cleanup rule once, then trims each line
// and the whole text. No rule ever grows the text, which bounds the
// fixpoint loop in Normalize.
func normalizePass(text string) string {
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = emailAddr.ReplaceAllString(text, " ")
	text = urlRef.ReplaceAllString(text, " ")
	text = doiRef.ReplaceAllString(text, " ")
	text = pageNumberLine.ReplaceAllString(text, "")
	text = furnitureLine.ReplaceAllString(text, "")
	text = citationBracket.ReplaceAllString(text, "")
	text = figureRef.ReplaceAllString(text, "")
	text = spaceRun.ReplaceAllString(text, " ")
	text = blankRun.ReplaceAllString(text, "\n\n")
	text = symbolLine.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SplitReferences cuts text at the first references-style heading and
// returns the body and the trailing section. Text without such a
// heading comes back whole with an empty references part.
func SplitReferences(text string) (body, refs string) {
	loc := referencesHeading.FindStringIndex(text)
	if loc == nil {
		return text, ""
	}
	return strings.TrimSpace(text[:loc[0]]), strings.TrimSpace(text[loc[0]:])
}
