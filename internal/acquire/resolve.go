// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// landingBase hosts DOI landing pages with an embedded PDF viewer.
// Declared as a var so tests can substitute an httptest server.
var landingBase = "https://wellesu.com/"

// doiPattern matches DOIs: "10.1116/1.5079247".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// slugReplacer maps the characters that are unsafe in filenames to
// underscores. Everything else in a DOI passes through unchanged.
var slugReplacer = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_",
)

// Slug returns the filesystem-safe filename stem for a DOI. The mapping
// is deterministic so reruns address the same files.
func Slug(doi string) string {
	return slugReplacer.Replace(doi)
}

// LandingURL returns the landing page URL for a DOI.
func LandingURL(doi string) string {
	return landingBase + doi
}

// linkStrategy locates a candidate PDF URL in a parsed landing page.
// An empty return means no match.
type linkStrategy struct {
	name string
	find func(doc *goquery.Document) string
}

// Publishers wrap their viewers in different markup, so detection runs
// an ordered chain: embed tags typed as PDF, then iframes whose source
// path ends in .pdf, then object tags typed as PDF. First hit wins.
var linkStrategies = []linkStrategy{
	{name: "embed", find: findEmbed},
	{name: "iframe", find: findIframe},
	{name: "object", find: findObject},
}

// FindPDFLink scans landing-page HTML for the document's PDF URL and
// resolves the first strategy hit against pageURL, so relative viewer
// links come back absolute.
func FindPDFLink(pageHTML []byte, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return "", fmt.Errorf("parsing landing page: %w", err)
	}

	for _, st := range linkStrategies {
		href := st.find(doc)
		if href == "" {
			continue
		}
		resolved, err := resolveRef(pageURL, href)
		if err != nil {
			return "", fmt.Errorf("resolving %s link %q: %w", st.name, href, err)
		}
		return resolved, nil
	}
	return "", errors.New("no PDF link found in landing page")
}

func findEmbed(doc *goquery.Document) string {
	src, _ := doc.Find(`embed[type="application/pdf"]`).First().Attr("src")
	return strings.TrimSpace(src)
}

func findIframe(doc *goquery.Document) string {
	var hit string
	doc.Find("iframe[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src != "" && pathEndsInPDF(src) {
			hit = src
			return false
		}
		return true
	})
	return hit
}

func findObject(doc *goquery.Document) string {
	data, _ := doc.Find(`object[type="application/pdf"]`).First().Attr("data")
	return strings.TrimSpace(data)
}

// pathEndsInPDF checks the path component only, so query strings and
// fragments do not hide a .pdf suffix.
func pathEndsInPDF(src string) bool {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	return strings.HasSuffix(strings.ToLower(p), ".pdf")
}

func resolveRef(baseURL, href string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// pdfMagic is the leading byte signature of a PDF file.
var pdfMagic = []byte("%PDF")

// IsPDFPayload reports whether a downloaded body is usable as a PDF:
// either the server declared a PDF media type or the bytes carry the PDF
// signature. HTML error pages served with status 200 fail both checks.
func IsPDFPayload(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(body, pdfMagic)
}
