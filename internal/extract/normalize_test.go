// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "rejoins hyphenated line break",
			input: "atomic hydro-\ngen deposition",
			want:  "atomic hydrogen deposition",
		},
		{
			name:  "rejoins hyphenated break with indent",
			input: "thin hydro-\n  gen films",
			want:  "thin hydrogen films",
		},
		{
			name:  "rejoins across intervening citation",
			input: "hydro- [3]\ngen",
			want:  "hydrogen",
		},
		{
			name:  "removes email",
			input: "Contact alice@example.com for data",
			want:  "Contact for data",
		},
		{
			name:  "removes url",
			input: "see https://example.com/suppl for details",
			want:  "see for details",
		},
		{
			name:  "removes www host",
			input: "visit www.example.com today",
			want:  "visit today",
		},
		{
			name:  "removes doi string",
			input: "preprint doi:10.1116/1.5079247 (2019)",
			want:  "preprint (2019)",
		},
		{
			name:  "removes standalone page number line",
			input: "Introduction\n7\nThe growth rate",
			want:  "Introduction\n\nThe growth rate",
		},
		{
			name:  "keeps long numbers inline",
			input: "deposited at 250 degrees",
			want:  "deposited at 250 degrees",
		},
		{
			name:  "removes copyright line",
			input: "Text line\n© 2019 American Vacuum Society\nMore text",
			want:  "Text line\n\nMore text",
		},
		{
			name:  "removes rights reserved line",
			input: "Body\nAll rights reserved.\nMore body",
			want:  "Body\n\nMore body",
		},
		{
			name:  "removes download stamp with url",
			input: "Intro\nDownloaded from www.jvst.org\nBody",
			want:  "Intro\n\nBody",
		},
		{
			name:  "removes page marker line",
			input: "Intro\nPage 12\nBody",
			want:  "Intro\n\nBody",
		},
		{
			name:  "removes citation list",
			input: "as shown [1,2,3] in earlier work",
			want:  "as shown in earlier work",
		},
		{
			name:  "removes citation range",
			input: "reported [1-5] previously",
			want:  "reported previously",
		},
		{
			name:  "removes en dash citation range",
			input: "studies [12–15] show",
			want:  "studies show",
		},
		{
			name:  "removes spaced citation list",
			input: "observed [1, 2] here",
			want:  "observed here",
		},
		{
			name:  "keeps author year brackets",
			input: "argued [Smith 2020] strongly",
			want:  "argued [Smith 2020] strongly",
		},
		{
			name:  "removes standalone figure line",
			input: "caption text\nFig. 3\nmore text",
			want:  "caption text\n\nmore text",
		},
		{
			name:  "removes trailing figure reference",
			input: "growth rates see Fig. 1\nNext line",
			want:  "growth rates see\nNext line",
		},
		{
			name:  "removes standalone table line",
			input: "summary\nTable 12\ndetails",
			want:  "summary\n\ndetails",
		},
		{
			name:  "keeps figure reference mid sentence",
			input: "Fig. 2 shows the rate",
			want:  "Fig. 2 shows the rate",
		},
		{
			name:  "collapses spaces and tabs",
			input: "a\t\tb   c",
			want:  "a b c",
		},
		{
			name:  "collapses blank line runs",
			input: "para one\n\n\n\n\npara two",
			want:  "para one\n\npara two",
		},
		{
			name:  "removes symbol only line",
			input: "data\n***\nresult",
			want:  "data\n\nresult",
		},
		{
			name:  "keeps long symbol runs",
			input: "data\n*******\nresult",
			want:  "data\n*******\nresult",
		},
		{
			name:  "trims lines and document",
			input: "  spaced out  ",
			want:  "spaced out",
		},
		{
			name:  "collapses blank lines exposed by trimming",
			input: "A\n \n \nB",
			want:  "A\n\nB",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only input",
			input: "   \n\t\n  ",
			want:  "",
		},
		{
			name:  "composite page",
			input: "hydro-\ngen deposition [12,13] see Fig. 1\n\n\n\nNext paragraph",
			want:  "hydrogen deposition see\n\nNext paragraph",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"atomic hydro-\ngen deposition",
		"hydro- [3]\ngen",
		"A\n \n \nB",
		"as shown [1,2,3] in earlier work\n\n\n\nwith   spacing",
		"Contact alice@example.com or see https://example.com\nPage 3\nFig. 1",
		"plain paragraph with nothing to clean",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestSplitReferences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBody string
		wantRefs string
	}{
		{
			name:     "references heading",
			input:    "Main text here.\n\nReferences\nSmith, J. et al.\nJones, K.",
			wantBody: "Main text here.",
			wantRefs: "References\nSmith, J. et al.\nJones, K.",
		},
		{
			name:     "uppercase bibliography",
			input:    "Body text.\nBIBLIOGRAPHY\nEntry one.",
			wantBody: "Body text.",
			wantRefs: "BIBLIOGRAPHY\nEntry one.",
		},
		{
			name:     "works cited",
			input:    "Body.\nWorks Cited\nEntry.",
			wantBody: "Body.",
			wantRefs: "Works Cited\nEntry.",
		},
		{
			name:     "heading with surrounding spaces",
			input:    "Body.\n  References  \nEntry.",
			wantBody: "Body.",
			wantRefs: "References  \nEntry.",
		},
		{
			name:     "no heading returns text unchanged",
			input:    "Just a body with no tail section.",
			wantBody: "Just a body with no tail section.",
			wantRefs: "",
		},
		{
			name:     "heading must be alone on its line",
			input:    "references to prior work\nmore text",
			wantBody: "references to prior work\nmore text",
			wantRefs: "",
		},
		{
			name:     "heading as final line without newline",
			input:    "Body.\nReferences",
			wantBody: "Body.\nReferences",
			wantRefs: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, refs := SplitReferences(tt.input)
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if refs != tt.wantRefs {
				t.Errorf("refs = %q, want %q", refs, tt.wantRefs)
			}
		})
	}
}
