package utils

import (
	"regexp"
	"strings"

	"github.com/jbook-analytics/jbook-extract/dto"
)

// Exhibit-title markers expected on R-2 narrative pages.
var R2TitleMarkers = []string{
	"Exhibit R-2",
	"Exhibit R-2A",
	"R-2 Budget Item Justification",
	"R-2A",
}

var (
	missionAnchor         = regexp.MustCompile(`(?i)A\.\s*Mission Description and Budget Item Justification\b`)
	accomplishmentsAnchor = regexp.MustCompile(`(?i)C\.\s*Accomplishments/Planned Programs\b`)
	acquisitionAnchor     = regexp.MustCompile(`(?i)D\.\s*Acquisition Strategy\b`)

	// Generic section header such as "E. Other Program Funding". Line-start
	// anchored and case-sensitive: a mid-sentence "X." must not end a section.
	genericSectionHeader = regexp.MustCompile(`(?m)^\s*[A-Z]\.\s`)

	newStartPattern = regexp.MustCompile(`(?i)New\s*Start\s*[:\-]?\s*(Yes|No)\b`)
)

// CompilePEPattern compiles the word-boundary matcher for one program
// element's number, optionally behind a "PE" label. Callers matching many
// pages compile once per document and reuse the pattern.
func CompilePEPattern(peNumber string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:PE\s*)?` + regexp.QuoteMeta(peNumber) + `\b`)
}

// PageMatchesPattern reports whether a page's text belongs to the program
// element behind a precompiled pattern: the page must carry an R-2
// exhibit-title marker and match the pattern.
func PageMatchesPattern(pageText string, pePattern *regexp.Regexp) bool {
	marked := false
	for _, m := range R2TitleMarkers {
		if strings.Contains(pageText, m) {
			marked = true
			break
		}
	}
	if !marked {
		return false
	}
	return pePattern.MatchString(pageText)
}

// PageMatchesPE is the single-page convenience form of PageMatchesPattern.
func PageMatchesPE(pageText, peNumber string) bool {
	return PageMatchesPattern(pageText, CompilePEPattern(peNumber))
}

// CarveNarrativeSections carves the three named R-2 sections and the
// new-start flag out of concatenated page text. A missing anchor yields a nil
// section, not an error.
func CarveNarrativeSections(text string) dto.NarrativeBundle {
	return dto.NarrativeBundle{
		Mission: extractSection(text, missionAnchor,
			[]*regexp.Regexp{accomplishmentsAnchor, acquisitionAnchor, genericSectionHeader}),
		Accomplishments: extractSection(text, accomplishmentsAnchor,
			[]*regexp.Regexp{acquisitionAnchor, genericSectionHeader}),
		Acquisition: extractSection(text, acquisitionAnchor,
			[]*regexp.Regexp{genericSectionHeader}),
		IsNewStart: DetectNewStart(text),
	}
}

// extractSection returns the normalized text between the start anchor and the
// nearest subsequent boundary, or to end of text when no boundary matches.
// Boundaries are tried in declaration order and a later pattern only wins at a
// strictly smaller offset, so the earliest-declared pattern takes ties.
func extractSection(text string, start *regexp.Regexp, boundaries []*regexp.Regexp) *string {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	rest := text[loc[1]:]

	end := -1
	for _, b := range boundaries {
		if m := b.FindStringIndex(rest); m != nil {
			if end < 0 || m[0] < end {
				end = m[0]
			}
		}
	}
	var section string
	if end < 0 {
		section = rest
	} else {
		section = rest[:end]
	}
	s := NormalizeWhitespace(section)
	return &s
}

// DetectNewStart scans for a "New Start" label followed by Yes or No.
// No match returns nil so callers can tell "not stated" from "No".
func DetectNewStart(text string) *bool {
	m := newStartPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.EqualFold(m[1], "yes")
	return &v
}
