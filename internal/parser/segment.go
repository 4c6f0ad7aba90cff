// Package parser turns free-text video descriptions into structured
// product-link candidates. It handles the informal "PRODUCTS:" section
// convention creators follow, with a heuristic line-scan fallback.
package parser

import (
	"regexp"
	"strings"
)

var (
	// productHeaderRe matches the start of a labeled product section,
	// e.g. "PRODUCTS:", "Products Mentioned:" or "PRODUCT:".
	productHeaderRe = regexp.MustCompile(`(?i)^PRODUCTS?\s*(MENTIONED)?\s*:?`)

	// sectionEndRe matches the headers that terminate a product section.
	sectionEndRe = regexp.MustCompile(`(?i)^(FOLLOW|SUBSCRIBE|BUSINESS|MUSIC)\b`)

	// capsLabelRe matches any other ALL-CAPS "LABEL:" line, which also
	// terminates the section.
	capsLabelRe = regexp.MustCompile(`^[A-Z][A-Z0-9 &/'.-]*:`)
)

// Segment is the candidate text the segmenter selected from a description.
type Segment struct {
	Text    string
	Labeled bool // taken from a "PRODUCTS:" section
}

// SplitDescription finds the labeled product section of a description. When
// no such section exists the full text is returned as an unlabeled segment
// for line-by-line scanning.
func SplitDescription(description string) Segment {
	lines := strings.Split(description, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		match := productHeaderRe.FindString(trimmed)
		if match == "" {
			continue
		}

		var section []string
		if rest := strings.TrimSpace(trimmed[len(match):]); rest != "" {
			// Products sometimes start on the header line itself.
			section = append(section, rest)
		}

		for _, next := range lines[i+1:] {
			nextTrimmed := strings.TrimSpace(next)
			if endsProductSection(nextTrimmed) {
				break
			}
			section = append(section, next)
		}

		return Segment{Text: strings.Join(section, "\n"), Labeled: true}
	}

	return Segment{Text: description, Labeled: false}
}

func endsProductSection(line string) bool {
	if line == "" {
		return false
	}
	return sectionEndRe.MatchString(line) || capsLabelRe.MatchString(line)
}
