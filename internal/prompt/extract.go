package prompt

import (
	"regexp"
	"strings"
)

// SectionStatus separates a missing heading from a heading with no body.
type SectionStatus int

const (
	SectionMissing SectionStatus = iota
	SectionEmpty
	SectionFound
)

func (s SectionStatus) String() string {
	switch s {
	case SectionFound:
		return "found"
	case SectionEmpty:
		return "empty"
	default:
		return "missing"
	}
}

type SectionResult struct {
	Text   string
	Status SectionStatus
}

var (
	headingNumbering = regexp.MustCompile(`^\d+[.)]\s*`)
	listMarker       = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)
)

// ExtractSection returns the trimmed body of "## heading" up to the line
// "## nextHeading", or to the end of text when nextHeading is empty or absent.
// A missing heading yields "".
func ExtractSection(text, heading, nextHeading string) string {
	return Extract(text, heading, nextHeading).Text
}

// Extract is ExtractSection with an explicit status.
func Extract(text, heading, nextHeading string) SectionResult {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	start := -1
	for i, line := range lines {
		if h, ok := headingText(line); ok && strings.EqualFold(h, strings.TrimSpace(heading)) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return SectionResult{Status: SectionMissing}
	}

	end := len(lines)
	if nextHeading != "" {
		for i := start; i < len(lines); i++ {
			if h, ok := headingText(lines[i]); ok && strings.EqualFold(h, strings.TrimSpace(nextHeading)) {
				end = i
				break
			}
		}
	}

	body := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
	if body == "" {
		return SectionResult{Status: SectionEmpty}
	}
	return SectionResult{Text: body, Status: SectionFound}
}

// ExtractOutline extracts every field of an outline from a model response.
func ExtractOutline(text string, outline Outline) map[Field]SectionResult {
	out := make(map[Field]SectionResult)
	for i, s := range outline {
		next := ""
		if i+1 < len(outline) {
			next = outline[i+1].Heading
		}
		res := Extract(text, s.Heading, next)
		for _, f := range s.Fields {
			out[f] = res
		}
	}
	return out
}

// headingText reports whether line is a "##" heading and returns its bare
// text, without emphasis markers, numbering, or a trailing colon.
func headingText(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "##") {
		return "", false
	}
	h := strings.TrimLeft(line, "#")
	h = strings.TrimSpace(h)
	for i := 0; i < 2; i++ {
		h = strings.TrimSpace(strings.TrimSuffix(h, ":"))
		h = strings.TrimSpace(strings.Trim(h, "*"))
		h = headingNumbering.ReplaceAllString(h, "")
	}
	return strings.TrimSpace(strings.TrimSuffix(h, ":")), true
}

// SplitItems splits a section body into list items. Bullet and numbered
// markers are removed; a body without markers is one item per paragraph line.
func SplitItems(body string) []string {
	items := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
