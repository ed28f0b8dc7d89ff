package suggestlist

import (
	"regexp"
)

// Emphasize splits text into segments, marking every non-overlapping
// case-insensitive occurrence of query as emphasized. The query is matched
// literally.
func Emphasize(text, query string) []Segment {
	if text == "" {
		return nil
	}
	if query == "" {
		return []Segment{{Text: text}}
	}

	pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	last := 0
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Emphasized: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// EmphasizedParts returns only the emphasized pieces, in order.
func EmphasizedParts(segments []Segment) []string {
	var parts []string
	for _, s := range segments {
		if s.Emphasized {
			parts = append(parts, s.Text)
		}
	}
	return parts
}
