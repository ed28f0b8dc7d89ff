package searchbox

import "time"

type Options struct {
	// Debounce is the quiet period after an edit before a lookup is issued.
	Debounce time.Duration
	// MinQueryLength is the shortest field value, in runes, that is looked up.
	// Anything shorter clears the suggestions.
	MinQueryLength        int
	MaxVisibleSuggestions int
	MaxVisibleHistory     int
	Prompt                string
	Placeholder           string
}

func NewOptions() Options {
	return Options{
		Debounce:              120 * time.Millisecond,
		MinQueryLength:        2,
		MaxVisibleSuggestions: 10,
		MaxVisibleHistory:     8,
		Prompt:                "search> ",
		Placeholder:           "type to search",
	}
}
