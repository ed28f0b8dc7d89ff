package lookup

import (
	"encoding/json"
	"strings"

	"github.com/atinylittleshell/gsuggest/pkg/navigation"
)

type topic struct {
	Text string `json:"Text"`
}

type relatedTopic struct {
	Text   string  `json:"Text"`
	Topics []topic `json:"Topics"`
}

type instantAnswer struct {
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

// ParseResponse extracts candidates from an instant answer body. Grouped
// entries contribute the text of their first topic; entries without text are
// skipped. Order follows the response and duplicates are kept.
func ParseResponse(body []byte) ([]navigation.Candidate, error) {
	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, err
	}

	candidates := make([]navigation.Candidate, 0, len(answer.RelatedTopics))
	for _, entry := range answer.RelatedTopics {
		text := entry.Text
		if entry.Topics != nil {
			if len(entry.Topics) == 0 {
				continue
			}
			text = entry.Topics[0].Text
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		candidates = append(candidates, navigation.Candidate{Text: text})
	}
	return candidates, nil
}
