package enricher

import (
	"encoding/json"
	"strings"
)

// modelOutput is the subset of the model's JSON answer the merge understands.
// Values of the wrong type are ignored.
type modelOutput struct {
	Summary   string
	Questions []string
	Pages     []pageUpdate
}

type pageUpdate struct {
	URL         string
	Title       string
	Description string
}

// parseOutput decodes the model's answer. When the content is not a JSON
// object it retries with the text between the first "{" and the last "}".
func parseOutput(content string) (*modelOutput, bool) {
	raw, ok := decodeObject(content)
	if !ok {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil, false
		}
		if raw, ok = decodeObject(content[start : end+1]); !ok {
			return nil, false
		}
	}

	out := &modelOutput{}
	if s, ok := raw["summary"].(string); ok {
		out.Summary = s
	}
	if qs, ok := raw["questions"].([]any); ok {
		for _, q := range qs {
			if s, ok := q.(string); ok {
				out.Questions = append(out.Questions, s)
			}
		}
	}
	if pages, ok := raw["pages"].([]any); ok {
		for _, p := range pages {
			entry, ok := p.(map[string]any)
			if !ok {
				continue
			}
			u, _ := entry["url"].(string)
			if u == "" {
				continue
			}
			title, _ := entry["title"].(string)
			desc, _ := entry["description"].(string)
			out.Pages = append(out.Pages, pageUpdate{URL: u, Title: title, Description: desc})
		}
	}
	return out, true
}

func decodeObject(s string) (map[string]any, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw == nil {
		return nil, false
	}
	return raw, true
}
