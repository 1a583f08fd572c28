package enricher

import (
	"strings"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/models"
)

// MergeByKey returns a copy of original where every page whose canonical
// URL matches an update takes that update's non-blank title and
// description. Updates for unknown URLs are ignored, so the result always
// has the same URLs in the same order as original. original is expected to
// be unique by canonical key already (MapPages guarantees it for crawls).
func MergeByKey(original, updates []models.PageItem) []models.PageItem {
	byKey := make(map[string]models.PageItem, len(updates))
	for _, u := range updates {
		key := common.CanonicalKey(u.URL)
		prev := byKey[key]
		byKey[key] = prev.WithText(strings.TrimSpace(u.Title), strings.TrimSpace(u.Description))
	}

	merged := models.ClonePages(original)
	for i, page := range merged {
		if u, ok := byKey[common.CanonicalKey(page.URL)]; ok {
			merged[i] = page.WithText(u.Title, u.Description)
		}
	}
	return merged
}

// toUpdates trims the model's page suggestions to display length.
func toUpdates(pages []pageUpdate) []models.PageItem {
	updates := make([]models.PageItem, 0, len(pages))
	for _, p := range pages {
		u := models.PageItem{URL: p.URL}
		if strings.TrimSpace(p.Title) != "" {
			u.Title = common.TrimTo(p.Title, MaxTitleChars)
		}
		if strings.TrimSpace(p.Description) != "" {
			u.Description = common.TrimTo(p.Description, MaxDescChars)
		}
		updates = append(updates, u)
	}
	return updates
}

// mergeQuestions prefers the model's questions. When it returned fewer than
// four, the user's own questions fill up the list, skipping any whose
// normalized form is already present.
func mergeQuestions(fromModel, fromUser []string) []string {
	var questions []string
	for _, q := range fromModel {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
		if len(questions) == MaxQuestions {
			break
		}
	}
	if len(questions) >= minModelQuestions {
		return questions
	}

	seen := map[string]bool{}
	for _, q := range questions {
		seen[common.NormalizeKey(q)] = true
	}
	for _, q := range fromUser {
		key := common.NormalizeKey(q)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		questions = append(questions, q)
	}

	if len(questions) > MaxQuestions {
		questions = questions[:MaxQuestions]
	}
	return questions
}
