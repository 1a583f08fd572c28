// Package ranker picks the crawled pages most worth sending to the
// enrichment model.
package ranker

import (
	"sort"
	"strings"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/models"
)

// Scoring weights. They decide which pages reach the token-limited
// enrichment call, so changing them changes output.
const (
	PriorityWeight = 100
	OptionalWeight = 20
	KeywordWeight  = 4
	ShallowBonus   = 6
)

const (
	DefaultLimit = 12
	MaxLimit     = 18
	MaxKeywords  = 32

	minQuestionToken = 4
)

// StaticKeywords are always part of the keyword set.
var StaticKeywords = []string{
	"pricing", "plans", "billing", "docs", "documentation", "api", "support", "faq",
	"changelog", "security", "integrations", "getting-started", "guides", "tutorials",
	"status", "contact",
}

// Keywords builds the ordered, de-duplicated keyword set for input:
// categories, their slugs, question tokens, then StaticKeywords.
func Keywords(input models.SurveyInput) []string {
	var keywords []string
	seen := map[string]bool{}
	add := func(k string) {
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		keywords = append(keywords, k)
	}

	for _, cat := range input.Categories {
		add(strings.ToLower(cat))
		add(common.Slugify(cat))
	}
	for _, q := range input.Questions {
		for _, token := range common.Tokens(q) {
			if len(token) >= minQuestionToken {
				add(token)
			}
		}
	}
	for _, k := range StaticKeywords {
		add(k)
	}

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	return keywords
}

// URLSet resolves refs against base and returns their canonical keys.
func URLSet(base string, refs []string) map[string]bool {
	set := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if resolved := common.ResolveURL(base, ref); resolved != "" {
			set[common.CanonicalKey(resolved)] = true
		}
	}
	return set
}

// Score rates a single page.
func Score(page models.PageItem, keywords []string, priority, optional map[string]bool) int {
	key := common.CanonicalKey(page.URL)
	score := 0
	if priority[key] {
		score += PriorityWeight
	}
	if optional[key] {
		score += OptionalWeight
	}

	haystack := strings.ToLower(page.Title + " " + page.Description + " " + page.URL)
	for _, k := range keywords {
		if strings.Contains(haystack, k) {
			score += KeywordWeight
		}
	}

	if bonus := ShallowBonus - common.PathDepth(page.URL); bonus > 0 {
		score += bonus
	}
	return score
}

// Select returns at most limit pages ordered by descending score. Ties keep
// crawl order. A limit outside 1..MaxLimit falls back to DefaultLimit or
// MaxLimit.
func Select(pages []models.PageItem, input models.SurveyInput, limit int) []models.PageItem {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	keywords := Keywords(input)
	priority := URLSet(input.SiteURL, input.PriorityPages)
	optional := URLSet(input.SiteURL, input.OptionalPages)

	type scored struct {
		page  models.PageItem
		score int
	}
	ranked := make([]scored, len(pages))
	for i, p := range pages {
		ranked[i] = scored{page: p, score: Score(p, keywords, priority, optional)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]models.PageItem, len(ranked))
	for i, r := range ranked {
		out[i] = r.page
	}
	return out
}
