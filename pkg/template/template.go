// Package template assembles the llms.txt markdown document from the survey
// and the (possibly enriched) page set. It performs no I/O and the same
// inputs always render the same document.
package template

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/models"
)

const (
	DefaultTitle   = "Your Project"
	DefaultSummary = "A factual, one sentence description of who this site helps and what it provides."

	QuestionsHeading = "Key questions this site answers:"

	MaxQuestions     = 6
	MaxSectionPages  = 6
	MaxOptionalPages = 4
)

// Build renders the document. summary overrides input.Summary when set.
func Build(input models.SurveyInput, pages []models.PageItem, questions []string, summary string) string {
	title := firstNonEmpty(common.Squish(input.SiteName), DefaultTitle)
	if common.Squish(summary) == "" {
		summary = input.Summary
	}
	summary = firstNonEmpty(common.Squish(summary), DefaultSummary)

	priorityURLs := resolveList(input.SiteURL, input.PriorityPages)
	priority := keySet(priorityURLs)

	var optionalURLs []string
	for _, u := range resolveList(input.SiteURL, input.OptionalPages) {
		if !priority[common.CanonicalKey(u)] {
			optionalURLs = append(optionalURLs, u)
		}
	}
	optional := keySet(optionalURLs)

	byKey := make(map[string]models.PageItem, len(pages))
	for _, p := range pages {
		byKey[common.CanonicalKey(p.URL)] = p
	}

	priorityItems := declaredItems(priorityURLs, byKey)
	optionalItems := declaredItems(optionalURLs, byKey)

	lines := []string{"# " + title, "", "> " + summary, ""}
	lines = append(lines, questionLines(questions)...)

	all := append([]models.PageItem(nil), priorityItems...)
	for _, p := range pages {
		key := common.CanonicalKey(p.URL)
		if priority[key] || optional[key] {
			continue
		}
		all = append(all, p)
	}
	all = common.DedupeBy(all, func(p models.PageItem) string { return common.CanonicalKey(p.URL) })

	for _, group := range groupByTopic(all) {
		lines = append(lines, sectionLines(group.section, group.pages, MaxSectionPages)...)
	}
	lines = append(lines, sectionLines(SectionOptional, optionalItems, MaxOptionalPages)...)

	return strings.Join(lines, "\n")
}

func firstNonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func resolveList(base string, refs []string) []string {
	var urls []string
	for _, ref := range refs {
		if u := common.ResolveURL(base, ref); u != "" {
			urls = append(urls, u)
		}
	}
	return common.DedupeBy(urls, common.CanonicalKey)
}

func keySet(urls []string) map[string]bool {
	set := make(map[string]bool, len(urls))
	for _, u := range urls {
		set[common.CanonicalKey(u)] = true
	}
	return set
}

// declaredItems produces one entry per user-declared URL. Crawled pages
// with a usable description are taken as they are; otherwise the title and
// description are synthesized from the URL.
func declaredItems(urls []string, byKey map[string]models.PageItem) []models.PageItem {
	items := make([]models.PageItem, 0, len(urls))
	for _, u := range urls {
		existing, ok := byKey[common.CanonicalKey(u)]
		switch {
		case ok && HasMeaningfulDescription(existing.Description):
			items = append(items, existing)
		case ok:
			items = append(items, models.PageItem{
				Section:     existing.Section,
				Title:       existing.Title,
				URL:         u,
				Description: ContextualDescription(u, existing.Title),
			})
		default:
			t := TitleFromURL(u)
			items = append(items, models.PageItem{
				Title:       t,
				URL:         u,
				Description: ContextualDescription(u, t),
			})
		}
	}
	return items
}

func questionLines(questions []string) []string {
	var clean []string
	for _, q := range questions {
		q = common.Squish(q)
		if q == "" {
			continue
		}
		if !strings.HasSuffix(q, "?") {
			q += "?"
		}
		clean = append(clean, "- "+q)
		if len(clean) == MaxQuestions {
			break
		}
	}
	if len(clean) == 0 {
		return nil
	}
	lines := append([]string{QuestionsHeading}, clean...)
	return append(lines, "")
}

func sectionLines(section string, pages []models.PageItem, limit int) []string {
	var bullets []string
	for _, p := range pages {
		if !HasMeaningfulDescription(p.Description) {
			continue
		}
		bullets = append(bullets, "- ["+p.Title+"]("+p.URL+"): "+p.Description)
		if len(bullets) == limit {
			break
		}
	}
	if len(bullets) == 0 {
		return nil
	}
	lines := append([]string{"## " + section}, bullets...)
	return append(lines, "")
}

type sectionGroup struct {
	section string
	pages   []models.PageItem
}

// groupByTopic buckets pages by section, keeping first-seen order inside
// each bucket, then orders buckets by sectionOrder.
func groupByTopic(pages []models.PageItem) []sectionGroup {
	var groups []sectionGroup
	index := map[string]int{}
	for _, p := range pages {
		s := InferSection(p)
		i, ok := index[s]
		if !ok {
			i = len(groups)
			index[s] = i
			groups = append(groups, sectionGroup{section: s})
		}
		groups[i].pages = append(groups[i].pages, p)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return sectionRank(groups[i].section) < sectionRank(groups[j].section)
	})
	return groups
}

// InferSection returns the page's own section, or the first section whose
// keywords appear in its URL or title, or SectionOther.
func InferSection(p models.PageItem) string {
	if strings.TrimSpace(p.Section) != "" {
		return p.Section
	}
	u := strings.ToLower(p.URL)
	t := strings.ToLower(p.Title)
	for _, sp := range sectionPatterns {
		for _, k := range sp.keywords {
			if strings.Contains(u, k) || strings.Contains(t, k) {
				return sp.section
			}
		}
	}
	return SectionOther
}

// ContextualDescription describes a page from its URL path.
func ContextualDescription(rawURL, title string) string {
	path := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		path = strings.ToLower(parsed.Path)
	}
	for _, rule := range contextualRules {
		if rule.pattern.MatchString(path) {
			return rule.description
		}
	}
	return "Learn more about " + strings.ToLower(title) + "."
}

var separators = regexp.MustCompile(`[-_]+`)

// TitleFromURL turns the last path segment into a title ("getting-started"
// becomes "Getting Started"). URLs without a path fall back to the host.
func TitleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	var segment string
	for _, s := range strings.Split(parsed.EscapedPath(), "/") {
		if strings.TrimSpace(s) != "" {
			segment = s
		}
	}
	if segment == "" {
		return parsed.Hostname()
	}

	decoded, err := url.QueryUnescape(segment)
	if err != nil {
		decoded = segment
	}
	words := strings.Fields(separators.ReplaceAllString(decoded, " "))
	if len(words) == 0 {
		return parsed.Hostname()
	}
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
