package template

import (
	"regexp"
	"strings"
)

// Section names used when a page carries no explicit section.
const (
	SectionGettingStarted = "Getting Started"
	SectionDocumentation  = "Documentation"
	SectionAPI            = "API"
	SectionPricing        = "Pricing"
	SectionProducts       = "Products"
	SectionSupport        = "Support"
	SectionAbout          = "About"
	SectionBlog           = "Blog"
	SectionOther          = "Other"
	SectionOptional       = "Optional"
)

type sectionPattern struct {
	section  string
	keywords []string
}

// sectionPatterns is checked in order; the first section with a keyword
// found in the page URL or title wins.
var sectionPatterns = []sectionPattern{
	{SectionGettingStarted, []string{"getting-started", "quickstart", "start", "begin", "intro", "introduction", "setup", "install"}},
	{SectionDocumentation, []string{"docs", "documentation", "reference", "manual", "guide", "guides"}},
	{SectionAPI, []string{"api", "apis", "endpoint", "endpoints", "developer", "developers"}},
	{SectionPricing, []string{"pricing", "price", "plans", "plan", "billing", "cost", "costs"}},
	{SectionProducts, []string{"product", "products", "features", "feature", "shop", "store", "collections"}},
	{SectionSupport, []string{"support", "help", "faq", "faqs", "contact", "us"}},
	{SectionAbout, []string{"about", "company", "team", "who", "mission", "values"}},
	{SectionBlog, []string{"blog", "news", "articles", "posts", "updates"}},
}

// sectionOrder is the render order. Sections not listed sort after it.
var sectionOrder = []string{
	SectionGettingStarted, SectionProducts, SectionPricing, SectionDocumentation,
	SectionAPI, SectionSupport, SectionAbout, SectionBlog, SectionOther,
}

const unknownSectionRank = 99

func sectionRank(section string) int {
	for i, s := range sectionOrder {
		if s == section {
			return i
		}
	}
	return unknownSectionRank
}

type contextualRule struct {
	pattern     *regexp.Regexp
	description string
}

// contextualRules describe a page from its URL path when no usable
// description was crawled.
var contextualRules = []contextualRule{
	{regexp.MustCompile(`pric`), "View pricing plans and billing options."},
	{regexp.MustCompile(`doc|guide|tutorial`), "Read documentation and guides."},
	{regexp.MustCompile(`api`), "Explore API reference and endpoints."},
	{regexp.MustCompile(`support|help|faq`), "Get help and find answers to common questions."},
	{regexp.MustCompile(`about|team|company`), "Learn about the company and team."},
	{regexp.MustCompile(`contact`), "Get in touch and find contact information."},
	{regexp.MustCompile(`blog|news`), "Read latest news and articles."},
	{regexp.MustCompile(`product|feature`), "Explore product features and capabilities."},
	{regexp.MustCompile(`collection|shop|store`), "Browse products and collections."},
}

// PlaceholderPhrases mark descriptions that carry no information.
var PlaceholderPhrases = []string{
	"user-prioritized page",
	"nice-to-have context",
	"summary not available",
	"see site for details",
}

const minMeaningfulChars = 20

// HasMeaningfulDescription reports whether d is long enough and not a
// placeholder.
func HasMeaningfulDescription(d string) bool {
	if strings.TrimSpace(d) == "" || len([]rune(d)) < minMeaningfulChars {
		return false
	}
	lower := strings.ToLower(d)
	for _, phrase := range PlaceholderPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}
