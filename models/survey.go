package models

import (
	"net/url"
	"strings"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/pkg/detector"
)

// RawSurvey is the survey exactly as a user submitted it. List fields are
// free text separated by newlines or commas.
type RawSurvey struct {
	SiteName       string `json:"site_name" yaml:"site_name"`
	SiteURL        string `json:"site_url" yaml:"site_url"`
	Summary        string `json:"summary" yaml:"summary"`
	Categories     string `json:"categories,omitempty" yaml:"categories,omitempty"`
	SiteType       string `json:"site_type,omitempty" yaml:"site_type,omitempty"`
	Excludes       string `json:"excludes,omitempty" yaml:"excludes,omitempty"`
	PriorityPages  string `json:"priority_pages,omitempty" yaml:"priority_pages,omitempty"`
	ImportantPages string `json:"important_pages,omitempty" yaml:"important_pages,omitempty"`
	OptionalPages  string `json:"optional_pages,omitempty" yaml:"optional_pages,omitempty"`
	Questions      string `json:"questions,omitempty" yaml:"questions,omitempty"`
}

// SurveyInput is the normalized survey. It is built once per generation
// request and never modified afterwards.
type SurveyInput struct {
	SiteName      string
	SiteURL       string
	Summary       string
	Categories    []string
	SiteType      detector.SiteType
	Excludes      []string
	PriorityPages []string
	OptionalPages []string
	Questions     []string
}

// ValidationErrors maps a survey field to a user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return "invalid survey: " + strings.Join(parts, "; ")
}

const (
	MinSummaryLength = 20
	MinPriorityPages = 3
	MaxPriorityPages = 8
)

// priorityField returns the important_pages alias when present, otherwise
// priority_pages.
func (r RawSurvey) priorityField() string {
	if strings.TrimSpace(r.ImportantPages) != "" {
		return r.ImportantPages
	}
	return r.PriorityPages
}

// NormalizeSurvey trims every field, infers a scheme for bare domains,
// splits list fields and resolves the site type.
func NormalizeSurvey(r RawSurvey) SurveyInput {
	siteURL := common.NormalizeSiteURL(r.SiteURL)
	summary := strings.TrimSpace(r.Summary)

	return SurveyInput{
		SiteName:      strings.TrimSpace(r.SiteName),
		SiteURL:       siteURL,
		Summary:       summary,
		Categories:    common.SplitList(r.Categories),
		SiteType:      detector.ResolveSiteType(r.SiteType, r.SiteURL, summary),
		Excludes:      common.SplitList(r.Excludes),
		PriorityPages: common.SplitList(r.priorityField()),
		OptionalPages: common.SplitList(r.OptionalPages),
		Questions:     common.SplitList(r.Questions),
	}
}

// ValidateSurvey checks the submitted survey field by field. An empty
// result means the survey may be passed to the pipeline.
func ValidateSurvey(r RawSurvey) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(r.SiteName) == "" {
		errs["site_name"] = "Enter a project or brand name."
	}

	siteURL := common.NormalizeSiteURL(r.SiteURL)
	if siteURL == "" {
		errs["site_url"] = "Enter your homepage URL."
	} else if parsed, err := url.Parse(siteURL); err != nil {
		errs["site_url"] = "Enter a valid URL starting with http or https."
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs["site_url"] = "Use an http or https URL."
	}

	if len(strings.TrimSpace(r.Summary)) < MinSummaryLength {
		errs["summary"] = "Describe what your business does (20+ characters)."
	}

	count := len(common.SplitList(r.priorityField()))
	if count < MinPriorityPages || count > MaxPriorityPages {
		errs["important_pages"] = "Add 3-8 important page URLs."
	}

	return errs
}
