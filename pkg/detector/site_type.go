// Package detector classifies a site from cheap signals: its URL and the
// owner's own description.
package detector

import "strings"

// SiteType is the closed set of site categories accepted by the survey.
type SiteType string

const (
	Docs        SiteType = "docs"
	Marketing   SiteType = "marketing"
	SaaS        SiteType = "saas"
	Ecommerce   SiteType = "ecommerce"
	Marketplace SiteType = "marketplace"
	Services    SiteType = "services"
	Education   SiteType = "education"
	Media       SiteType = "media"
)

// SiteTypes lists every valid SiteType in display order.
var SiteTypes = []SiteType{Docs, Marketing, SaaS, Ecommerce, Marketplace, Services, Education, Media}

// ParseSiteType returns the SiteType named by raw (case-insensitive) and
// whether it is one of the known values.
func ParseSiteType(raw string) (SiteType, bool) {
	candidate := SiteType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range SiteTypes {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// ResolveSiteType keeps an explicit valid choice and otherwise infers one.
func ResolveSiteType(explicit, siteURL, summary string) SiteType {
	if t, ok := ParseSiteType(explicit); ok {
		return t
	}
	return InferSiteType(siteURL, summary)
}

var (
	commerceWords  = []string{"shop", "store", "cart", "checkout", "product"}
	saasWords      = []string{"saas", "software", "platform", "app", "dashboard"}
	servicesWords  = []string{"agency", "consulting", "service"}
	educationWords = []string{"learn", "course", "training", "academy"}
	mediaWords     = []string{"blog", "news", "magazine"}
)

// InferSiteType guesses a SiteType from the site URL and summary. Checks run
// in a fixed order and the first match wins; marketing is the fallback.
func InferSiteType(siteURL, summary string) SiteType {
	u := strings.ToLower(siteURL)
	s := strings.ToLower(summary)

	switch {
	case strings.Contains(u, "docs.") || strings.Contains(s, "documentation"):
		return Docs
	case containsAny(u, commerceWords) || containsAny(s, commerceWords):
		return Ecommerce
	case containsAny(s, saasWords):
		return SaaS
	case containsAny(s, servicesWords):
		return Services
	case containsAny(u, educationWords) || containsAny(s, educationWords):
		return Education
	case containsAny(u, mediaWords):
		return Media
	}
	return Marketing
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
