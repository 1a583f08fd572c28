package common

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultBase is used when a relative reference has no site to resolve against.
const DefaultBase = "https://example.com"

var (
	httpScheme = regexp.MustCompile(`(?i)^https?://`)
	bareDomain = regexp.MustCompile(`^[\w.-]+\.\w{2,}(/.*)?`)
)

// NormalizeSiteURL trims raw and prepends https:// to bare domains such as
// "acme.dev/docs". Anything else without an http(s) scheme is returned as-is
// so validation can reject it.
func NormalizeSiteURL(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	if !httpScheme.MatchString(v) {
		if !bareDomain.MatchString(v) {
			return v
		}
		v = "https://" + v
	}
	return asciiHost(v)
}

// asciiHost converts an internationalised host name to its punycode form.
func asciiHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	host, err := idna.ToASCII(u.Hostname())
	if err != nil || host == u.Hostname() {
		return raw
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	return u.String()
}

// NormalizeBase returns raw without trailing slashes, or DefaultBase when blank.
func NormalizeBase(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return DefaultBase
	}
	return strings.TrimRight(v, "/")
}

// ResolveURL resolves ref against base. Relative references are joined under
// base as a directory. The result has no trailing slash. A reference that
// cannot be parsed comes back trimmed but otherwise untouched, and a blank
// reference yields "".
func ResolveURL(base, ref string) string {
	cleaned := SanitizeURL(ref)
	if cleaned == "" {
		return ""
	}

	baseURL, err := url.Parse(NormalizeBase(base) + "/")
	if err != nil {
		return cleaned
	}
	refURL, err := url.Parse(cleaned)
	if err != nil {
		return cleaned
	}

	return strings.TrimRight(baseURL.ResolveReference(refURL).String(), "/")
}

// CanonicalKey is the identity of a URL inside the pipeline: trailing
// slashes removed, lowercased.
func CanonicalKey(u string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(u), "/"))
}

// PathDepth counts the non-empty path segments of u.
func PathDepth(u string) int {
	parsed, err := url.Parse(u)
	if err != nil {
		return 0
	}
	depth := 0
	for _, seg := range strings.Split(parsed.Path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}
