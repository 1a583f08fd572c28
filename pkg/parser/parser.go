package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Article is the main content of one HTML page.
type Article struct {
	URL         string
	Title       string
	Description string
	Markdown    string
	// Links are absolute http(s) links found anywhere on the page,
	// fragments removed, in document order.
	Links []string
}

type Parser struct {
	converter *md.Converter
}

func NewParser() *Parser {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Parser{converter: converter}
}

// Parse uses go-readability to find the main content, converts it to
// markdown and collects page metadata and links with goquery.
func (p *Parser) Parse(rawURL, html string) (*Article, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	article := &Article{
		URL:   rawURL,
		Links: extractLinks(doc, parsedURL),
	}

	// Readability fails on pages without a recognizable body; metadata and
	// links are still useful then.
	readabilityParser := readability.NewParser()
	readable, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err == nil {
		article.Title = normalizeText(readable.Title)
		article.Description = normalizeText(readable.Excerpt)
		if markdown, convErr := p.converter.ConvertString(readable.Content); convErr == nil {
			article.Markdown = strings.TrimSpace(markdown)
		}
	}

	if article.Title == "" {
		article.Title = normalizeText(doc.Find("title").First().Text())
	}
	if desc := metaDescription(doc); desc != "" {
		article.Description = desc
	}

	return article, nil
}

func metaDescription(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if text := normalizeText(content); text != "" {
				return text
			}
		}
	}
	return ""
}

func extractLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""
		link := abs.String()
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})
	return links
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
