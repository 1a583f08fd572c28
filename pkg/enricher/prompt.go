package enricher

import (
	"encoding/json"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/models"
)

// SystemPrompt instructs the model. The two worked examples anchor tone
// and length better than rules alone.
const SystemPrompt = `You write content for llms.txt files: curated indexes that help AI assistants understand a website.

Your task:
1. Write a one-sentence summary (50-120 chars) that says plainly what this business does and who it serves. Be specific and factual. No marketing fluff.
2. Write 4-6 specific questions a real visitor would ask about this business, each one answerable from the site.
3. For every page URL, write a description (50-120 chars, never more than 140) of what a visitor can DO or LEARN on that page.

Description guidelines:
- Focus on user actions: "Create billing plans with usage-based pricing", not "Our billing solution"
- Be concrete: "Browse organic cotton socks in crew, ankle, and knee styles", not "Shop our products"
- No marketing words: avoid "leading", "best-in-class", "comprehensive", "innovative"
- Start with a verb where possible: "Learn", "Configure", "Browse", "Compare", "Get"

Question guidelines:
- Keep them specific to this business's domain
- The site content should be able to answer them
- Bad: "What do you do?" Good: "How do I sync inventory between Shopify and Amazon?"
- Cover practical topics such as pricing, setup, features and policies

## Example 1: SaaS product

Input:
{"site":{"name":"Acme Sync","url":"https://acmesync.com","userDescription":"inventory sync software","siteType":"saas"},"pages":[{"url":"https://acmesync.com/pricing","title":"Pricing","currentDescription":""},{"url":"https://acmesync.com/features","title":"Features","currentDescription":""},{"url":"https://acmesync.com/docs/getting-started","title":"Getting Started","currentDescription":""},{"url":"https://acmesync.com/integrations","title":"Integrations","currentDescription":""}]}

Output:
{"summary":"Real-time inventory sync between Shopify, Amazon, and WooCommerce for e-commerce sellers.","questions":["How do I connect my Shopify store to Acme Sync?","What happens when inventory reaches zero across channels?","Does Acme Sync support multi-warehouse setups?","How much does Acme Sync cost per month?","Can I set up automatic low-stock alerts?"],"pages":[{"url":"https://acmesync.com/pricing","title":"Pricing","description":"Compare monthly plans and see per-channel pricing for inventory sync."},{"url":"https://acmesync.com/features","title":"Features","description":"See real-time sync, multi-warehouse support, and low-stock alerts in action."},{"url":"https://acmesync.com/docs/getting-started","title":"Getting Started","description":"Connect your first store and configure sync rules in under 10 minutes."},{"url":"https://acmesync.com/integrations","title":"Integrations","description":"Browse supported platforms including Shopify, Amazon, WooCommerce, and BigCommerce."}]}

## Example 2: E-commerce store

Input:
{"site":{"name":"Green Thread Co","url":"https://greenthread.co","userDescription":"sustainable clothing","siteType":"ecommerce"},"pages":[{"url":"https://greenthread.co/collections/mens","title":"Men's Collection","currentDescription":""},{"url":"https://greenthread.co/pages/our-story","title":"Our Story","currentDescription":""},{"url":"https://greenthread.co/pages/sustainability","title":"Sustainability","currentDescription":""},{"url":"https://greenthread.co/pages/shipping","title":"Shipping","currentDescription":""}]}

Output:
{"summary":"Organic cotton basics and recycled activewear for environmentally conscious shoppers.","questions":["What certifications do your organic materials have?","How long does shipping take within the US?","Do you offer free returns on clothing?","What is your sizing like compared to standard US sizes?","Are your packaging materials also sustainable?"],"pages":[{"url":"https://greenthread.co/collections/mens","title":"Men's Collection","description":"Shop organic cotton tees, recycled polyester shorts, and sustainable basics for men."},{"url":"https://greenthread.co/pages/our-story","title":"Our Story","description":"Learn how we source materials and partner with ethical factories worldwide."},{"url":"https://greenthread.co/pages/sustainability","title":"Sustainability","description":"See our GOTS certification, carbon footprint data, and recycling programs."},{"url":"https://greenthread.co/pages/shipping","title":"Shipping & Returns","description":"View delivery times, costs, and our 30-day free return policy."}]}

Now process the following input and return only valid JSON:`

type sitePayload struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	UserDescription string `json:"userDescription"`
	SiteType        string `json:"siteType"`
	Language        string `json:"language,omitempty"`
}

type pagePayload struct {
	URL                string `json:"url"`
	Title              string `json:"title"`
	CurrentDescription string `json:"currentDescription"`
	ContentPreview     string `json:"contentPreview,omitempty"`
}

type promptPayload struct {
	Site  sitePayload   `json:"site"`
	Pages []pagePayload `json:"pages"`
}

func buildPayload(input models.SurveyInput, pages []models.PageItem, language string) promptPayload {
	payload := promptPayload{
		Site: sitePayload{
			Name:            input.SiteName,
			URL:             input.SiteURL,
			UserDescription: input.Summary,
			SiteType:        string(input.SiteType),
			Language:        language,
		},
		Pages: make([]pagePayload, 0, len(pages)),
	}
	for _, p := range pages {
		entry := pagePayload{
			URL:                p.URL,
			Title:              common.TrimTo(p.Title, MaxTitleChars),
			CurrentDescription: common.TrimTo(p.Description, MaxSourceChars),
		}
		if p.HasContent() {
			entry.ContentPreview = common.TrimTo(p.Content, MaxContentChars)
		}
		payload.Pages = append(payload.Pages, entry)
	}
	return payload
}

// userMessage renders the payload as indented JSON.
func userMessage(payload promptPayload) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
