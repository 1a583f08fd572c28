package models

// ModeLive marks a document generated from a real crawl.
const ModeLive = "live"

// GeneratedDocument is the result of one pipeline run.
type GeneratedDocument struct {
	Content        string   `json:"content" yaml:"content"`
	Mode           string   `json:"mode" yaml:"mode"`
	Warnings       []string `json:"warnings" yaml:"warnings"`
	EnrichmentUsed bool     `json:"enrichment_used" yaml:"enrichment_used"`
	PageCount      int      `json:"page_count" yaml:"page_count"`
}
