package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const goodDoc = `# Acme

> Real-time inventory sync between Shopify and Amazon for online sellers.

Key questions this site answers:
- How do I connect Shopify?
- What does it cost per month?

## Pricing
- [Pricing](https://acme.com/pricing): Compare monthly plans and per-channel pricing.

## Documentation
- [Docs](https://acme.com/docs): Connect your first store in under ten minutes.
- [API](https://acme.com/api): Endpoints for listings, orders and stock levels.
`

func TestValidate_CleanDocument(t *testing.T) {
	cleaned, warnings := Validate(goodDoc)

	assert.Empty(t, warnings)
	assert.Equal(t, strings.TrimRight(goodDoc, "\n"), cleaned)
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "missing structure",
			content: "Acme\n\nno summary here\n",
			want: []string{
				"Missing H1 title",
				"Missing summary blockquote",
				"Only 0 pages with meaningful descriptions (need 3+)",
			},
		},
		{
			name:    "short summary with marketing",
			content: strings.Replace(goodDoc, "Real-time inventory sync between Shopify and Amazon for online sellers.", "A world-class app.", 1),
			want: []string{
				"Summary too short (18 chars, need 30+)",
				"Summary contains marketing phrase: 'world-class'",
			},
		},
		{
			name:    "placeholder descriptions",
			content: strings.Replace(goodDoc, "Connect your first store in under ten minutes.", "Learn more about docs for this site.", 1),
			want:    []string{"Only 2 pages with meaningful descriptions (need 3+)"},
		},
		{
			name:    "one question",
			content: strings.Replace(goodDoc, "- What does it cost per month?\n", "", 1),
			want:    []string{"Only 1 questions (need 2+)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, warnings := Validate(tt.content)
			assert.Equal(t, tt.want, warnings)
		})
	}
}

func TestValidate_NoQuestionBlockIsFine(t *testing.T) {
	doc := strings.Replace(goodDoc, "Key questions this site answers:\n- How do I connect Shopify?\n- What does it cost per month?\n\n", "", 1)
	_, warnings := Validate(doc)
	assert.Empty(t, warnings)
}

func TestRemoveEmptySections(t *testing.T) {
	in := strings.Join([]string{
		"# Acme",
		"",
		"> Summary",
		"",
		"## Empty",
		"",
		"",
		"## Pricing",
		"- [Pricing](https://acme.com/pricing): Plans.",
		"",
		"",
		"",
		"",
		"## Trailing",
		"",
		"",
	}, "\n")

	want := strings.Join([]string{
		"# Acme",
		"",
		"> Summary",
		"",
		"## Pricing",
		"- [Pricing](https://acme.com/pricing): Plans.",
	}, "\n")

	assert.Equal(t, want, RemoveEmptySections(in))
}

func TestRemoveEmptySections_NoHeadingLeftEmpty(t *testing.T) {
	out := RemoveEmptySections("## A\n\n## B\n\n## C\n- x\n## D")
	assert.Equal(t, "## C\n- x", out)
}

func TestRemoveEmptySections_AnyHeadingLevelEndsSection(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"h1 follows", "## Empty\n# Other\n- x", "# Other\n- x"},
		{"h3 follows", "## Empty\n\n### Detail\n- x", "### Detail\n- x"},
		{"hashtag is not a heading", "## Tags\n#golang rocks", "## Tags\n#golang rocks"},
		{"bullet keeps section", "## Kept\n- [A](https://a.com): Alpha.", "## Kept\n- [A](https://a.com): Alpha."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveEmptySections(tt.in))
		})
	}
}
