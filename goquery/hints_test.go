package goquery_test

import (
	"testing"

	"github.com/shoplens/shoplens/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHintParser_Parse_MetaTags(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<meta property="og:title" content="Trail Runner Backpack 30L">
		<meta property="og:description" content="A ventilated trail backpack.">
		<meta property="og:image" content="https://cdn.test/og-product.jpg">
		<meta property="product:price:amount" content="2499.00">
		<meta property="product:price:currency" content="INR">
	</head><body></body></html>`

	h, err := goquery.NewHintParser().Parse(html)
	require.NoError(t, err)

	assert.Equal(t, "Trail Runner Backpack 30L", h.Title)
	assert.Equal(t, "A ventilated trail backpack.", h.Description)
	assert.Equal(t, "2499.00", h.Price)
	assert.Equal(t, "INR", h.Currency)
	assert.Equal(t, []string{"https://cdn.test/og-product.jpg"}, h.Images)
}

func TestHintParser_Parse_ProductJSONLD(t *testing.T) {
	t.Parallel()

	html := `<html><head>
	<script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Product",
		"name": "Trail Runner Backpack 30L",
		"description": "A ventilated trail backpack.",
		"category": "Backpacks",
		"image": ["https://cdn.test/ld-1.jpg", "https://cdn.test/ld-2.jpg"],
		"offers": {"@type": "Offer", "price": 2499, "priceCurrency": "INR"}
	}
	</script>
	</head><body></body></html>`

	h, err := goquery.NewHintParser().Parse(html)
	require.NoError(t, err)

	assert.Equal(t, "Trail Runner Backpack 30L", h.Title)
	assert.Equal(t, "Backpacks", h.Category)
	assert.Equal(t, "2499", h.Price)
	assert.Equal(t, "INR", h.Currency)
	assert.Equal(t, []string{"https://cdn.test/ld-1.jpg", "https://cdn.test/ld-2.jpg"}, h.Images)
}

func TestHintParser_Parse_IgnoresNonProductLD(t *testing.T) {
	t.Parallel()

	html := `<html><head>
	<script type="application/ld+json">
	{"@type": "BreadcrumbList", "name": "crumbs"}
	</script>
	</head><body></body></html>`

	h, err := goquery.NewHintParser().Parse(html)
	require.NoError(t, err)
	assert.Empty(t, h.Title)
}

func TestHintParser_Parse_MetaBeatsLD(t *testing.T) {
	t.Parallel()

	html := `<html><head>
	<meta property="og:title" content="Meta Title">
	<script type="application/ld+json">
	{"@type": "Product", "name": "LD Title"}
	</script>
	</head><body></body></html>`

	h, err := goquery.NewHintParser().Parse(html)
	require.NoError(t, err)
	assert.Equal(t, "Meta Title", h.Title)
}

func TestHintParser_Parse_EmptyPage(t *testing.T) {
	t.Parallel()

	h, err := goquery.NewHintParser().Parse("<html><body></body></html>")
	require.NoError(t, err)
	assert.Empty(t, h.Title)
	assert.Empty(t, h.Images)
}
