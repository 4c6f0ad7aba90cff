package parser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorlink/product-pipeline-go/internal/brands"
	"github.com/creatorlink/product-pipeline-go/internal/model"
)

func newTestParser(t *testing.T, defaultType model.ProductType) *ProductParser {
	t.Helper()
	// nil source makes the directory serve the built-in static list.
	return NewProductParser(brands.NewDirectory(nil, time.Minute), defaultType)
}

func TestExtract_ProductSection(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	description := "PRODUCTS:\n" +
		"Farmacy Green Clean Cleansing Balm - https://go.shopmy.us/abc123\n" +
		"CeraVe Moisturizing Cream https://amzn.to/xyz789\n"

	products := p.Extract(context.Background(), description)
	require.Len(t, products, 2)

	assert.Equal(t, "Farmacy", products[0].Brand)
	assert.Equal(t, "Green Clean Cleansing Balm", products[0].Name)
	assert.Equal(t, model.ProductTypeSkincare, products[0].Type)
	assert.Equal(t, "https://go.shopmy.us/abc123", products[0].ShopMyURL)
	assert.Empty(t, products[0].AmazonURL)
	assert.Equal(t, "https://go.shopmy.us/abc123", products[0].OriginalURL)
	assert.Equal(t, "Farmacy Green Clean Cleansing Balm", products[0].SearchQuery)

	assert.Equal(t, "CeraVe", products[1].Brand)
	assert.Equal(t, "Moisturizing Cream", products[1].Name)
	assert.Equal(t, model.ProductTypeSkincare, products[1].Type)
	assert.Equal(t, "https://amzn.to/xyz789", products[1].AmazonURL)
	assert.Empty(t, products[1].ShopMyURL)
}

func TestExtract_LineScanFallback(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	description := "my favorites lately!\n" +
		"Rare Beauty Soft Pinch Blush - https://go.shopmy.us/def\n"

	products := p.Extract(context.Background(), description)
	require.Len(t, products, 1)

	assert.Equal(t, "Rare Beauty", products[0].Brand)
	assert.Equal(t, "Soft Pinch Blush", products[0].Name)
	assert.Equal(t, model.ProductTypeMakeup, products[0].Type)
	assert.Equal(t, "https://go.shopmy.us/def", products[0].ShopMyURL)
	assert.Equal(t, model.SourceLineScan, products[0].Source)
}

func TestExtract_EmptySectionFallsBackToLineScan(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	description := "Rare Beauty Soft Pinch Blush - https://go.shopmy.us/def\n" +
		"PRODUCTS:\ncoming soon\n"

	products := p.Extract(context.Background(), description)
	require.Len(t, products, 1)
	assert.Equal(t, "Rare Beauty", products[0].Brand)
}

func TestExtract_SkipsSocialLines(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	description := "Follow me on Instagram: https://instagram.com/kyndall\n" +
		"tiktok: https://tiktok.com/@kyndall\n" +
		"Shop my: https://go.shopmy.us/shelf\n"

	products := p.Extract(context.Background(), description)
	assert.Empty(t, products)
}

func TestExtract_LineScanRequiresKnownDomain(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	description := "Cute lamp from this site https://randomshop.example.com/lamp\n"

	products := p.Extract(context.Background(), description)
	assert.Empty(t, products)
}

func TestSplitBrand_LongestPrefixWins(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	description := "PRODUCTS:\nBenefit Cosmetics Foundation - http://x\n"

	products := p.Extract(context.Background(), description)
	require.Len(t, products, 1)
	assert.Equal(t, "Benefit Cosmetics", products[0].Brand)
	assert.Equal(t, "Foundation", products[0].Name)
}

func TestSplitBrand_AliasResolvesToCanonicalName(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	description := "PRODUCTS:\nBenefit Precisely My Brow Pencil - https://go.shopmy.us/b\n"

	products := p.Extract(context.Background(), description)
	require.Len(t, products, 1)
	assert.Equal(t, "Benefit Cosmetics", products[0].Brand)
	assert.Equal(t, "Precisely My Brow Pencil", products[0].Name)
}

func TestSplitBrand_UnknownBrand(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	description := "PRODUCTS:\nSome Mystery Serum - https://go.shopmy.us/m\n"

	products := p.Extract(context.Background(), description)
	require.Len(t, products, 1)
	assert.Equal(t, "Unknown", products[0].Brand)
	assert.Equal(t, "Some Mystery Serum", products[0].Name)
	assert.Equal(t, "Some Mystery Serum", products[0].SearchQuery)
	assert.Equal(t, model.ProductTypeSkincare, products[0].Type)
}

func TestCleanCandidate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Product Name - ", "Product Name"},
		{"Product Name -- — – ", "Product Name"},
		{"  - Product Name", "Product Name"},
		{`"Product Name"`, "Product Name"},
		{"“Product Name” - ", "Product Name"},
		{"Product Name", "Product Name"},
		{" - ", ""},
	}

	for _, tt := range tests {
		got := cleanCandidate(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, got, cleanCandidate(got), "cleaning must be idempotent for %q", tt.in)
	}
}

func TestValidCandidate(t *testing.T) {
	assert.False(t, validCandidate(""))
	assert.False(t, validCandidate("a"))
	assert.False(t, validCandidate("Shop My:"))
	assert.True(t, validCandidate("ok"))
}

func TestInferType(t *testing.T) {
	p := newTestParser(t, model.ProductTypeOther)

	tests := []struct {
		text string
		want model.ProductType
	}{
		{"Soft Pinch Liquid Blush", model.ProductTypeMakeup},
		{"Green Clean Cleansing Balm", model.ProductTypeSkincare},
		{"No. 3 Hair Perfector", model.ProductTypeHaircare},
		{"Cloud Eau de Parfum", model.ProductTypeFragrance},
		{"Brazilian Bum Bum Body Cream", model.ProductTypeSkincare}, // cream outranks body
		{"Sugar Scrub", model.ProductTypeBodycare},
		{"Airwrap Multi-Styler Dryer", model.ProductTypeTools},
		{"Oversized Knit Sweater", model.ProductTypeFashion},
		{"Gift Card", model.ProductTypeOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, p.inferType(tt.text), "text %q", tt.text)
	}
}

func TestInferType_ConfigurableDefault(t *testing.T) {
	p := newTestParser(t, model.ProductTypeMakeup)
	assert.Equal(t, model.ProductTypeMakeup, p.inferType("Gift Card"))
}
