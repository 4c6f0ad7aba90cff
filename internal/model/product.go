// Package model contains the domain types shared by the product-link
// extraction pipeline: parsed product candidates, brand directory entries
// and retail catalog search results.
package model

import "strings"

// ProductType buckets an extracted product into a coarse category used for
// retail search hints and CMS tagging.
type ProductType string

const (
	ProductTypeMakeup    ProductType = "makeup"
	ProductTypeSkincare  ProductType = "skincare"
	ProductTypeHaircare  ProductType = "haircare"
	ProductTypeFragrance ProductType = "fragrance"
	ProductTypeBodycare  ProductType = "bodycare"
	ProductTypeTools     ProductType = "tools"
	ProductTypeFashion   ProductType = "fashion"
	ProductTypeOther     ProductType = "other"
)

// ExtractionSource records which parsing strategy produced a candidate.
type ExtractionSource string

const (
	SourceProductSection ExtractionSource = "product_section"
	SourceLineScan       ExtractionSource = "line_scan"
)

// BrandEntry is a single brand in the directory: the canonical spelling
// plus any alias spellings that resolve to it.
type BrandEntry struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// ExtractedProduct is one product-link record produced by the pipeline for
// a video. Empty string means "no link of that kind". At least one of
// ShopMyURL, AmazonURL and OriginalURL is always set; a candidate with no
// resolvable link is never emitted.
type ExtractedProduct struct {
	Brand       string           `json:"brand"`
	Name        string           `json:"name"`
	Type        ProductType      `json:"type"`
	SearchQuery string           `json:"search_query"`
	ShopMyURL   string           `json:"shopmy_url,omitempty"`
	AmazonURL   string           `json:"amazon_url,omitempty"`
	OriginalURL string           `json:"original_url,omitempty"`
	Price       string           `json:"price,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Source      ExtractionSource `json:"source,omitempty"`
}

// HasLink reports whether the record carries at least one resolvable URL.
func (p *ExtractedProduct) HasLink() bool {
	return p.ShopMyURL != "" || p.AmazonURL != "" || p.OriginalURL != ""
}

// DedupKey is the reconciliation identity: the original URL when present,
// otherwise the lowercased "brand-name" pair.
func (p *ExtractedProduct) DedupKey() string {
	if p.OriginalURL != "" {
		return p.OriginalURL
	}
	return strings.ToLower(p.Brand + "-" + p.Name)
}

// RetailSearchResult is the best-match candidate returned by the retail
// catalog search API for one query.
type RetailSearchResult struct {
	ASIN      string `json:"asin"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Price     string `json:"price,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Available bool   `json:"available"`
}
