package parser

import (
	"context"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/creatorlink/product-pipeline-go/internal/model"
)

// urlRe locates absolute URLs inside a segment.
var urlRe = regexp.MustCompile(`https?://[^\s]+`)

// nonProductMarkers flag lines the fallback scan must skip: social plugs,
// contact lines and the section label itself.
var nonProductMarkers = []string{
	"follow",
	"subscribe",
	"business",
	"instagram:",
	"tiktok:",
	"twitter:",
	"shop my:",
}

// typeRule maps a product category to its trigger keywords. Rules are
// evaluated in order, first match wins.
type typeRule struct {
	Type     model.ProductType
	Keywords []string
}

var typeRules = []typeRule{
	{model.ProductTypeMakeup, []string{
		"foundation", "concealer", "lipstick", "lip liner", "lip gloss", "gloss",
		"mascara", "blush", "bronzer", "highlighter", "eyeshadow", "eyeliner",
		"brow", "primer", "setting spray", "setting powder", "powder", "palette",
		"tint", "contour",
	}},
	{model.ProductTypeSkincare, []string{
		"serum", "moisturizer", "moisturizing", "moisturising", "cleanser",
		"cleansing", "retinol", "toner", "sunscreen", "spf", "essence",
		"exfoliant", "exfoliating", "face mask", "sheet mask", "eye cream",
		"cream", "balm", "niacinamide", "hyaluronic",
	}},
	{model.ProductTypeHaircare, []string{
		"shampoo", "conditioner", "olaplex", "hair oil", "hair mask", "hair",
		"scalp", "leave-in", "heat protectant",
	}},
	{model.ProductTypeFragrance, []string{
		"perfume", "cologne", "eau de", "fragrance", "parfum", "body mist",
	}},
	{model.ProductTypeBodycare, []string{
		"body", "scrub", "bath", "lotion", "deodorant", "hand cream", "soap",
	}},
	{model.ProductTypeTools, []string{
		"brush", "sponge", "dryer", "dyson", "curler", "straightener",
		"curling iron", "flat iron", "roller", "tweezer", "lash curler",
	}},
	{model.ProductTypeFashion, []string{
		"dress", "jeans", "sweater", "hoodie", "skirt", "sneaker", "boots",
		"tote", "jewelry", "necklace", "earring", "sunglasses",
	}},
}

// BrandLookup is the slice of the brand directory the parser needs.
type BrandLookup interface {
	Brands(ctx context.Context) []string
	Lookup(ctx context.Context, name string) (model.BrandEntry, bool)
}

// ProductParser extracts product-link candidates from description text.
type ProductParser struct {
	brands      BrandLookup
	defaultType model.ProductType
}

// NewProductParser creates a parser. defaultType is the category assigned
// when no keyword matches; pass model.ProductTypeMakeup for a beauty-only
// creator, model.ProductTypeOther otherwise.
func NewProductParser(brands BrandLookup, defaultType model.ProductType) *ProductParser {
	if defaultType == "" {
		defaultType = model.ProductTypeOther
	}
	return &ProductParser{brands: brands, defaultType: defaultType}
}

// Extract runs the strategy chain over a description: the labeled product
// section first, the line-by-line scan only when the section path yields
// nothing. Running both would double-count products listed in the section.
func (p *ProductParser) Extract(ctx context.Context, description string) []model.ExtractedProduct {
	segment := SplitDescription(description)

	if segment.Labeled {
		products := p.parseSection(ctx, segment.Text)
		if len(products) > 0 {
			log.Printf("[Parser] product section yielded %d candidates", len(products))
			return products
		}
		log.Printf("[Parser] product section yielded nothing, falling back to line scan")
	}

	products := p.parseLines(ctx, description)
	if len(products) > 0 {
		log.Printf("[Parser] line scan yielded %d candidates", len(products))
	}
	return products
}

// parseSection handles the high-confidence path. The text strictly between
// the end of one URL (or the start of the segment) and the start of the
// next URL holds the name of the product that URL belongs to.
func (p *ProductParser) parseSection(ctx context.Context, text string) []model.ExtractedProduct {
	var products []model.ExtractedProduct

	locs := urlRe.FindAllStringIndex(text, -1)
	prevEnd := 0
	for _, loc := range locs {
		rawURL := trimURL(text[loc[0]:loc[1]])
		between := text[prevEnd:loc[0]]
		prevEnd = loc[1]

		candidate := cleanCandidate(lastNameRun(between))
		if !validCandidate(candidate) {
			continue
		}

		if product := p.buildProduct(ctx, candidate, rawURL, model.SourceProductSection); product != nil {
			products = append(products, *product)
		}
	}

	return products
}

// parseLines is the low-confidence fallback. Unlike the section path it
// requires the URL to belong to a recognized affiliate or retail domain,
// which keeps social-profile and sponsor links out.
func (p *ProductParser) parseLines(ctx context.Context, text string) []model.ExtractedProduct {
	var products []model.ExtractedProduct

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isNonProductLine(trimmed) {
			continue
		}

		loc := urlRe.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}
		rawURL := trimURL(trimmed[loc[0]:loc[1]])
		if !ClassifyLink(rawURL).Recognized() {
			continue
		}

		candidate := cleanCandidate(trimmed[:loc[0]])
		if !validCandidate(candidate) {
			continue
		}

		if product := p.buildProduct(ctx, candidate, rawURL, model.SourceLineScan); product != nil {
			products = append(products, *product)
		}
	}

	return products
}

func (p *ProductParser) buildProduct(ctx context.Context, candidate, rawURL string, source model.ExtractionSource) *model.ExtractedProduct {
	brand, name := p.splitBrand(ctx, candidate)

	searchQuery := name
	if brand != "Unknown" {
		searchQuery = strings.TrimSpace(brand + " " + name)
	}

	product := &model.ExtractedProduct{
		Brand:       brand,
		Name:        name,
		Type:        p.inferType(candidate),
		SearchQuery: searchQuery,
		OriginalURL: rawURL,
		Source:      source,
	}

	classification := ClassifyLink(rawURL)
	product.ShopMyURL = classification.AffiliateURL
	product.AmazonURL = classification.RetailURL

	if !product.HasLink() {
		return nil
	}
	return product
}

// splitBrand walks the length-sorted brand list looking for an anchored
// case-insensitive prefix followed by whitespace. The first (longest) hit
// wins, so "Benefit Cosmetics" is never shadowed by "Benefit".
func (p *ProductParser) splitBrand(ctx context.Context, candidate string) (string, string) {
	for _, brand := range p.brands.Brands(ctx) {
		if len(candidate) <= len(brand) {
			continue
		}
		if !strings.EqualFold(candidate[:len(brand)], brand) {
			continue
		}
		if next := candidate[len(brand)]; next != ' ' && next != '\t' {
			continue
		}

		canonical := brand
		if entry, ok := p.brands.Lookup(ctx, brand); ok {
			canonical = entry.Name
		}
		return canonical, cleanCandidate(candidate[len(brand):])
	}

	return "Unknown", candidate
}

func (p *ProductParser) inferType(text string) model.ProductType {
	lower := strings.ToLower(text)
	for _, rule := range typeRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Type
			}
		}
	}
	return p.defaultType
}

// lastNameRun picks the final non-empty line of the text between two URLs.
// Everything above it belongs to earlier entries or section chatter.
func lastNameRun(between string) string {
	lines := strings.Split(between, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// cleanCandidate strips surrounding whitespace, separator runs (dash,
// en dash, em dash) and wrapping quote marks. It is idempotent: cleaning an
// already-clean string is a no-op.
func cleanCandidate(s string) string {
	const separators = "-–—"
	const quotes = `"'“”‘’`

	for {
		trimmed := strings.TrimSpace(s)
		trimmed = strings.Trim(trimmed, separators)
		trimmed = strings.TrimSpace(trimmed)
		trimmed = strings.Trim(trimmed, quotes)
		if trimmed == s {
			return trimmed
		}
		s = trimmed
	}
}

func validCandidate(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	return strings.ToLower(s) != "shop my:"
}

func isNonProductLine(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range nonProductMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// trimURL drops punctuation that trails a URL captured mid-sentence.
func trimURL(rawURL string) string {
	return strings.TrimRight(rawURL, `.,;:!)"'`)
}
