// Package pipeline orchestrates the per-video product flow: description
// parsing, link reconciliation, retail enrichment, persistence, content
// analysis and CMS draft publishing.
package pipeline

import (
	"context"
	"log"
	"strings"

	"github.com/creatorlink/product-pipeline-go/internal/model"
	"github.com/creatorlink/product-pipeline-go/internal/parser"
)

// RetailSearcher is the slice of the retail catalog client the reconciler
// needs. Search never returns an error; nil means no usable result.
type RetailSearcher interface {
	Search(ctx context.Context, query, searchIndex string) *model.RetailSearchResult
	Enabled() bool
}

// Reconciler merges parsed product candidates into a final link list:
// duplicates collapse first-wins, explicit retail links get the partner tag,
// and records still missing a retail link are enriched through catalog
// search when a searcher is configured.
type Reconciler struct {
	retail      RetailSearcher
	partnerTag  string
	searchIndex string
}

// NewReconciler builds a reconciler. retail may be nil; enrichment is then
// skipped entirely.
func NewReconciler(retail RetailSearcher, partnerTag, searchIndex string) *Reconciler {
	return &Reconciler{
		retail:      retail,
		partnerTag:  partnerTag,
		searchIndex: searchIndex,
	}
}

// Reconcile deduplicates candidates and fills in missing retail links.
// Input order is preserved; for duplicate keys the first occurrence wins.
// Links that came straight from the description are never overwritten.
func (r *Reconciler) Reconcile(ctx context.Context, candidates []model.ExtractedProduct) []model.ExtractedProduct {
	seen := make(map[string]struct{}, len(candidates))
	products := make([]model.ExtractedProduct, 0, len(candidates))

	for _, candidate := range candidates {
		if !candidate.HasLink() {
			continue
		}
		key := candidate.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if candidate.AmazonURL != "" {
			candidate.AmazonURL = parser.WithPartnerTag(candidate.AmazonURL, r.partnerTag)
		}
		products = append(products, candidate)
	}

	r.enrich(ctx, products)
	return products
}

// enrich runs catalog searches sequentially so the client's shared rate
// gate spaces the outbound calls.
func (r *Reconciler) enrich(ctx context.Context, products []model.ExtractedProduct) {
	if r.retail == nil || !r.retail.Enabled() {
		return
	}

	for i := range products {
		p := &products[i]
		if p.AmazonURL != "" {
			continue
		}
		if !searchable(p.SearchQuery) {
			log.Printf("[Reconcile] skipping enrichment for %q, query %q not searchable", p.Name, p.SearchQuery)
			continue
		}

		result := r.retail.Search(ctx, p.SearchQuery, r.searchIndex)
		if result == nil || result.URL == "" {
			continue
		}

		p.AmazonURL = result.URL
		if p.Price == "" {
			p.Price = result.Price
		}
		if p.ImageURL == "" {
			p.ImageURL = result.ImageURL
		}
	}
}

// searchable rejects queries too weak to identify a product: blank,
// shorter than three characters, or the unresolved-brand placeholder.
func searchable(query string) bool {
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return false
	}
	return !strings.EqualFold(query, "unknown")
}
