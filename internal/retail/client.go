package retail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/creatorlink/product-pipeline-go/internal/model"
)

const (
	searchPath   = "/paapi5/searchitems"
	searchTarget = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"
	serviceName  = "ProductAdvertisingAPI"

	// DefaultMinRequestInterval is the minimum spacing between outbound
	// search calls the API tolerates without throttling.
	DefaultMinRequestInterval = 1100 * time.Millisecond

	// DefaultCacheTTL is how long search results, including negatives,
	// are served from cache.
	DefaultCacheTTL = 24 * time.Hour
)

// Config holds the retail search API credentials and tuning knobs.
type Config struct {
	AccessKey          string
	SecretKey          string
	PartnerTag         string
	Marketplace        string // e.g. "www.amazon.com"
	Host               string // e.g. "webservices.amazon.com"
	Region             string // e.g. "us-east-1"
	SearchIndex        string // default search index, e.g. "Beauty"
	MinRequestInterval time.Duration
	CacheTTL           time.Duration
	Timeout            time.Duration
}

// Client issues signed, rate-limited, cached search requests against the
// retail catalog API. All outbound calls pass through one shared rate gate
// regardless of caller, and the client never returns an error: any failure
// resolves to nil and is cached as a negative.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	signer     *signer
	cache      *searchCache
	limiter    *rate.Limiter
}

// NewClient creates a retail catalog client from config, applying defaults
// for anything unset.
func NewClient(cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = "webservices.amazon.com"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Marketplace == "" {
		cfg.Marketplace = "www.amazon.com"
	}
	if cfg.SearchIndex == "" {
		cfg.SearchIndex = "Beauty"
	}
	if cfg.MinRequestInterval <= 0 {
		cfg.MinRequestInterval = DefaultMinRequestInterval
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg:        cfg,
		baseURL:    "https://" + cfg.Host,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		signer:     newSigner(cfg.AccessKey, cfg.SecretKey, cfg.Region, serviceName),
		cache:      newSearchCache(cfg.CacheTTL),
		limiter:    rate.NewLimiter(rate.Every(cfg.MinRequestInterval), 1),
	}
}

// Enabled reports whether credentials are configured. A disabled client is
// skipped by the enrichment pass.
func (c *Client) Enabled() bool {
	return c.cfg.AccessKey != "" && c.cfg.SecretKey != "" && c.cfg.PartnerTag != ""
}

type searchRequest struct {
	Keywords    string   `json:"Keywords"`
	Resources   []string `json:"Resources"`
	SearchIndex string   `json:"SearchIndex"`
	ItemCount   int      `json:"ItemCount"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

var searchResources = []string{
	"ItemInfo.Title",
	"ItemInfo.ByLineInfo",
	"Offers.Listings.Price",
	"Offers.Listings.Availability.Type",
	"Images.Primary.Large",
}

type searchResponse struct {
	SearchResult struct {
		Items []searchItem `json:"Items"`
	} `json:"SearchResult"`
}

type searchItem struct {
	ASIN          string `json:"ASIN"`
	DetailPageURL string `json:"DetailPageURL"`
	ItemInfo      struct {
		Title struct {
			DisplayValue string `json:"DisplayValue"`
		} `json:"Title"`
		ByLineInfo struct {
			Brand struct {
				DisplayValue string `json:"DisplayValue"`
			} `json:"Brand"`
		} `json:"ByLineInfo"`
	} `json:"ItemInfo"`
	Offers struct {
		Listings []struct {
			Price struct {
				DisplayAmount string `json:"DisplayAmount"`
			} `json:"Price"`
			Availability struct {
				Type string `json:"Type"`
			} `json:"Availability"`
		} `json:"Listings"`
	} `json:"Offers"`
	Images struct {
		Primary struct {
			Large struct {
				URL string `json:"URL"`
			} `json:"Large"`
		} `json:"Primary"`
	} `json:"Images"`
}

// Search looks up the best-match catalog item for a query. searchIndex
// overrides the configured default when non-empty. It consults the cache
// first, waits on the shared rate gate, and never raises: HTTP errors,
// auth failures, throttling and network errors all resolve to nil and are
// cached as negatives so the same query is not retried within the TTL.
func (c *Client) Search(ctx context.Context, query, searchIndex string) *model.RetailSearchResult {
	key := normalizeQuery(query)
	if key == "" {
		return nil
	}

	if result, hit := c.cache.get(key); hit {
		return result
	}

	if searchIndex == "" {
		searchIndex = c.cfg.SearchIndex
	}

	result := c.doSearch(ctx, key, searchIndex)
	c.cache.put(key, result)
	return result
}

func (c *Client) doSearch(ctx context.Context, query, searchIndex string) *model.RetailSearchResult {
	if err := c.limiter.Wait(ctx); err != nil {
		log.Printf("[Retail] rate gate interrupted for %q: %v", query, err)
		return nil
	}

	payload, err := json.Marshal(searchRequest{
		Keywords:    query,
		Resources:   searchResources,
		SearchIndex: searchIndex,
		ItemCount:   3,
		PartnerTag:  c.cfg.PartnerTag,
		PartnerType: "Associates",
		Marketplace: c.cfg.Marketplace,
	})
	if err != nil {
		log.Printf("[Retail] marshal search request for %q: %v", query, err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[Retail] build search request for %q: %v", query, err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Content-Encoding", "amz-1.0")
	req.Header.Set("X-Amz-Target", searchTarget)
	c.signer.sign(req, payload)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Retail] search request failed for %q: %v", query, err)
		return nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		log.Printf("[Retail] throttled (429) searching %q", query)
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		log.Printf("[Retail] auth failure (%d) searching %q, check access key and signature", resp.StatusCode, query)
		return nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[Retail] search %q returned status %d: %s", query, resp.StatusCode, string(body))
		return nil
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[Retail] decode search response for %q: %v", query, err)
		return nil
	}

	items := parsed.SearchResult.Items
	if len(items) == 0 {
		log.Printf("[Retail] no results for %q", query)
		return nil
	}

	return c.mapItem(items[0])
}

func (c *Client) mapItem(item searchItem) *model.RetailSearchResult {
	result := &model.RetailSearchResult{
		ASIN:     item.ASIN,
		Title:    item.ItemInfo.Title.DisplayValue,
		URL:      c.taggedURL(item.DetailPageURL),
		Brand:    item.ItemInfo.ByLineInfo.Brand.DisplayValue,
		ImageURL: item.Images.Primary.Large.URL,
	}

	if len(item.Offers.Listings) > 0 {
		listing := item.Offers.Listings[0]
		result.Price = listing.Price.DisplayAmount
		result.Available = strings.EqualFold(listing.Availability.Type, "Now")
	}

	return result
}

// taggedURL appends the partner tag to a detail-page URL when absent.
func (c *Client) taggedURL(rawURL string) string {
	if rawURL == "" || c.cfg.PartnerTag == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := u.Query()
	if query.Get("tag") != "" {
		return rawURL
	}
	query.Set("tag", c.cfg.PartnerTag)
	u.RawQuery = query.Encode()
	return u.String()
}
