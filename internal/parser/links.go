package parser

import (
	"net/url"
	"strings"
)

// Domain tables for link classification. Matching is by hostname substring;
// adding a marketplace means adding a row, not code.
var (
	affiliateDomains = []string{
		"shopmy.us",
		"shopmyshelf.us",
		"liketk.it",
		"shop-links.co",
		"howl.me",
	}

	retailDomains = []string{
		"amzn.to",
		"amazon.com",
		"amazon.co.uk",
		"amazon.ca",
	}

	// opaqueShortenerDomains are redirect hosts that do not accept query
	// parameters; partner-tag injection must skip them.
	opaqueShortenerDomains = []string{
		"amzn.to",
	}
)

// Classification assigns a URL to its originating marketplace. At most one
// of the fields is set; both empty means the domain is unrecognized.
type Classification struct {
	AffiliateURL string
	RetailURL    string
}

// Recognized reports whether the URL matched a known marketplace domain.
func (c Classification) Recognized() bool {
	return c.AffiliateURL != "" || c.RetailURL != ""
}

// ClassifyLink tags a URL as an affiliate-shortener link, a retail link, or
// neither.
func ClassifyLink(rawURL string) Classification {
	host := hostOf(rawURL)
	if host == "" {
		return Classification{}
	}

	for _, domain := range affiliateDomains {
		if strings.Contains(host, domain) {
			return Classification{AffiliateURL: rawURL}
		}
	}
	for _, domain := range retailDomains {
		if strings.Contains(host, domain) {
			return Classification{RetailURL: rawURL}
		}
	}
	return Classification{}
}

// WithPartnerTag appends the affiliate partner tag to a retail URL when it
// is missing. Opaque shortened redirects and unparseable URLs are returned
// unchanged.
func WithPartnerTag(rawURL, tag string) string {
	if tag == "" || rawURL == "" {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	host := strings.ToLower(u.Hostname())
	for _, domain := range opaqueShortenerDomains {
		if strings.Contains(host, domain) {
			return rawURL
		}
	}

	query := u.Query()
	if query.Get("tag") != "" {
		return rawURL
	}
	query.Set("tag", tag)
	u.RawQuery = query.Encode()
	return u.String()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
