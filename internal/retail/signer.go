// Package retail is the client for the signed retail catalog search API.
// It owns the request signing, the process-wide request rate gate and the
// 24h search cache; callers only ever see a result or nil.
package retail

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	signingAlgorithm = "AWS4-HMAC-SHA256"
	signedHeaderList = "content-encoding;content-type;host;x-amz-date;x-amz-target"
)

// signer implements the chained-HMAC request signing scheme the catalog API
// requires. No other part of the package knows the algorithm.
type signer struct {
	accessKey string
	secretKey string
	region    string
	service   string
	now       func() time.Time
}

func newSigner(accessKey, secretKey, region, service string) *signer {
	return &signer{
		accessKey: accessKey,
		secretKey: secretKey,
		region:    region,
		service:   service,
		now:       time.Now,
	}
}

// sign computes the request signature over the canonical request and sets
// the X-Amz-Date and Authorization headers in place.
func (s *signer) sign(req *http.Request, payload []byte) {
	t := s.now().UTC()
	amzDate := t.Format("20060102T150405Z")
	dateStamp := t.Format("20060102")

	req.Header.Set("X-Amz-Date", amzDate)

	host := req.Host
	if host == "" {
		host = req.URL.Host
	}

	canonicalHeaders := strings.Join([]string{
		"content-encoding:" + req.Header.Get("Content-Encoding"),
		"content-type:" + req.Header.Get("Content-Type"),
		"host:" + host,
		"x-amz-date:" + amzDate,
		"x-amz-target:" + req.Header.Get("X-Amz-Target"),
	}, "\n") + "\n"

	canonicalRequest := strings.Join([]string{
		req.Method,
		req.URL.Path,
		"", // the search endpoint takes no query string
		canonicalHeaders,
		signedHeaderList,
		hexSHA256(payload),
	}, "\n")

	scope := strings.Join([]string{dateStamp, s.region, s.service, "aws4_request"}, "/")

	stringToSign := strings.Join([]string{
		signingAlgorithm,
		amzDate,
		scope,
		hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	signature := hex.EncodeToString(hmacSHA256(s.signingKey(dateStamp), stringToSign))

	req.Header.Set("Authorization", fmt.Sprintf(
		"%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		signingAlgorithm, s.accessKey, scope, signedHeaderList, signature))
}

// signingKey derives the per-day signing key: four chained HMAC-SHA256
// operations seeded from the secret key, date, region and service name.
func (s *signer) signingKey(dateStamp string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+s.secretKey), dateStamp)
	kRegion := hmacSHA256(kDate, s.region)
	kService := hmacSHA256(kRegion, s.service)
	return hmacSHA256(kService, "aws4_request")
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func hexSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
