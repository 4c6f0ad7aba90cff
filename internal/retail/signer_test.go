package retail

import (
	"bytes"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "https://webservices.amazon.com/paapi5/searchitems", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Content-Encoding", "amz-1.0")
	req.Header.Set("X-Amz-Target", searchTarget)
	return req
}

func fixedSigner() *signer {
	s := newSigner("AKIDEXAMPLE", "secret", "us-east-1", serviceName)
	s.now = func() time.Time {
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

var signatureRe = regexp.MustCompile(`Signature=([0-9a-f]{64})$`)

func TestSigner_SetsDateAndAuthorization(t *testing.T) {
	payload := []byte(`{"Keywords":"cerave cream"}`)
	req := newTestRequest(t, payload)

	fixedSigner().sign(req, payload)

	assert.Equal(t, "20240115T120000Z", req.Header.Get("X-Amz-Date"))

	auth := req.Header.Get("Authorization")
	assert.Contains(t, auth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20240115/us-east-1/ProductAdvertisingAPI/aws4_request")
	assert.Contains(t, auth, "SignedHeaders=content-encoding;content-type;host;x-amz-date;x-amz-target")
	assert.Regexp(t, signatureRe, auth)
}

func TestSigner_Deterministic(t *testing.T) {
	payload := []byte(`{"Keywords":"cerave cream"}`)

	req1 := newTestRequest(t, payload)
	req2 := newTestRequest(t, payload)
	fixedSigner().sign(req1, payload)
	fixedSigner().sign(req2, payload)

	assert.Equal(t, req1.Header.Get("Authorization"), req2.Header.Get("Authorization"))
}

func TestSigner_SignatureDependsOnInputs(t *testing.T) {
	payload := []byte(`{"Keywords":"cerave cream"}`)
	req := newTestRequest(t, payload)
	fixedSigner().sign(req, payload)
	base := signatureRe.FindStringSubmatch(req.Header.Get("Authorization"))
	require.NotNil(t, base)

	t.Run("different secret", func(t *testing.T) {
		s := fixedSigner()
		s.secretKey = "other-secret"
		other := newTestRequest(t, payload)
		s.sign(other, payload)
		got := signatureRe.FindStringSubmatch(other.Header.Get("Authorization"))
		require.NotNil(t, got)
		assert.NotEqual(t, base[1], got[1])
	})

	t.Run("different payload", func(t *testing.T) {
		altered := []byte(`{"Keywords":"other query"}`)
		other := newTestRequest(t, altered)
		fixedSigner().sign(other, altered)
		got := signatureRe.FindStringSubmatch(other.Header.Get("Authorization"))
		require.NotNil(t, got)
		assert.NotEqual(t, base[1], got[1])
	})
}

func TestSigner_SigningKeyChain(t *testing.T) {
	s := fixedSigner()

	key := s.signingKey("20240115")
	assert.Len(t, key, 32)
	assert.Equal(t, key, s.signingKey("20240115"))
	assert.NotEqual(t, key, s.signingKey("20240116"))
}
