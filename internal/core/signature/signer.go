// Package signature implements Cloudinary request signing.
//
// A signature is the hex digest of the canonical parameter string followed by
// the API secret. The canonical string sorts parameter names by code point and
// joins key=value pairs with '&'. The api_key is never part of it.
package signature

import (
	"cloudinary-assets/internal/core/domain"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Algorithm is the digest used for signatures
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
)

const TimestampParam = "timestamp"

// excluded parameters are sent with the request but never signed
var excluded = map[string]struct{}{
	"signature":     {},
	"file":          {},
	"api_key":       {},
	"resource_type": {},
	"cloud_name":    {},
}

// Signer signs parameter sets with one API secret
type Signer struct {
	secret    string
	algorithm Algorithm
	now       func() time.Time
}

// NewSigner creates a Signer, an empty algorithm means sha1
func NewSigner(secret string, algorithm string) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: API secret is required for signing", domain.ErrMissingCredentials)
	}
	algo := Algorithm(strings.ToLower(algorithm))
	switch algo {
	case "":
		algo = SHA1
	case SHA1, SHA256:
	default:
		return nil, fmt.Errorf("unsupported signature algorithm %q", algorithm)
	}
	return &Signer{secret: secret, algorithm: algo, now: time.Now}, nil
}

// WithClock replaces the clock used to stamp signatures
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// CanonicalString builds the string that gets signed
func CanonicalString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if _, skip := excluded[k]; skip || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}

// Sign stamps params with the current unix time and signs them.
// params is not modified.
func (s *Signer) Sign(params map[string]string) (domain.SignedParams, error) {
	if s == nil || s.secret == "" {
		return domain.SignedParams{}, fmt.Errorf("%w: API secret is required for signing", domain.ErrMissingCredentials)
	}
	return s.SignAt(params, s.now().Unix()), nil
}

// SignAt signs params as if stamped at timestamp
func (s *Signer) SignAt(params map[string]string, timestamp int64) domain.SignedParams {
	stamped := make(map[string]string, len(params)+1)
	for k, v := range params {
		stamped[k] = v
	}
	stamped[TimestampParam] = strconv.FormatInt(timestamp, 10)

	return domain.SignedParams{
		Signature: s.digest(CanonicalString(stamped)),
		Timestamp: timestamp,
	}
}

// VerifyResponse checks the signature cloudinary returns with an upload response
func (s *Signer) VerifyResponse(publicID string, version int64, signature string) bool {
	expected := s.digest(CanonicalString(map[string]string{
		"public_id": publicID,
		"version":   strconv.FormatInt(version, 10),
	}))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) == 1
}

func (s *Signer) digest(canonical string) string {
	var h hash.Hash
	if s.algorithm == SHA256 {
		h = sha256.New()
	} else {
		h = sha1.New()
	}
	h.Write([]byte(canonical + s.secret))
	return hex.EncodeToString(h.Sum(nil))
}
