// Package bypass issues and verifies stateless, HMAC-signed audit tokens.
//
// A token lets a named business skip the history and rate checks until it
// expires. Nothing is persisted: the signature over the payload is the only
// proof of issuance.
//
// Wire format:
//
//	base64(json{businessName, location, expires, nonce}) + "." + hex(HMAC-SHA256(key, base64Payload))
//
// expires is unix milliseconds. nonce is 16 random bytes, hex encoded.
package bypass

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dErrors "auditgate/pkg/domain-errors"
	"auditgate/pkg/platform/secrets"
)

const (
	// MinSecretBytes is the shortest signing key accepted.
	MinSecretBytes = 16

	// DefaultTTL applies when Issue is called with a non-positive TTL.
	DefaultTTL = time.Hour

	// DefaultMaxTTL bounds how long an issued token may live.
	DefaultMaxTTL = 30 * 24 * time.Hour

	// KeyDerivationPurpose scopes keys derived from the admin secret.
	KeyDerivationPurpose = "auditgate/bypass-token/v1"

	nonceBytes = 16
)

// Reason explains why a token failed verification.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonFormat    Reason = "format"
	ReasonSignature Reason = "signature"
	ReasonExpired   Reason = "expired"
)

// payload is the signed JSON body. Field names are part of the wire format.
type payload struct {
	BusinessName string `json:"businessName"`
	Location     string `json:"location"`
	Expires      int64  `json:"expires"`
	Nonce        string `json:"nonce"`
}

// IssuedToken is returned by Issue.
type IssuedToken struct {
	Token        string    `json:"token"`
	BusinessName string    `json:"business_name"`
	Location     string    `json:"location"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// VerifyResult is the outcome of Verify. Malformed input never produces an
// error, only Valid=false with a Reason.
type VerifyResult struct {
	Valid        bool      `json:"valid"`
	BusinessName string    `json:"business_name,omitempty"`
	Location     string    `json:"location,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	Reason       Reason    `json:"reason,omitempty"`
}

// Signer mints and checks bypass tokens. It is safe for concurrent use.
type Signer struct {
	key        []byte
	now        func() time.Time
	defaultTTL time.Duration
	maxTTL     time.Duration
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultTTL sets the lifetime used when Issue receives ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Signer) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithMaxTTL sets the longest lifetime Issue accepts.
func WithMaxTTL(ttl time.Duration) Option {
	return func(s *Signer) {
		if ttl > 0 {
			s.maxTTL = ttl
		}
	}
}

// NewSigner returns a Signer keyed by secret.
func NewSigner(secret []byte, opts ...Option) (*Signer, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("token secret must be at least %d bytes", MinSecretBytes)
	}
	s := &Signer{
		key:        append([]byte(nil), secret...),
		now:        time.Now,
		defaultTTL: DefaultTTL,
		maxTTL:     DefaultMaxTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultTTL > s.maxTTL {
		return nil, fmt.Errorf("default token TTL %s exceeds max %s", s.defaultTTL, s.maxTTL)
	}
	return s, nil
}

// NewSignerFromAdminKey derives the signing key from the admin secret so a
// single configured value can serve both purposes.
func NewSignerFromAdminKey(adminKey string, opts ...Option) (*Signer, error) {
	key, err := secrets.DeriveKey(adminKey, KeyDerivationPurpose, 32)
	if err != nil {
		return nil, fmt.Errorf("derive token key: %w", err)
	}
	return NewSigner(key, opts...)
}

// Issue mints a token for (businessName, location) valid for ttl.
func (s *Signer) Issue(businessName, location string, ttl time.Duration) (*IssuedToken, error) {
	businessName = strings.TrimSpace(businessName)
	location = strings.TrimSpace(location)
	if businessName == "" || location == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "business name and location are required")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if ttl > s.maxTTL {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("token lifetime cannot exceed %s", s.maxTTL))
	}

	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate token nonce")
	}

	expiresAt := s.now().Add(ttl).Truncate(time.Millisecond)
	body, err := json.Marshal(payload{
		BusinessName: businessName,
		Location:     location,
		Expires:      expiresAt.UnixMilli(),
		Nonce:        hex.EncodeToString(nonce),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode token payload")
	}

	encoded := base64.StdEncoding.EncodeToString(body)
	return &IssuedToken{
		Token:        encoded + "." + hex.EncodeToString(s.sign(encoded)),
		BusinessName: businessName,
		Location:     location,
		ExpiresAt:    expiresAt,
	}, nil
}

// Verify checks the signature and expiry of token.
func (s *Signer) Verify(token string) VerifyResult {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 2 || parts[0] == "" {
		return VerifyResult{Reason: ReasonFormat}
	}
	encoded, sigHex := parts[0], parts[1]

	body, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return VerifyResult{Reason: ReasonFormat}
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil || !hmac.Equal(sig, s.sign(encoded)) {
		return VerifyResult{Reason: ReasonSignature}
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return VerifyResult{Reason: ReasonFormat}
	}

	expiresAt := time.UnixMilli(p.Expires)
	if !expiresAt.After(s.now()) {
		return VerifyResult{Reason: ReasonExpired, ExpiresAt: expiresAt}
	}

	return VerifyResult{
		Valid:        true,
		BusinessName: p.BusinessName,
		Location:     p.Location,
		ExpiresAt:    expiresAt,
	}
}

func (s *Signer) sign(encodedPayload string) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(encodedPayload))
	return mac.Sum(nil)
}
