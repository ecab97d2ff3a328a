package bypass

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "auditgate/pkg/domain-errors"
)

// =============================================================================
// Signer Test Suite
// =============================================================================
// Justification: tokens are the only way around the history and rate checks,
// so the round trip, every rejection reason, and the wire shape are pinned.

type SignerSuite struct {
	suite.Suite
	now    time.Time
	signer *Signer
}

func TestSignerSuite(t *testing.T) {
	suite.Run(t, new(SignerSuite))
}

func (s *SignerSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	signer, err := NewSigner([]byte("0123456789abcdef0123456789abcdef"), WithClock(s.clock))
	s.Require().NoError(err)
	s.signer = signer
}

func (s *SignerSuite) clock() time.Time { return s.now }

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *SignerSuite) TestNewSigner() {
	s.Run("short secret rejected", func() {
		_, err := NewSigner([]byte("short"))
		s.Error(err)
	})

	s.Run("default TTL above max rejected", func() {
		_, err := NewSigner([]byte("0123456789abcdef"), WithDefaultTTL(2*time.Hour), WithMaxTTL(time.Hour))
		s.Error(err)
	})

	s.Run("derived from admin key", func() {
		a, err := NewSignerFromAdminKey("admin-secret", WithClock(s.clock))
		s.Require().NoError(err)
		b, err := NewSignerFromAdminKey("admin-secret", WithClock(s.clock))
		s.Require().NoError(err)

		issued, err := a.Issue("Acme", "Boise, ID", time.Hour)
		s.Require().NoError(err)
		s.True(b.Verify(issued.Token).Valid)
	})

	s.Run("empty admin key rejected", func() {
		_, err := NewSignerFromAdminKey("")
		s.Error(err)
	})
}

// =============================================================================
// Issue Tests
// =============================================================================

func (s *SignerSuite) TestIssue() {
	s.Run("round trip returns business identity", func() {
		issued, err := s.signer.Issue("Mario's Pizza", "Austin, TX", 0)
		s.Require().NoError(err)
		s.Equal(s.now.Add(DefaultTTL), issued.ExpiresAt)

		res := s.signer.Verify(issued.Token)
		s.True(res.Valid)
		s.Equal(ReasonNone, res.Reason)
		s.Equal("Mario's Pizza", res.BusinessName)
		s.Equal("Austin, TX", res.Location)
		s.Equal(issued.ExpiresAt, res.ExpiresAt)
	})

	s.Run("wire format is base64 json dot hex signature", func() {
		issued, err := s.signer.Issue("Acme", "Boise, ID", time.Minute)
		s.Require().NoError(err)

		parts := strings.Split(issued.Token, ".")
		s.Require().Len(parts, 2)

		body, err := base64.StdEncoding.DecodeString(parts[0])
		s.Require().NoError(err)
		var fields map[string]any
		s.Require().NoError(json.Unmarshal(body, &fields))
		s.Equal("Acme", fields["businessName"])
		s.Equal("Boise, ID", fields["location"])
		s.EqualValues(s.now.Add(time.Minute).UnixMilli(), fields["expires"])
		nonce, ok := fields["nonce"].(string)
		s.Require().True(ok)
		s.Len(nonce, 32)

		sig, err := hex.DecodeString(parts[1])
		s.Require().NoError(err)
		s.Len(sig, 32)
	})

	s.Run("nonce makes tokens unique", func() {
		a, err := s.signer.Issue("Acme", "Boise, ID", time.Hour)
		s.Require().NoError(err)
		b, err := s.signer.Issue("Acme", "Boise, ID", time.Hour)
		s.Require().NoError(err)
		s.NotEqual(a.Token, b.Token)
	})

	s.Run("missing name or location is a validation error", func() {
		_, err := s.signer.Issue("  ", "Boise, ID", time.Hour)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.signer.Issue("Acme", "", time.Hour)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("ttl above max is rejected", func() {
		_, err := s.signer.Issue("Acme", "Boise, ID", DefaultMaxTTL+time.Second)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Verify Tests
// =============================================================================

func (s *SignerSuite) TestVerify() {
	issued, err := s.signer.Issue("Acme", "Boise, ID", time.Hour)
	s.Require().NoError(err)
	parts := strings.Split(issued.Token, ".")

	s.Run("expired after ttl", func() {
		s.now = s.now.Add(time.Hour + time.Millisecond)
		defer func() { s.now = s.now.Add(-(time.Hour + time.Millisecond)) }()

		res := s.signer.Verify(issued.Token)
		s.False(res.Valid)
		s.Equal(ReasonExpired, res.Reason)
	})

	s.Run("expiry instant itself is expired", func() {
		s.now = s.now.Add(time.Hour)
		defer func() { s.now = s.now.Add(-time.Hour) }()

		s.Equal(ReasonExpired, s.signer.Verify(issued.Token).Reason)
	})

	s.Run("flipped signature character", func() {
		sig := []byte(parts[1])
		if sig[0] == 'a' {
			sig[0] = 'b'
		} else {
			sig[0] = 'a'
		}
		res := s.signer.Verify(parts[0] + "." + string(sig))
		s.False(res.Valid)
		s.Equal(ReasonSignature, res.Reason)
	})

	s.Run("payload swapped under original signature", func() {
		other, err := s.signer.Issue("Globex", "Boise, ID", time.Hour)
		s.Require().NoError(err)
		otherPayload := strings.Split(other.Token, ".")[0]

		res := s.signer.Verify(otherPayload + "." + parts[1])
		s.Equal(ReasonSignature, res.Reason)
	})

	s.Run("different key rejects", func() {
		other, err := NewSigner([]byte("fedcba9876543210fedcba9876543210"), WithClock(s.clock))
		s.Require().NoError(err)
		s.Equal(ReasonSignature, other.Verify(issued.Token).Reason)
	})

	s.Run("non hex signature", func() {
		s.Equal(ReasonSignature, s.signer.Verify(parts[0]+".zz").Reason)
	})

	s.Run("format errors", func() {
		for _, token := range []string{
			"",
			"no-dot",
			"a.b.c",
			"." + parts[1],
			"!!!notbase64." + parts[1],
		} {
			res := s.signer.Verify(token)
			s.False(res.Valid, token)
			s.Equal(ReasonFormat, res.Reason, token)
		}
	})

	s.Run("signed garbage json is a format error", func() {
		encoded := base64.StdEncoding.EncodeToString([]byte("not json"))
		token := encoded + "." + hex.EncodeToString(s.signer.sign(encoded))
		s.Equal(ReasonFormat, s.signer.Verify(token).Reason)
	})
}
