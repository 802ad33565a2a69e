// internal/form/csrf.go
//
// Playground – Forms subsystem: stateless CSRF token utilities.
//
// Context
//   Rendered forms embed a hidden `csrf_token` input.  The action verifies
//   it on POST to ensure the request originated from a form we rendered.
//   The token is stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.  Prevents replay across users.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – calculated with the configured secret.  Verifies authenticity.
//
//   Validation checks the signature and ensures the timestamp is within
//   MaxAge.  No server-side sessions are required, so every instance behind
//   a load balancer accepts tokens issued by any other.
//
// Workflow
//   •  NewCSRF(key)    → decodes the configured key or generates one.
//   •  Generate()      → returns token string for the renderer.
//   •  Verify(tok)     → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// CSRFKey is the form key carrying the token.
const CSRFKey = "csrf_token"

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size // nonce + ts + sig
	minKeyLen  = 32
	maxSkew    = time.Minute
)

// MaxAge is how long an issued token stays valid.
const MaxAge = 2 * time.Hour

// CSRF issues and verifies tokens with one secret.
type CSRF struct {
	secret    []byte
	ephemeral bool
	now       func() time.Time
}

// NewCSRF decodes key (base64url, at least 32 bytes).  An empty key yields a
// random secret that resets on restart; check Ephemeral and warn.
func NewCSRF(key string) (*CSRF, error) {
	c := &CSRF{now: time.Now}
	if key == "" {
		c.secret = make([]byte, minKeyLen)
		if _, err := rand.Read(c.secret); err != nil {
			return nil, fmt.Errorf("csrf: random key: %w", err)
		}
		c.ephemeral = true
		return c, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("csrf: decode key: %w", err)
	}
	if len(b) < minKeyLen {
		return nil, errors.New("csrf: key shorter than 32 bytes")
	}
	c.secret = b
	return c, nil
}

// Ephemeral reports whether the secret was generated at startup.
func (c *CSRF) Ephemeral() bool { return c.ephemeral }

// Generate creates a new token.  Call once per form render.
func (c *CSRF) Generate() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns true if tok passes HMAC and age checks.
func (c *CSRF) Verify(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	// Future timestamp (clock skew) or older than MaxAge.
	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := c.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > maxSkew {
		return false
	}

	return hmac.Equal(sig, c.sign(nonce, tsBytes))
}

func (c *CSRF) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
