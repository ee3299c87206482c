// Package authn resolves bearer tokens to user records and injects the
// requester into the request context. Tokens are HMAC-signed claim
// blobs with a random token ID and an expiry enforced at decode time.
package authn

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
)

// tokenName scopes the HMAC so tokens cannot be replayed as some other
// securecookie value.
const tokenName = "clubnexus-token"

// Verifier resolves a bearer token to the requester's email.
type Verifier interface {
	Verify(token string) (email string, err error)
}

// claims is the signed token payload.
type claims struct {
	ID    string
	Email string
}

// Codec issues and verifies bearer tokens.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec creates a Codec signing with hashKey. Tokens expire after
// ttlSeconds.
func NewCodec(hashKey []byte, ttlSeconds int) (*Codec, error) {
	if len(hashKey) < 32 {
		return nil, fmt.Errorf("token hash key must be at least 32 bytes, got %d", len(hashKey))
	}
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(ttlSeconds)
	return &Codec{sc: sc}, nil
}

// Issue signs a new token for email with a fresh token ID.
func (c *Codec) Issue(email string) (string, error) {
	return c.sc.Encode(tokenName, claims{ID: uuid.NewString(), Email: email})
}

// Verify decodes and validates a token, returning the embedded email.
// Tampered or expired tokens fail with an Unauthenticated error.
func (c *Codec) Verify(token string) (string, error) {
	var cl claims
	if err := c.sc.Decode(tokenName, token, &cl); err != nil {
		return "", apierr.Wrap(apierr.Unauthenticated, err, "invalid token")
	}
	return cl.Email, nil
}
