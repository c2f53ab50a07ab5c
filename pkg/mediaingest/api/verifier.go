package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/tendant/simple-ingest/pkg/mediaingest"
)

// CredentialVerifier authenticates push-style webhook deliveries before the
// body is trusted.
type CredentialVerifier interface {
	Verify(r *http.Request) error
}

// BearerVerifier checks the bearer JWT on push deliveries: signature and
// expiry via jwtauth, then issuer and audience against the configured values.
type BearerVerifier struct {
	auth     *jwtauth.JWTAuth
	issuer   string
	audience string
}

// NewBearerVerifier creates a verifier for the given algorithm and key.
// Empty issuer or audience disables the corresponding claim check.
func NewBearerVerifier(alg string, key []byte, issuer, audience string) *BearerVerifier {
	return &BearerVerifier{
		auth:     jwtauth.New(alg, key, nil),
		issuer:   issuer,
		audience: audience,
	}
}

func (v *BearerVerifier) Verify(r *http.Request) error {
	raw := jwtauth.TokenFromHeader(r)
	if raw == "" {
		return mediaingest.ErrMissingCredential
	}

	token, err := jwtauth.VerifyToken(v.auth, raw)
	if err != nil {
		return fmt.Errorf("%w: %v", mediaingest.ErrInvalidCredential, err)
	}

	if v.issuer != "" && token.Issuer() != v.issuer {
		return fmt.Errorf("%w: unexpected issuer %q", mediaingest.ErrInvalidCredential, token.Issuer())
	}
	if v.audience != "" {
		found := false
		for _, aud := range token.Audience() {
			if aud == v.audience {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: audience mismatch", mediaingest.ErrInvalidCredential)
		}
	}

	return nil
}
