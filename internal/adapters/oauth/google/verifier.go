package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

var (
	ErrMissingEmail    = errors.New("google id token has no email claim")
	ErrEmailUnverified = errors.New("google account email is not verified")
)

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type verifier struct {
	validate validateFunc
}

// NewVerifier checks Google Sign-In id tokens against Google's published keys.
func NewVerifier() ports.TokenVerifier {
	return &verifier{validate: idtoken.Validate}
}

func (v *verifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := v.validate(ctx, token, clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google id token: %w", err)
	}
	return payloadFromClaims(payload.Claims)
}

func payloadFromClaims(claims map[string]interface{}) (*ports.TokenPayload, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, ErrMissingEmail
	}
	// Google omits email_verified for some workspace accounts; only an
	// explicit false is rejected.
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, ErrEmailUnverified
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name, _ = claims["given_name"].(string)
	}
	return &ports.TokenPayload{Email: email, Name: name}, nil
}
