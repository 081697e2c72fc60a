package auth

import (
	"errors"
	"fmt"
	"maps"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// CustomToken is a signed token minted for a uid.
type CustomToken struct {
	AccessToken    string
	ExpirationTime time.Time
}

// TokenClaims are the verified contents of a custom token.
type TokenClaims struct {
	UID       string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    map[string]any
}

var reservedClaims = map[string]bool{
	"aud": true, "exp": true, "iat": true, "iss": true,
	"jti": true, "nbf": true, "sub": true, "uid": true,
}

// CreateCustomToken signs an HS256 token for uid carrying the developer
// claims. The uid does not need to exist in the store.
func (s *InMemoryStore) CreateCustomToken(uid string, developerClaims map[string]any) (*CustomToken, error) {
	if uid == "" {
		return nil, invalidArgument("uid must be a non-empty string")
	}
	if len(s.opts.Secret) == 0 {
		return nil, invalidArgument("no signing secret configured")
	}

	now := s.opts.Clock()
	exp := now.Add(s.opts.TokenTTL)
	claims := gojwt.MapClaims{
		"uid": uid,
		"sub": uid,
		"iss": s.opts.Issuer,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	if len(developerClaims) > 0 {
		for k := range developerClaims {
			if reservedClaims[k] {
				return nil, invalidArgument("developer claim %q is reserved", k)
			}
		}
		claims["claims"] = maps.Clone(developerClaims)
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.opts.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign custom token: %w", err)
	}
	return &CustomToken{AccessToken: signed, ExpirationTime: time.Unix(exp.Unix(), 0)}, nil
}

// VerifyCustomToken checks the signature, issuer and expiry of a token
// created by CreateCustomToken.
func (s *InMemoryStore) VerifyCustomToken(token string) (*TokenClaims, error) {
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.opts.Issuer),
		gojwt.WithTimeFunc(s.opts.Clock),
		gojwt.WithExpirationRequired(),
	)
	parsed, err := parser.Parse(token, func(*gojwt.Token) (any, error) {
		if len(s.opts.Secret) == 0 {
			return nil, errors.New("no signing secret configured")
		}
		return s.opts.Secret, nil
	})
	if err != nil {
		return nil, invalidToken(err)
	}

	mc, ok := parsed.Claims.(gojwt.MapClaims)
	if !ok {
		return nil, invalidToken(errors.New("unexpected claims type"))
	}
	out := &TokenClaims{}
	out.UID, _ = mc["uid"].(string)
	out.Issuer, _ = mc["iss"].(string)
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if c, ok := mc["claims"].(map[string]any); ok {
		out.Claims = c
	}
	if out.UID == "" {
		return nil, invalidToken(errors.New("token has no uid"))
	}
	return out, nil
}
