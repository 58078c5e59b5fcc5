// Package auth mints and verifies the bearer tokens that scope dashboard
// API requests to one organization member.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tikdhq/tikd/internal/platform/requestctx"
)

const defaultTokenTTL = 12 * time.Hour

var (
	// ErrTokenInvalid indicates the token failed signature or claims checks.
	ErrTokenInvalid = errors.New("access token is invalid")
	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.New("access token is expired")
)

// Config defines how access tokens are minted and verified.
type Config struct {
	Issuer string
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// accessClaims is the internal claims type used for JWT parsing.
type accessClaims struct {
	jwt.RegisteredClaims
	OrgID    string `json:"org_id"`
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

// Mint issues a signed access token for one organization member.
func Mint(cfg Config, actor requestctx.Actor) (string, error) {
	if len(cfg.Secret) == 0 {
		return "", errors.New("token secret is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return "", errors.New("token issuer is required")
	}
	if actor.OrgID == "" || actor.MemberID == "" {
		return "", errors.New("actor org and member ids are required")
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	issuedAt := now().UTC()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   actor.MemberID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		OrgID:    actor.OrgID,
		MemberID: actor.MemberID,
		Role:     actor.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates an access token, returning the actor it grants.
func Verify(cfg Config, token string) (requestctx.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return requestctx.Actor{}, ErrTokenInvalid
	}
	if len(cfg.Secret) == 0 || strings.TrimSpace(cfg.Issuer) == "" {
		return requestctx.Actor{}, errors.New("token verifier is not configured")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(cfg.Issuer),
	}
	if cfg.Now != nil {
		options = append(options, jwt.WithTimeFunc(cfg.Now))
	}

	var parsed accessClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return cfg.Secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return requestctx.Actor{}, ErrTokenExpired
		}
		return requestctx.Actor{}, ErrTokenInvalid
	}
	if parsed.OrgID == "" || parsed.MemberID == "" {
		return requestctx.Actor{}, ErrTokenInvalid
	}
	return requestctx.Actor{
		OrgID:    parsed.OrgID,
		MemberID: parsed.MemberID,
		Role:     parsed.Role,
	}, nil
}
