package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mini_one/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	claimUserID   = "user_id"
	claimUsername = "username"
)

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID    string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HS256 identity tokens. It holds no state
// besides the secret, so tokens cannot be revoked short of rotating it.
type TokenCodec struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (c *TokenCodec) TTL() time.Duration { return c.ttl }

func (c *TokenCodec) Issue(userID, username string) (string, error) {
	return c.issue(userID, username, c.now())
}

func (c *TokenCodec) issue(userID, username string, issuedAt time.Time) (string, error) {
	claims := map[string]interface{}{
		claimUserID:   userID,
		claimUsername: username,
		"iat":         issuedAt.Unix(),
	}
	jwtauth.SetExpiry(claims, issuedAt.Add(c.ttl))
	_, tokenString, err := c.auth.Encode(claims)
	return tokenString, err
}

// Verify checks signature, expiry and claims. Every failure wraps
// common.ErrInvalidToken; expiry additionally wraps common.ErrTokenExpired.
func (c *TokenCodec) Verify(tokenString string) (*Identity, error) {
	token, err := jwtauth.VerifyToken(c.auth, tokenString)
	if err != nil {
		return nil, classify(err)
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return IdentityFromClaims(claims)
}

// Verifier searches a request for a token with the given finders, in order,
// and stores the verification result in the request context.
func (c *TokenCodec) Verifier(findTokenFns ...func(r *http.Request) string) func(http.Handler) http.Handler {
	return jwtauth.Verify(c.auth, findTokenFns...)
}

// IdentityFromContext reads the result left by Verifier. A request without
// any token yields common.ErrUnauthorized.
func IdentityFromContext(ctx context.Context) (*Identity, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, classify(err)
	}
	if token == nil {
		return nil, common.ErrUnauthorized
	}
	return IdentityFromClaims(claims)
}

// TokenFromCookie returns a finder for the named cookie.
func TokenFromCookie(name string) func(r *http.Request) string {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// TokenFromHeader reads an "Authorization: Bearer <token>" header.
func TokenFromHeader(r *http.Request) string {
	return jwtauth.TokenFromHeader(r)
}

func IdentityFromClaims(claims jwt.MapClaims) (*Identity, error) {
	id, ok := claims[claimUserID].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: user_id claim is missing or not a string", common.ErrInvalidToken)
	}
	username, ok := claims[claimUsername].(string)
	if !ok {
		return nil, fmt.Errorf("%w: username claim is missing or not a string", common.ErrInvalidToken)
	}
	identity := &Identity{UserID: id, Username: username}
	if iat, ok := claims["iat"].(time.Time); ok {
		identity.IssuedAt = iat
	}
	if exp, ok := claims["exp"].(time.Time); ok {
		identity.ExpiresAt = exp
	}
	return identity, nil
}

func classify(err error) error {
	if errors.Is(err, jwtauth.ErrExpired) {
		return fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
	}
	return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
}

// FindToken applies the same search order as a Verifier built from
// TokenFromCookie(cookieName) and TokenFromHeader.
func FindToken(r *http.Request, cookieName string) string {
	if token := TokenFromCookie(cookieName)(r); token != "" {
		return token
	}
	return TokenFromHeader(r)
}
