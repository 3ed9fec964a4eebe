package middleware

import (
	"context"
	"errors"
	"net/http"

	"mini_one/internal/common"
	"mini_one/internal/common/security"
	"mini_one/internal/domain/model"

	"github.com/sirupsen/logrus"
)

type contextKey string

const UserCtxKey contextKey = "user"

// UserLoader resolves a verified token's user id to the stored user.
type UserLoader interface {
	LoadUser(ctx context.Context, userID string) (*model.PublicUser, error)
}

// Gate authenticates requests: token from cookie or bearer header, verified,
// then resolved to a user that is attached to the request context.
type Gate struct {
	tokens     *security.TokenCodec
	users      UserLoader
	cookieName string
	errors     common.ErrorResponder
	log        logrus.FieldLogger
}

func NewGate(tokens *security.TokenCodec, users UserLoader, cookieName string, errs common.ErrorResponder) *Gate {
	return &Gate{tokens: tokens, users: users, cookieName: cookieName, errors: errs, log: errs.Log}
}

// Require rejects the request with 401 unless it carries a valid token of an
// existing user.
func (g *Gate) Require(next http.Handler) http.Handler {
	authenticate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.identify(r)
		if err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{
				"expired":         errors.Is(err, common.ErrTokenExpired),
				"http.req.method": r.Method,
				"http.req.path":   r.URL.Path,
			}).Debug("auth gate rejected request")
			g.errors.Respond(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), UserCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
	// Cookie first, falling back to the Authorization header.
	return g.tokens.Verifier(security.TokenFromCookie(g.cookieName), security.TokenFromHeader)(authenticate)
}

func (g *Gate) identify(r *http.Request) (*model.PublicUser, error) {
	identity, err := security.IdentityFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	return g.users.LoadUser(r.Context(), identity.UserID)
}

// UserFromContext returns the user attached by Gate.Require.
func UserFromContext(ctx context.Context) (*model.PublicUser, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.PublicUser)
	return user, ok && user != nil
}
