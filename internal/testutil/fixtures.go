package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"mini_one/internal/app/service"
	"mini_one/internal/domain/model"

	"github.com/google/uuid"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with unique defaults
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: "user_" + suffix,
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) Request() service.RegisterRequest {
	return service.RegisterRequest{Username: b.username, Email: b.email, Password: b.password}
}

// Build registers the user through the account service and returns it with
// its token.
func (b *UserBuilder) Build(t *testing.T, accounts *service.AccountService) (*model.PublicUser, string) {
	t.Helper()

	res, err := accounts.Register(context.Background(), b.Request())
	if err != nil {
		t.Fatalf("failed to register %s: %v", b.username, err)
	}
	return res.User, res.Token
}

// BuildAndAuthenticate registers the user via the API and returns the user
// and the token from the auth cookie.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*model.PublicUser, string) {
	t.Helper()

	resp := ts.Do(t, http.MethodPost, "/auth/register", b.Request())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var user model.PublicUser
	AssertJSONResponse(t, resp, &user)

	cookie := AuthCookie(resp)
	if cookie == nil {
		t.Fatal("register response did not set the auth cookie")
	}
	return &user, cookie.Value
}
