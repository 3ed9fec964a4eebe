package service

import (
	"strings"
	"testing"

	"mini_one/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	valid := RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}

	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantMsg string
	}{
		{"missing username", func(r *RegisterRequest) { r.Username = "" }, "Username, email and password are required"},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "Username, email and password are required"},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, "Username, email and password are required"},
		{"short username after trim", func(r *RegisterRequest) { r.Username = "  ab  " }, "Username must be at least 3 characters"},
		{"long username", func(r *RegisterRequest) { r.Username = strings.Repeat("a", 51) }, "Username must be less than 50 characters"},
		{"bad username chars", func(r *RegisterRequest) { r.Username = "ali-ce" }, "Username can only contain letters, numbers, and underscores"},
		{"bad email", func(r *RegisterRequest) { r.Email = "alice@example" }, "Please enter a valid email address"},
		{"email with space", func(r *RegisterRequest) { r.Email = "al ice@example.com" }, "Please enter a valid email address"},
		{"email with NUL", func(r *RegisterRequest) { r.Email = "a\x00@x.com" }, "Please enter a valid email address"},
		{"username with NUL", func(r *RegisterRequest) { r.Username = "ali\x00ce" }, "Username can only contain letters, numbers, and underscores"},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }, "Password must be at least 6 characters"},
		{"long password", func(r *RegisterRequest) { r.Password = strings.Repeat("p", 129) }, "Password must be less than 128 characters"},
		// Rules apply in order: the username problem is reported first.
		{"first failure wins", func(r *RegisterRequest) { r.Username = "x"; r.Password = "1" }, "Username must be at least 3 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			_, _, err := validateRegistration(req)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	t.Run("normalizes", func(t *testing.T) {
		username, email, err := validateRegistration(RegisterRequest{
			Username: "  Alice_1 ",
			Email:    "  Alice@Example.COM ",
			Password: strings.Repeat("p", 128),
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice_1", username)
		assert.Equal(t, "alice@example.com", email)
	})
}

func TestValidateMessageText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantMsg string
	}{
		{name: "missing", text: "", wantMsg: "Message text is required"},
		{name: "whitespace only", text: " \n\t ", wantMsg: "Message cannot be empty"},
		{name: "too long", text: strings.Repeat("x", 1001), wantMsg: "Message must be less than 1000 characters"},
		{name: "trimmed to limit", text: "  " + strings.Repeat("x", 1000) + "  ", want: strings.Repeat("x", 1000)},
		{name: "counts runes", text: strings.Repeat("é", 1000), want: strings.Repeat("é", 1000)},
		{name: "trims", text: "  hello  ", want: "hello"},
		{name: "NUL inside", text: "hi\x00there", wantMsg: "Message cannot contain null characters"},
		{name: "only NUL", text: "\x00", wantMsg: "Message cannot contain null characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateMessageText(tt.text)
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrValidation)
				assert.Equal(t, tt.wantMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateMessageID(t *testing.T) {
	assert.NoError(t, validateMessageID("5f0c6a52-8f1e-4c8b-9a57-1c1b7f1d2e3a"))

	for _, id := range []string{
		"",
		"not-a-uuid",
		"5f0c6a528f1e4c8b9a571c1b7f1d2e3a",
		"urn:uuid:5f0c6a52-8f1e-4c8b-9a57-1c1b7f1d2e3a",
		"{5f0c6a52-8f1e-4c8b-9a57-1c1b7f1d2e3a}",
	} {
		err := validateMessageID(id)
		assert.ErrorIs(t, err, common.ErrValidation, id)
	}
}
