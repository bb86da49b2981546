package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/auth"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/clock"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentSetupEmail struct {
	to, name, link, expiresAt string
}

type fakeEmailService struct {
	sent []sentSetupEmail
	err  error
}

func (f *fakeEmailService) SendPasswordSetup(to, name, setupLink, expiresAt string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSetupEmail{to, name, setupLink, expiresAt})
	return nil
}

func setupPasswordService(t *testing.T) (*PasswordServiceImpl, *memstore.Store, *fakeEmailService, user.User) {
	t.Helper()
	store := memstore.New(clock.Fixed(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)))
	u := store.AddUser(user.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "unset"})

	jwtService, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	mailer := &fakeEmailService{}
	return NewPasswordService(store.Users(), jwtService, mailer, "http://localhost:3000/"), store, mailer, u
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	return parsed.Query().Get("token")
}

func TestPasswordService_ForgotPassword_SendsLink(t *testing.T) {
	// Setup
	svc, _, mailer, u := setupPasswordService(t)

	// Act
	err := svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Email: " JANE@example.com "})

	// Assert
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, u.Email, mailer.sent[0].to)
	assert.Equal(t, "Jane", mailer.sent[0].name)
	assert.True(t, strings.HasPrefix(mailer.sent[0].link, "http://localhost:3000/forget-password?token="))
	assert.NotEmpty(t, tokenFromLink(t, mailer.sent[0].link))
	assert.NotEmpty(t, mailer.sent[0].expiresAt)
}

func TestPasswordService_ForgotPassword_UnknownEmail(t *testing.T) {
	svc, _, mailer, _ := setupPasswordService(t)

	err := svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Email: "nobody@example.com"})

	assert.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestPasswordService_ForgotPassword_MailFailureIsHidden(t *testing.T) {
	svc, _, mailer, _ := setupPasswordService(t)
	mailer.err = errors.New("smtp down")

	err := svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Email: "jane@example.com"})

	assert.NoError(t, err)
}

func TestPasswordService_SetupPassword(t *testing.T) {
	// Setup
	svc, store, mailer, u := setupPasswordService(t)
	require.NoError(t, svc.SendSetupLink(context.Background(), u))
	token := tokenFromLink(t, mailer.sent[0].link)

	// Act
	err := svc.SetupPassword(context.Background(), auth.SetupPasswordRequest{
		Token:           token,
		Password:        "brandnew123",
		ConfirmPassword: "brandnew123",
	})

	// Assert
	require.NoError(t, err)
	stored, _ := store.User(u.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brandnew123")))
}

func TestPasswordService_SetupPassword_InvalidToken(t *testing.T) {
	svc, store, mailer, u := setupPasswordService(t)
	require.NoError(t, svc.SendSetupLink(context.Background(), u))
	token := tokenFromLink(t, mailer.sent[0].link)

	tests := []struct {
		name  string
		token string
		setup func()
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "access token", token: accessToken(t, u)},
		{name: "deleted user", token: token, setup: func() { require.NoError(t, store.Users().Delete(context.Background(), u.ID)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			err := svc.SetupPassword(context.Background(), auth.SetupPasswordRequest{
				Token:           tt.token,
				Password:        "brandnew123",
				ConfirmPassword: "brandnew123",
			})

			assert.ErrorIs(t, err, auth.ErrInvalidSetupToken)
		})
	}
}

func accessToken(t *testing.T, u user.User) string {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	token, _, err := jwtService.GenerateAccessToken(u.ID, u.Email, user.RoleUser)
	require.NoError(t, err)
	return token
}
