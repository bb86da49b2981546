package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess        = "access"
	TokenTypePasswordSetup = "password_setup"

	PasswordSetupExpiration = 15 * time.Minute
)

var ErrWrongTokenType = errors.New("unexpected token type")

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error)
	// GeneratePasswordSetupToken issues a short-lived token that only
	// ParsePasswordSetupToken accepts.
	GeneratePasswordSetupToken(userID string) (token string, expiresAt time.Time, err error)
	ParsePasswordSetupToken(ctx context.Context, token string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService parses accessTokenExpirationTime as a Go duration such as "24h".
func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GeneratePasswordSetupToken(userID string) (token string, expiresAt time.Time, err error) {
	expiresAt = time.Now().Add(PasswordSetupExpiration)

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    TokenTypePasswordSetup,
		"exp":     expiresAt.Unix(),
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParsePasswordSetupToken(ctx context.Context, token string) (string, error) {
	decoded, err := jwtauth.VerifyToken(j.tokenAuth, token)
	if err != nil {
		return "", err
	}

	claims, err := decoded.AsMap(ctx)
	if err != nil {
		return "", err
	}
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypePasswordSetup {
		return "", ErrWrongTokenType
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", ErrWrongTokenType
	}
	return userID, nil
}
