package middleware

import (
	"context"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// UserID returns the user_id claim of the verified token in ctx.
func UserID(ctx context.Context) (string, bool) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", false
	}
	userID, ok := claims["user_id"].(string)
	return userID, ok && userID != ""
}

func Role(ctx context.Context) (user.Role, bool) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", false
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	return user.Role(role), true
}
