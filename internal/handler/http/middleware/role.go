package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/leave-attendance-backend/internal/domain/user"
	"github.com/cmlabs-hris/leave-attendance-backend/internal/handler/http/response"
)

// RequireAdmin requires the admin role
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(user.RoleAdmin, user.ErrAdminPrivilegeRequired, next)
}

// RequireUser requires the regular employee role
func RequireUser(next http.Handler) http.Handler {
	return requireRole(user.RoleUser, user.ErrUserRoleRequired, next)
}

func requireRole(want user.Role, denied error, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := Role(r.Context())
		if !ok || role != want {
			response.HandleError(w, denied)
			return
		}

		next.ServeHTTP(w, r)
	})
}
