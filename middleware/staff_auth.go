package middleware

import (
	"context"
	"net/http"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/models"
	"github.com/AsherwL/reward-system/utils"
)

// Capability selects which permission a staff route requires.
type Capability int

const (
	CapApprove Capability = iota
	CapManageCatalog
)

// StaffAuthMiddleware builds on AuthMiddleware: the caller must be
// authenticated AND hold the given capability. The user row is re-read so a
// revoked staff flag takes effect immediately, not at token expiry. Non-staff
// callers receive 403 and no handler runs, so no state changes.
func StaffAuthMiddleware(cap Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := utils.GetUserID(r)
			if !ok || uid == 0 {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
				return
			}

			var user models.User
			if err := database.DB.First(&user, uid).Error; err != nil {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
				return
			}

			if !hasCapability(&user, cap) {
				utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Forbidden: staff access required"})
				return
			}

			ctx := context.WithValue(r.Context(), utils.StaffUserKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		}))
	}
}

func hasCapability(u *models.User, cap Capability) bool {
	switch cap {
	case CapApprove:
		return u.CanApprove()
	case CapManageCatalog:
		return u.CanManageCatalog()
	}
	return false
}
