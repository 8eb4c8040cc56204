package auth

import (
	"net/http"
	"time"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/middleware"
	"github.com/AsherwL/reward-system/models"
	"github.com/AsherwL/reward-system/utils"

	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,pwdmin"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var setting models.Setting
	if err := db.Model(&models.Setting{}).Select("closed_signup, maintenance, site_name").Take(&setting).Error; err == nil {
		if setting.Maintenance {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{
				Success: false,
				Message: "The service is under maintenance. Please try again later.",
				Data:    map[string]interface{}{"maintenance": true, "site": setting.SiteName},
			})
			return
		}
		if setting.ClosedSignup {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Registration is currently closed"})
			return
		}
	}

	var count int64
	db.Model(&models.User{}).Where("username = ? OR email = ?", req.Username, req.Email).Count(&count)
	if count > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Username or email already in use"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		// racing a duplicate insert hits the unique index
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Username or email already in use"})
		return
	}

	// log the new user in right away
	tokenExpiry := 15 * time.Minute
	accessToken, err := utils.GenerateAccessTokenWithExpiry(user.ID, utils.RoleUser, tokenExpiry)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to issue token"})
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store refresh token"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful! Redirecting to dashboard...",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"access_expire": time.Now().Add(tokenExpiry).UTC().Format(time.RFC3339),
			"refresh_token": refreshToken,
			"user": map[string]interface{}{
				"username": user.Username,
				"email":    user.Email,
				"points":   user.Points,
			},
		},
	})
}
