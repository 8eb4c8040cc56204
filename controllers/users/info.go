package users

import (
	"errors"
	"net/http"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/models"
	"github.com/AsherwL/reward-system/services"
	"github.com/AsherwL/reward-system/utils"

	"gorm.io/gorm"
)

func InfoHandler(w http.ResponseWriter, r *http.Request) {
	// Auth middleware sets user ID in context; use that
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var setting models.Setting
	err := db.Model(&models.Setting{}).Select("site_name, closed_signup, maintenance").Take(&setting).Error
	healthy := err == nil

	var pendingCount int64
	db.Model(&models.Task{}).Where("user_id = ? AND status = ?", uid, models.TaskPending).Count(&pendingCount)
	var approvedCount int64
	db.Model(&models.Task{}).Where("user_id = ? AND status = ?", uid, models.TaskApproved).Count(&approvedCount)

	avatar := ""
	if user.Avatar != nil && *user.Avatar != "" {
		if signed, err := utils.GenerateSignedURL(*user.Avatar, 3600); err == nil {
			avatar = signed
		}
	}

	svc := services.NewPointService(db)
	ledger, _ := svc.LedgerBalance(uid)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"username":       user.Username,
				"email":          user.Email,
				"avatar":         avatar,
				"points":         user.Points,
				"ledger_balance": ledger,
				"tasks_pending":  pendingCount,
				"tasks_approved": approvedCount,
				"is_staff":       user.IsStaff,
			},
			"application": map[string]interface{}{
				"site_name": setting.SiteName,
				"healthy":   healthy,
			},
		},
	})
}
