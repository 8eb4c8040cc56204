package admins

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/models"
	"github.com/AsherwL/reward-system/utils"

	"gorm.io/gorm"
)

type SettingRequest struct {
	SiteName     string `json:"site_name"`
	ClosedSignup bool   `json:"closed_signup"`
	Maintenance  bool   `json:"maintenance"`
}

// GET /v1/admin/settings
func GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var setting models.Setting
	if err := db.First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// no row yet; report the defaults
			setting = models.Setting{SiteName: "Reward System"}
		} else {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"site_name":     setting.SiteName,
			"closed_signup": setting.ClosedSignup,
			"maintenance":   setting.Maintenance,
		},
	})
}

// PUT /v1/admin/settings
func UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if req.SiteName == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "site_name is required"})
		return
	}

	db := database.DB

	var setting models.Setting
	if err := db.First(&setting).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
			return
		}
	}

	setting.SiteName = req.SiteName
	setting.ClosedSignup = req.ClosedSignup
	setting.Maintenance = req.Maintenance

	if err := db.Save(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Settings updated"})
}
