package users

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/models"
	"github.com/AsherwL/reward-system/utils"
)

const maxAvatarBytes = 5 << 20

// UpdateProfileHandler updates the username and optionally the avatar.
// Submitted as multipart so the avatar can ride along; email is immutable.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	updates := map[string]interface{}{}

	if username := strings.TrimSpace(r.FormValue("username")); username != "" && username != user.Username {
		check := struct {
			Username string `validate:"required,username"`
		}{Username: username}
		if err := utils.ValidateStruct(&check); err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
			return
		}
		var count int64
		db.Model(&models.User{}).Where("username = ? AND id <> ?", username, uid).Count(&count)
		if count > 0 {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Username already in use"})
			return
		}
		updates["username"] = username
	}

	var oldAvatar string
	if file, handler, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		data, ext, perr := utils.ProcessImageUpload(file, handler, maxAvatarBytes)
		if perr != nil {
			status := http.StatusBadRequest
			utils.WriteJSON(w, status, utils.APIResponse{Success: false, Message: perr.Error()})
			return
		}
		objectName := "avatars/" + strconv.FormatUint(uint64(uid), 10) + "_" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
		if err := utils.UploadToS3(objectName, bytes.NewReader(data), int64(len(data))); err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to upload image. Please try again later."})
			return
		}
		if user.Avatar != nil {
			oldAvatar = *user.Avatar
		}
		updates["avatar"] = objectName
	} else if !errors.Is(err, http.ErrMissingFile) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid avatar upload"})
		return
	}

	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Nothing to update"})
		return
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update profile"})
		return
	}

	// old avatar object is orphaned after a successful swap
	if oldAvatar != "" {
		_ = utils.DeleteFromS3(oldAvatar)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Profile updated"})
}
