package users

import (
	"net/http"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/services"
	"github.com/AsherwL/reward-system/utils"
)

// GET /v1/apps
// Catalog entries the caller has no task for yet. Custom logos are private S3
// objects and come back presigned; default and generic logos are plain paths.
func AppListHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	svc := services.NewPointService(database.DB)
	apps, err := svc.AvailableApplications(uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	type appResp struct {
		ID           uint   `json:"id"`
		Name         string `json:"name"`
		LinkApp      string `json:"link_app"`
		DownloadLink string `json:"download_link"`
		Points       uint   `json:"points"`
		Category     string `json:"category"`
		Logo         string `json:"logo"`
	}
	resp := make([]appResp, 0, len(apps))
	for _, a := range apps {
		logo := a.Logo()
		if a.HasCustomLogo() {
			if signed, err := utils.GenerateSignedURL(logo, 3600); err == nil {
				logo = signed
			}
		}
		resp = append(resp, appResp{
			ID:           a.ID,
			Name:         a.Name,
			LinkApp:      a.LinkApp,
			DownloadLink: a.DownloadLink,
			Points:       a.Points,
			Category:     a.Category,
			Logo:         logo,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}
