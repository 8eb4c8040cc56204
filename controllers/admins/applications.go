package admins

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

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const maxLogoBytes = 5 << 20

// appForm reads the multipart fields shared by create and update.
type appForm struct {
	Name         string
	LinkApp      string
	DownloadLink string
	Points       string
	Category     string
}

func readAppForm(r *http.Request) appForm {
	return appForm{
		Name:         strings.TrimSpace(r.FormValue("name")),
		LinkApp:      strings.TrimSpace(r.FormValue("link_app")),
		DownloadLink: strings.TrimSpace(r.FormValue("download_link")),
		Points:       strings.TrimSpace(r.FormValue("points")),
		Category:     strings.TrimSpace(r.FormValue("category")),
	}
}

// missingField returns the name of the first required field left empty.
func (f appForm) missingField() string {
	switch {
	case f.Name == "":
		return "name"
	case f.LinkApp == "":
		return "link_app"
	case f.DownloadLink == "":
		return "download_link"
	case f.Points == "":
		return "points"
	case f.Category == "":
		return "category"
	}
	return ""
}

func uploadLogo(r *http.Request, appHint string) (*string, error) {
	file, handler, err := r.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, ext, perr := utils.ProcessImageUpload(file, handler, maxLogoBytes)
	if perr != nil {
		return nil, perr
	}
	objectName := "logos/" + appHint + "_" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
	if err := utils.UploadToS3(objectName, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, errors.New("failed to upload logo")
	}
	return &objectName, nil
}

// POST /v1/admin/apps
func CreateApplicationHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
		return
	}

	form := readAppForm(r)
	if missing := form.missingField(); missing != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Missing required field: " + missing})
		return
	}
	points, err := strconv.ParseUint(form.Points, 10, 32)
	if err != nil || points == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "points must be a positive integer"})
		return
	}
	if !models.ValidCategory(form.Category) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "category must be one of social, game, productivity"})
		return
	}

	check := struct {
		LinkApp      string `validate:"required,url"`
		DownloadLink string `validate:"required,url"`
	}{form.LinkApp, form.DownloadLink}
	if err := utils.ValidateStruct(&check); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	db := database.DB
	var count int64
	db.Model(&models.Application{}).Where("link_app = ? OR download_link = ?", form.LinkApp, form.DownloadLink).Count(&count)
	if count > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "An application with that link already exists"})
		return
	}

	logo, err := uploadLogo(r, strings.ReplaceAll(strings.ToLower(form.Name), " ", "_"))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	app := models.Application{
		Name:         form.Name,
		LinkApp:      form.LinkApp,
		DownloadLink: form.DownloadLink,
		Points:       uint(points),
		Category:     form.Category,
		CustomLogo:   logo,
	}
	if def := strings.TrimSpace(r.FormValue("default_logo")); def != "" {
		app.DefaultLogo = &def
	}
	if err := db.Create(&app).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Application created",
		Data:    map[string]interface{}{"id": app.ID},
	})
}

// PUT /v1/admin/apps/{id}
func UpdateApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	db := database.DB
	var app models.Application
	if err := db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Application not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
		return
	}

	form := readAppForm(r)
	if missing := form.missingField(); missing != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Missing required field: " + missing})
		return
	}
	points, err := strconv.ParseUint(form.Points, 10, 32)
	if err != nil || points == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "points must be a positive integer"})
		return
	}
	if !models.ValidCategory(form.Category) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "category must be one of social, game, productivity"})
		return
	}

	var count int64
	db.Model(&models.Application{}).
		Where("(link_app = ? OR download_link = ?) AND id <> ?", form.LinkApp, form.DownloadLink, app.ID).
		Count(&count)
	if count > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "An application with that link already exists"})
		return
	}

	updates := map[string]interface{}{
		"name":          form.Name,
		"link_app":      form.LinkApp,
		"download_link": form.DownloadLink,
		"points":        uint(points),
		"category":      form.Category,
	}

	var oldLogo string
	logo, err := uploadLogo(r, strings.ReplaceAll(strings.ToLower(form.Name), " ", "_"))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}
	if logo != nil {
		if app.CustomLogo != nil {
			oldLogo = *app.CustomLogo
		}
		updates["custom_logo"] = *logo
	}
	if def := strings.TrimSpace(r.FormValue("default_logo")); def != "" {
		updates["default_logo"] = def
	}

	if err := db.Model(&app).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	if oldLogo != "" {
		_ = utils.DeleteFromS3(oldLogo)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Application updated"})
}

// DELETE /v1/admin/apps/{id}
func DeleteApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	db := database.DB
	var app models.Application
	if err := db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Application not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	// Submissions reference the application, so they go first in the same
	// transaction; their screenshots are removed once the rows are gone.
	var screenshots []string
	err := db.Transaction(func(tx *gorm.DB) error {
		var tasks []models.Task
		if err := tx.Where("application_id = ?", app.ID).Find(&tasks).Error; err != nil {
			return err
		}
		for _, t := range tasks {
			if t.Screenshot != "" {
				screenshots = append(screenshots, t.Screenshot)
			}
		}
		if err := tx.Where("application_id = ?", app.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&app).Error
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	for _, key := range screenshots {
		_ = utils.DeleteFromS3(key)
	}
	if app.CustomLogo != nil && *app.CustomLogo != "" {
		_ = utils.DeleteFromS3(*app.CustomLogo)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Application deleted"})
}

// GET /v1/admin/apps
func ListApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	query := db.Model(&models.Application{})
	if cat := r.URL.Query().Get("category"); cat != "" {
		query = query.Where("category = ?", cat)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var apps []models.Application
	if err := query.Order("id ASC").Find(&apps).Error; err != nil {
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
		Submissions  int64  `json:"submissions"`
	}
	resp := make([]appResp, 0, len(apps))
	for _, a := range apps {
		var submissions int64
		db.Model(&models.Task{}).Where("application_id = ?", a.ID).Count(&submissions)
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
			Submissions:  submissions,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}
