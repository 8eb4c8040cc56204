package users

import (
	"bytes"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/services"
	"github.com/AsherwL/reward-system/utils"

	"github.com/gorilla/mux"
)

const maxScreenshotBytes = 10 << 20

// POST /v1/tasks/{app_id}
// Accepts a multipart screenshot proving the application was downloaded and
// creates a Pending task. Clients sending the HX-Request marker get an
// HX-Redirect header pointing at the task list instead of a JSON body they
// would have to route themselves.
func TaskSubmitHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	appID64, err := strconv.ParseUint(mux.Vars(r)["app_id"], 10, 32)
	if err != nil || appID64 == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid application id"})
		return
	}
	appID := uint(appID64)

	if err := r.ParseMultipartForm(maxScreenshotBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
		return
	}

	file, handler, err := r.FormFile("screenshot")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Screenshot is required"})
		return
	}
	defer file.Close()

	data, ext, perr := utils.ProcessImageUpload(file, handler, maxScreenshotBytes)
	if perr != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: perr.Error()})
		return
	}

	objectName := "screenshots/" + strconv.FormatUint(uint64(uid), 10) + "_" +
		strconv.FormatUint(uint64(appID), 10) + "_" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
	if err := utils.UploadToS3(objectName, bytes.NewReader(data), int64(len(data))); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to upload image. Please try again later."})
		return
	}

	svc := services.NewPointService(database.DB)
	task, err := svc.Submit(uid, appID, objectName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAppNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Application not found"})
		case errors.Is(err, services.ErrDuplicateTask):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You have already submitted a task for this application"})
		case errors.Is(err, services.ErrScreenshotRequired):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Screenshot is required"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		}
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/v1/tasks")
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Task submitted, awaiting approval.",
		Data:    map[string]interface{}{"task_id": task.ID, "status": task.Status},
	})
}

// GET /v1/tasks?status=all|approved|pending|rejected
// With the HX-Request marker the response is a bare list suitable for a
// partial refresh; otherwise the list rides in a paginated envelope.
func TaskListHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	filter := r.URL.Query().Get("status")
	switch filter {
	case "", "all", "approved", "pending", "rejected":
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "status must be one of all, approved, pending, rejected"})
		return
	}

	svc := services.NewPointService(database.DB)
	tasks, err := svc.ListForUser(uid, filter)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	type taskResp struct {
		ID         uint   `json:"id"`
		AppName    string `json:"app_name"`
		Category   string `json:"category"`
		Points     uint   `json:"points"`
		Screenshot string `json:"screenshot"`
		Status     string `json:"status"`
		Time       string `json:"time"`
	}
	resp := make([]taskResp, 0, len(tasks))
	for _, t := range tasks {
		item := taskResp{
			ID:     t.ID,
			Status: t.Status,
			Time:   t.CreatedAt.Format(time.RFC3339),
		}
		if t.Application != nil {
			item.AppName = t.Application.Name
			item.Category = t.Application.Category
			item.Points = t.Application.Points
		}
		if t.Screenshot != "" {
			if signed, err := utils.GenerateSignedURL(t.Screenshot, 3600); err == nil {
				item.Screenshot = signed
			}
		}
		resp = append(resp, item)
	}

	if r.Header.Get("HX-Request") == "true" {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	totalRows := int64(len(resp))
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))
	offset := (page - 1) * limit
	if offset > len(resp) {
		offset = len(resp)
	}
	end := offset + limit
	if end > len(resp) {
		end = len(resp)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": resp[offset:end],
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}
