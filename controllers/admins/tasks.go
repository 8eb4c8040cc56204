package admins

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/models"
	"github.com/AsherwL/reward-system/services"
	"github.com/AsherwL/reward-system/utils"

	"github.com/gorilla/mux"
)

type TaskResponse struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	AppName    string    `json:"app_name"`
	Points     uint      `json:"points"`
	Screenshot string    `json:"screenshot"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// GET /v1/admin/tasks
func GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	status := r.URL.Query().Get("status")
	appIDStr := r.URL.Query().Get("app_id")
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	search := r.URL.Query().Get("search")

	query := db.Table("tasks").
		Select("tasks.*, users.username as username, users.email as email, applications.name as app_name, applications.points as app_points").
		Joins("LEFT JOIN users ON tasks.user_id = users.id").
		Joins("LEFT JOIN applications ON tasks.application_id = applications.id")

	if status != "" {
		if !models.ValidTaskStatus(status) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "status must be one of Pending, Approved, Rejected"})
			return
		}
		query = query.Where("tasks.status = ?", status)
	}
	if appIDStr != "" {
		if appID, err := strconv.Atoi(appIDStr); err == nil {
			query = query.Where("tasks.application_id = ?", appID)
		}
	}
	if startDate != "" {
		query = query.Where("tasks.created_at >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("tasks.created_at <= ?", endDate)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("users.username LIKE ? OR users.email LIKE ? OR applications.name LIKE ?", like, like, like)
	}

	page := 1
	limit := 20
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := (page - 1) * limit

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	type taskWithJoins struct {
		models.Task
		Username  string `gorm:"column:username"`
		Email     string `gorm:"column:email"`
		AppName   string `gorm:"column:app_name"`
		AppPoints uint   `gorm:"column:app_points"`
	}
	var rows []taskWithJoins
	if err := query.Order("tasks.created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	response := make([]TaskResponse, 0, len(rows))
	for _, t := range rows {
		screenshot := ""
		if t.Screenshot != "" {
			if signed, err := utils.GenerateSignedURL(t.Screenshot, 3600); err == nil {
				screenshot = signed
			}
		}
		response = append(response, TaskResponse{
			ID:         t.ID,
			UserID:     t.UserID,
			Username:   t.Username,
			Email:      t.Email,
			AppName:    t.AppName,
			Points:     t.AppPoints,
			Screenshot: screenshot,
			Status:     t.Status,
			CreatedAt:  t.CreatedAt,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": response,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// PUT /v1/admin/tasks/{id}/approve
func ApproveTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	svc := services.NewPointService(database.DB)
	credited, err := svc.Approve(uint(taskID))
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	msg := "Task approved and points credited"
	if !credited {
		msg = "Task was already approved"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: msg,
		Data:    map[string]interface{}{"id": taskID, "credited": credited},
	})
}

// PUT /v1/admin/tasks/{id}/reject
func RejectTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	svc := services.NewPointService(database.DB)
	reversed, err := svc.Reject(uint(taskID))
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	msg := "Task rejected"
	if reversed {
		msg = "Task rejected and previously granted points reversed"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: msg,
		Data:    map[string]interface{}{"id": taskID, "reversed": reversed},
	})
}

type BulkTaskRequest struct {
	IDs []uint `json:"ids"`
}

// POST /v1/admin/tasks/approve
func BulkApproveTasksHandler(w http.ResponseWriter, r *http.Request) {
	var req BulkTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ids is required"})
		return
	}

	svc := services.NewPointService(database.DB)
	res, err := svc.BulkApprove(req.IDs)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again", Data: res})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Bulk approval finished", Data: res})
}

// POST /v1/admin/tasks/reject
func BulkRejectTasksHandler(w http.ResponseWriter, r *http.Request) {
	var req BulkTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ids is required"})
		return
	}

	svc := services.NewPointService(database.DB)
	res, err := svc.BulkReject(req.IDs)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again", Data: res})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Bulk rejection finished", Data: res})
}

// DELETE /v1/admin/tasks
// Removes the selected task rows and their screenshot objects. Deleting a
// task does not touch points; reject first when a reversal is wanted.
func BulkDeleteTasksHandler(w http.ResponseWriter, r *http.Request) {
	var req BulkTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "ids is required"})
		return
	}

	db := database.DB
	var tasks []models.Task
	if err := db.Where("id IN ?", req.IDs).Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	res := db.Where("id IN ?", req.IDs).Delete(&models.Task{})
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	for _, t := range tasks {
		if t.Screenshot != "" {
			_ = utils.DeleteFromS3(t.Screenshot)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Tasks deleted",
		Data:    map[string]interface{}{"deleted": res.RowsAffected},
	})
}
