package admins

import (
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
	"gorm.io/gorm"
)

// GET /v1/admin/users
func GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	query := db.Model(&models.User{})
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}
	if staff := r.URL.Query().Get("is_staff"); staff != "" {
		query = query.Where("is_staff = ?", staff == "true")
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

	var users []models.User
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	type userResp struct {
		ID        uint      `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		Points    uint      `json:"points"`
		IsStaff   bool      `json:"is_staff"`
		CreatedAt time.Time `json:"created_at"`
	}
	resp := make([]userResp, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResp{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Points:    u.Points,
			IsStaff:   u.IsStaff,
			CreatedAt: u.CreatedAt,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": resp,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// GET /v1/admin/users/{id}
// Single user with their tasks and a ledger reconciliation: the accumulator
// should equal the ledger sum; a mismatch means a write bypassed the service.
func GetUserDetailHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	db := database.DB
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	svc := services.NewPointService(db)
	tasks, err := svc.ListForUser(user.ID, "all")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	ledger, _ := svc.LedgerBalance(user.ID)

	taskList := make([]map[string]interface{}, 0, len(tasks))
	for _, t := range tasks {
		item := map[string]interface{}{
			"id":         t.ID,
			"status":     t.Status,
			"created_at": t.CreatedAt.Format(time.RFC3339),
		}
		if t.Application != nil {
			item["app_name"] = t.Application.Name
			item["points"] = t.Application.Points
		}
		taskList = append(taskList, item)
	}

	var entries []models.PointEntry
	db.Where("user_id = ?", user.ID).Order("created_at DESC").Limit(50).Find(&entries)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
				"points":   user.Points,
				"is_staff": user.IsStaff,
			},
			"ledger_balance": ledger,
			"reconciled":     int64(user.Points) == ledger,
			"tasks":          taskList,
			"entries":        entries,
		},
	})
}
