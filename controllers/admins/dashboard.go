package admins

import (
	"net/http"
	"time"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/models"
	"github.com/AsherwL/reward-system/utils"
)

type DailyGrowth struct {
	Day   string `json:"day"`
	Count *int64 `json:"count"`
}

type EntryDetail struct {
	Username  string    `json:"username"`
	Points    int64     `json:"points"`
	Kind      string    `json:"kind"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalUsers        int64         `json:"total_users"`
	StaffUsers        int64         `json:"staff_users"`
	GrowthUsers       []DailyGrowth `json:"growth_users"`
	TotalApplications int64         `json:"total_applications"`
	TotalTasks        int64         `json:"total_tasks"`
	PendingTasks      int64         `json:"pending_tasks"`
	ApprovedTasks     int64         `json:"approved_tasks"`
	RejectedTasks     int64         `json:"rejected_tasks"`
	PointsAwarded     int64         `json:"points_awarded"`
	PointsOutstanding int64         `json:"points_outstanding"`
	LastEntries       []EntryDetail `json:"last_entries"`
}

// GET /v1/admin/dashboard
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	db := database.DB

	// initialize slices so empty results serialize as arrays, not null
	stats.GrowthUsers = make([]DailyGrowth, 0)
	stats.LastEntries = make([]EntryDetail, 0)

	db.Model(&models.User{}).Count(&stats.TotalUsers)
	db.Model(&models.User{}).Where("is_staff = ?", true).Count(&stats.StaffUsers)

	// signups per weekday over the last 7 days
	rows, err := db.Model(&models.User{}).
		Select("DATE_FORMAT(created_at, '%W') as day, COUNT(*) as count").
		Where("created_at >= NOW() - INTERVAL 7 DAY").
		Group("DATE_FORMAT(created_at, '%W')").
		Rows()
	if err == nil {
		defer rows.Close()
		growthMap := map[string]int64{}
		for rows.Next() {
			var day string
			var count int64
			if err := rows.Scan(&day, &count); err == nil {
				growthMap[day] = count
			}
		}
		for i := 6; i >= 0; i-- {
			day := time.Now().AddDate(0, 0, -i).Format("Monday")
			c := growthMap[day]
			stats.GrowthUsers = append(stats.GrowthUsers, DailyGrowth{Day: day, Count: &c})
		}
	}

	db.Model(&models.Application{}).Count(&stats.TotalApplications)

	db.Model(&models.Task{}).Count(&stats.TotalTasks)
	db.Model(&models.Task{}).Where("status = ?", models.TaskPending).Count(&stats.PendingTasks)
	db.Model(&models.Task{}).Where("status = ?", models.TaskApproved).Count(&stats.ApprovedTasks)
	db.Model(&models.Task{}).Where("status = ?", models.TaskRejected).Count(&stats.RejectedTasks)

	// net points held by users vs gross points ever credited
	db.Model(&models.User{}).Select("COALESCE(SUM(points),0)").Scan(&stats.PointsOutstanding)
	db.Model(&models.PointEntry{}).
		Where("kind = ?", models.EntryCredit).
		Select("COALESCE(SUM(points),0)").Scan(&stats.PointsAwarded)

	// last 10 ledger entries with usernames
	type entryRow struct {
		Username  string
		Points    int64
		Kind      string
		Message   *string
		CreatedAt time.Time
	}
	var last []entryRow
	db.Table("point_entries").
		Select("users.username as username, point_entries.points, point_entries.kind, point_entries.message, point_entries.created_at").
		Joins("LEFT JOIN users ON point_entries.user_id = users.id").
		Order("point_entries.created_at DESC").
		Limit(10).
		Scan(&last)
	for _, e := range last {
		stats.LastEntries = append(stats.LastEntries, EntryDetail{
			Username:  e.Username,
			Points:    e.Points,
			Kind:      e.Kind,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: stats})
}
