// Package services contains the task-review and point-accounting logic.
// Handlers stay thin: they authenticate, validate input, and call into a
// service; every state transition that touches the points accumulator lives
// here, inside a single transaction.
package services

import (
	"errors"
	"fmt"

	"github.com/AsherwL/reward-system/models"
	"github.com/AsherwL/reward-system/utils"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrScreenshotRequired = errors.New("screenshot is required")
	ErrTaskNotFound       = errors.New("task not found")
	ErrAppNotFound        = errors.New("application not found")
	ErrDuplicateTask      = errors.New("task already submitted for this application")
)

// PointService implements the task approval workflow over the store.
type PointService struct {
	db *gorm.DB
}

func NewPointService(db *gorm.DB) *PointService {
	return &PointService{db: db}
}

// Submit creates a Pending task for (userID, appID). The screenshot key must
// already be uploaded; an empty key is a validation error and no row is
// created. A second submission for the same application is rejected.
func (s *PointService) Submit(userID, appID uint, screenshotKey string) (*models.Task, error) {
	if screenshotKey == "" {
		return nil, ErrScreenshotRequired
	}

	var app models.Application
	if err := s.db.First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, err
	}

	var existing models.Task
	err := s.db.Where("user_id = ? AND application_id = ?", userID, appID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateTask
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	task := models.Task{
		UserID:        userID,
		ApplicationID: appID,
		Screenshot:    screenshotKey,
		Status:        models.TaskPending,
	}
	if err := s.db.Create(&task).Error; err != nil {
		// A concurrent submission can lose the check-then-create race and hit
		// the (user_id, application_id) unique index instead.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrDuplicateTask
		}
		return nil, err
	}
	return &task, nil
}

// Approve marks a task Approved and credits the owning user with the
// application's points. The task row is locked for the duration of the
// transaction and the status re-checked under that lock, so two concurrent
// approvals of the same task credit exactly once. Approving an already
// approved task is a no-op; the bool result reports whether points moved.
func (s *PointService) Approve(taskID uint) (bool, error) {
	credited := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if task.Status == models.TaskApproved {
			return nil
		}

		var app models.Application
		if err := tx.First(&app, task.ApplicationID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("id = ?", task.ID).
			Update("status", models.TaskApproved).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", task.UserID).
			UpdateColumn("points", gorm.Expr("points + ?", app.Points)).Error; err != nil {
			return err
		}

		msg := fmt.Sprintf("Task approved: %s", app.Name)
		entry := models.PointEntry{
			UserID:    task.UserID,
			TaskID:    task.ID,
			Points:    int64(app.Points),
			Kind:      models.EntryCredit,
			Reference: utils.GenerateReference(task.UserID),
			Message:   &msg,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		credited = true
		return nil
	})
	return credited, err
}

// Reject marks a task Rejected. Rejecting an approved task reverses exactly
// the points credited for it, read back from the ledger rather than the
// application row, so a catalog price edit between approve and reject cannot
// skew the reversal. Rejecting an already rejected task is a no-op; the bool
// result reports whether points were reversed.
func (s *PointService) Reject(taskID uint) (bool, error) {
	reversed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if task.Status == models.TaskRejected {
			return nil
		}
		wasApproved := task.Status == models.TaskApproved

		if err := tx.Model(&models.Task{}).
			Where("id = ?", task.ID).
			Update("status", models.TaskRejected).Error; err != nil {
			return err
		}

		if !wasApproved {
			return nil
		}

		// Outstanding credit for this task per the ledger. Summing covers
		// repeated approve/reject cycles as well as a single credit.
		var outstanding int64
		if err := tx.Model(&models.PointEntry{}).
			Where("task_id = ?", task.ID).
			Select("COALESCE(SUM(points),0)").Scan(&outstanding).Error; err != nil {
			return err
		}
		if outstanding <= 0 {
			return nil
		}

		var app models.Application
		if err := tx.First(&app, task.ApplicationID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", task.UserID).
			UpdateColumn("points", gorm.Expr("points - ?", outstanding)).Error; err != nil {
			return err
		}

		msg := fmt.Sprintf("Approval reversed: %s", app.Name)
		entry := models.PointEntry{
			UserID:    task.UserID,
			TaskID:    task.ID,
			Points:    -outstanding,
			Kind:      models.EntryReversal,
			Reference: utils.GenerateReference(task.UserID),
			Message:   &msg,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		reversed = true
		return nil
	})
	return reversed, err
}

// BulkResult summarizes a bulk review action.
type BulkResult struct {
	Processed int `json:"processed"`
	Changed   int `json:"changed"`
	Missing   int `json:"missing"`
}

// BulkApprove applies Approve to every id, skipping ones already approved and
// counting missing ids instead of failing the batch.
func (s *PointService) BulkApprove(ids []uint) (BulkResult, error) {
	return s.bulkReview(ids, s.Approve)
}

// BulkReject applies Reject to every id with the single-item semantics,
// including reversal of previously granted points.
func (s *PointService) BulkReject(ids []uint) (BulkResult, error) {
	return s.bulkReview(ids, s.Reject)
}

func (s *PointService) bulkReview(ids []uint, review func(uint) (bool, error)) (BulkResult, error) {
	var res BulkResult
	for _, id := range ids {
		changed, err := review(id)
		if err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				res.Missing++
				continue
			}
			return res, err
		}
		res.Processed++
		if changed {
			res.Changed++
		}
	}
	return res, nil
}

// ListForUser returns the user's tasks filtered by status. The filter maps
// directly onto the status column: all, approved, pending, rejected.
func (s *PointService) ListForUser(userID uint, filter string) ([]models.Task, error) {
	query := s.db.Where("user_id = ?", userID)
	switch filter {
	case "approved":
		query = query.Where("status = ?", models.TaskApproved)
	case "pending":
		query = query.Where("status = ?", models.TaskPending)
	case "rejected":
		query = query.Where("status = ?", models.TaskRejected)
	}

	var tasks []models.Task
	if err := query.Preload("Application").Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// AvailableApplications returns catalog entries the user has no task for,
// regardless of that task's approval state.
func (s *PointService) AvailableApplications(userID uint) ([]models.Application, error) {
	sub := s.db.Model(&models.Task{}).Select("application_id").Where("user_id = ?", userID)

	var apps []models.Application
	if err := s.db.Where("id NOT IN (?)", sub).Order("id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// LedgerBalance sums the user's point entries. Used to reconcile the
// accumulator against the ledger.
func (s *PointService) LedgerBalance(userID uint) (int64, error) {
	var total int64
	err := s.db.Model(&models.PointEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points),0)").Scan(&total).Error
	return total, err
}
