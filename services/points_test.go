package services

import (
	"testing"
	"time"

	"github.com/AsherwL/reward-system/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockService(t *testing.T) (*PointService, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewPointService(db), mock
}

func taskRows(id, userID, appID uint, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "application_id", "screenshot", "status", "created_at", "updated_at"}).
		AddRow(id, userID, appID, "screenshots/key.jpg", status, now, now)
}

func appRows(id uint, name string, points uint) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "link_app", "download_link", "points", "category", "default_logo", "custom_logo", "created_at", "updated_at"}).
		AddRow(id, name, "https://example.com/app", "https://example.com/dl", points, "social", nil, nil, now, now)
}

func creditRows(total int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"COALESCE(SUM(points),0)"}).AddRow(total)
}

func TestSubmit_ScreenshotRequired(t *testing.T) {
	svc, mock := newMockService(t)

	task, err := svc.Submit(1, 2, "")
	assert.ErrorIs(t, err, ErrScreenshotRequired)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_AppNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	task, err := svc.Submit(1, 42, "screenshots/key.jpg")
	assert.ErrorIs(t, err, ErrAppNotFound)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_DuplicateRejected(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(appRows(42, "SocialThing", 30))
	mock.ExpectQuery("SELECT (.+) FROM `tasks`").
		WillReturnRows(taskRows(7, 1, 42, models.TaskPending))

	task, err := svc.Submit(1, 42, "screenshots/key.jpg")
	assert.ErrorIs(t, err, ErrDuplicateTask)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two in-flight submissions can both pass the duplicate check; the loser hits
// the unique index and must still surface as a duplicate, not a DB error.
func TestSubmit_RacingDuplicateMapsToConflict(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(appRows(42, "SocialThing", 30))
	mock.ExpectQuery("SELECT (.+) FROM `tasks`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `tasks`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-42' for key 'idx_user_app'"})
	mock.ExpectRollback()

	task, err := svc.Submit(1, 42, "screenshots/key.jpg")
	assert.ErrorIs(t, err, ErrDuplicateTask)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_CreatesPendingTask(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(appRows(42, "SocialThing", 30))
	mock.ExpectQuery("SELECT (.+) FROM `tasks`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `tasks`").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	task, err := svc.Submit(1, 42, "screenshots/key.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, uint(9), task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_CreditsPointsOnce(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(taskRows(7, 1, 42, models.TaskPending))
	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(appRows(42, "SocialThing", 30))
	mock.ExpectExec("UPDATE `tasks` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `users` SET `points`=points \\+ ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `point_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	credited, err := svc.Approve(7)
	require.NoError(t, err)
	assert.True(t, credited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_AlreadyApprovedIsNoop(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(taskRows(7, 1, 42, models.TaskApproved))
	mock.ExpectCommit()

	credited, err := svc.Approve(7)
	require.NoError(t, err)
	assert.False(t, credited, "second approval must not credit again")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_MissingTask(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	credited, err := svc.Approve(999)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.False(t, credited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReject_PendingAwardsNothing(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(taskRows(7, 1, 42, models.TaskPending))
	mock.ExpectExec("UPDATE `tasks` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reversed, err := svc.Reject(7)
	require.NoError(t, err)
	assert.False(t, reversed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReject_ApprovedReversesPoints(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(taskRows(7, 1, 42, models.TaskApproved))
	mock.ExpectExec("UPDATE `tasks` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(points\\),0\\) FROM `point_entries`").
		WillReturnRows(creditRows(30))
	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(appRows(42, "SocialThing", 30))
	mock.ExpectExec("UPDATE `users` SET `points`=points - ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `point_entries`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	reversed, err := svc.Reject(7)
	require.NoError(t, err)
	assert.True(t, reversed, "rejecting an approved task must take the points back")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A catalog price edit between approve and reject must not change the
// reversal: the amount comes from the ledger, not the application row.
func TestReject_ReversesCreditedAmountNotCurrentPrice(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(taskRows(7, 1, 42, models.TaskApproved))
	mock.ExpectExec("UPDATE `tasks` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(points\\),0\\) FROM `point_entries`").
		WithArgs(7).
		WillReturnRows(creditRows(50))
	// the app is worth 30 now, but 50 was credited at approval
	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(appRows(42, "SocialThing", 30))
	mock.ExpectExec("UPDATE `users` SET `points`=points - ").
		WithArgs(int64(50), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `point_entries`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	reversed, err := svc.Reject(7)
	require.NoError(t, err)
	assert.True(t, reversed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReject_AlreadyRejectedIsNoop(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(taskRows(7, 1, 42, models.TaskRejected))
	mock.ExpectCommit()

	reversed, err := svc.Reject(7)
	require.NoError(t, err)
	assert.False(t, reversed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkApprove_CountsMissing(t *testing.T) {
	svc, mock := newMockService(t)

	// first id approves
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(taskRows(7, 1, 42, models.TaskPending))
	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(appRows(42, "SocialThing", 30))
	mock.ExpectExec("UPDATE `tasks` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `users` SET `points`=points \\+ ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `point_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// second id is missing
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	// third id was already approved
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks` (.+)FOR UPDATE").
		WillReturnRows(taskRows(9, 2, 42, models.TaskApproved))
	mock.ExpectCommit()

	res, err := svc.BulkApprove([]uint{7, 999, 9})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, 1, res.Missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerBalance(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(points\\),0\\) FROM `point_entries`").
		WillReturnRows(sqlmock.NewRows([]string{"COALESCE(SUM(points),0)"}).AddRow(60))

	total, err := svc.LedgerBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
