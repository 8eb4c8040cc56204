package admins

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AsherwL/reward-system/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func stubDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})
	return mock
}

func appFormBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField %s: %v", k, err)
		}
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

// Deleting an application with submissions must remove the task rows in the
// same transaction; a dangling foreign key would otherwise fail the delete.
func TestDeleteApplication_RemovesSubmissionsFirst(t *testing.T) {
	mock := stubDB(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "link_app", "download_link", "points", "category", "default_logo", "custom_logo", "created_at", "updated_at"}).
			AddRow(42, "SocialThing", "https://example.com/app", "https://example.com/dl", 30, "social", nil, nil, now, now))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `tasks`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "application_id", "screenshot", "status", "created_at", "updated_at"}).
			AddRow(7, 1, 42, "screenshots/a.jpg", "Approved", now, now).
			AddRow(8, 2, 42, "screenshots/b.jpg", "Pending", now, now))
	mock.ExpectExec("DELETE FROM `tasks`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `applications`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := httptest.NewRequest("DELETE", "http://example.local/v1/admin/apps/42", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "42"})
	rec := httptest.NewRecorder()
	DeleteApplicationHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateApplication_RejectsZeroPoints(t *testing.T) {
	body, contentType := appFormBody(t, map[string]string{
		"name":          "SocialThing",
		"link_app":      "https://example.com/app",
		"download_link": "https://example.com/dl",
		"points":        "0",
		"category":      "social",
	})
	req := httptest.NewRequest("POST", "http://example.local/v1/admin/apps", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	CreateApplicationHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "positive integer") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
