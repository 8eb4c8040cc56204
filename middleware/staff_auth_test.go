package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AsherwL/reward-system/database"
	"github.com/AsherwL/reward-system/utils"

	"github.com/DATA-DOG/go-sqlmock"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubUserLookup points database.DB at a mock that answers the middleware's
// user re-read with a single row carrying the given staff flag.
func stubUserLookup(t *testing.T, id uint, isStaff bool) {
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

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "avatar", "points", "is_staff", "created_at", "updated_at"}).
			AddRow(id, "someone", "someone@example.com", "x", nil, 0, isStaff, now, now))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})
}

func staffRequest(t *testing.T, id uint) *http.Request {
	t.Helper()
	token, err := utils.GenerateAccessToken(id, utils.RoleUser)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	req := httptest.NewRequest("PUT", "http://example.local/v1/admin/tasks/7/approve", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestStaffAuthMiddleware_NonStaffGets403(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	stubUserLookup(t, 42, false)

	ran := false
	h := StaffAuthMiddleware(CapApprove)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, staffRequest(t, 42))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if ran {
		t.Fatal("handler must not run for a non-staff caller")
	}
}

func TestStaffAuthMiddleware_StaffPassesThrough(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	stubUserLookup(t, 42, true)

	ran := false
	h := StaffAuthMiddleware(CapApprove)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := utils.GetStaffUser(r); !ok || u.ID != 42 {
			t.Fatalf("staff user not injected, got %+v ok=%v", u, ok)
		}
		ran = true
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, staffRequest(t, 42))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ran {
		t.Fatal("handler must run for a staff caller")
	}
}

func TestStaffAuthMiddleware_NoTokenGets401(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	h := StaffAuthMiddleware(CapManageCatalog)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "http://example.local/v1/admin/apps", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
