package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/identity-api/internal/api/handler"
	"github.com/staffdesk/identity-api/internal/core/domain"
)

type stubUserService struct {
	statuses []domain.UserStatus
	details  []domain.UserDetail

	toggleRoleFn   func(callerID, targetID int64, roleName string) (bool, error)
	toggleActiveFn func(callerID, targetID int64) (bool, error)
	updateGroupFn  func(targetID int64, groupID *int64) error
	deleteFn       func(callerID, targetID int64) error
	resetCalled    bool
}

func (s *stubUserService) ListPublicStatus(context.Context) ([]domain.UserStatus, error) {
	return s.statuses, nil
}

func (s *stubUserService) ListAdminUsers(context.Context) ([]domain.UserDetail, error) {
	return s.details, nil
}

func (s *stubUserService) ToggleRole(_ context.Context, callerID, targetID int64, roleName string) (bool, error) {
	return s.toggleRoleFn(callerID, targetID, roleName)
}

func (s *stubUserService) ToggleActive(_ context.Context, callerID, targetID int64) (bool, error) {
	return s.toggleActiveFn(callerID, targetID)
}

func (s *stubUserService) UpdateUserGroup(_ context.Context, targetID int64, groupID *int64) error {
	return s.updateGroupFn(targetID, groupID)
}

func (s *stubUserService) DeleteUser(_ context.Context, callerID, targetID int64) error {
	return s.deleteFn(callerID, targetID)
}

func (s *stubUserService) SystemReset(context.Context, int64) error {
	s.resetCalled = true
	return nil
}

// asCaller simulates the auth middleware for routes that read caller identity.
func asCaller(id int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", id)
			return next(c)
		}
	}
}

func TestUserHandler_PublicStatus(t *testing.T) {
	svc := &stubUserService{statuses: []domain.UserStatus{
		{ID: 1, Username: "alice", Online: true},
		{ID: 2, Username: "bob", Online: false},
	}}
	e := newTestEcho()
	e.GET("/api/users/status", handler.NewUserHandler(svc).PublicStatus)

	req := httptest.NewRequest(http.MethodGet, "/api/users/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []domain.UserStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 || got[0].Username != "alice" || !got[0].Online {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestUserHandler_ToggleRole(t *testing.T) {
	var gotCaller, gotTarget int64
	var gotRole string
	svc := &stubUserService{
		toggleRoleFn: func(callerID, targetID int64, roleName string) (bool, error) {
			gotCaller, gotTarget, gotRole = callerID, targetID, roleName
			return true, nil
		},
	}
	e := newTestEcho()
	e.POST("/api/admin/toggle-role", handler.NewUserHandler(svc).ToggleRole, asCaller(9))

	rec := doJSON(e, http.MethodPost, "/api/admin/toggle-role",
		`{"target_user_id":4,"role_name":"adm"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotCaller != 9 || gotTarget != 4 || gotRole != "adm" {
		t.Fatalf("service got caller=%d target=%d role=%q", gotCaller, gotTarget, gotRole)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["has_role"] != true {
		t.Fatalf("expected has_role true, got %v", body)
	}
}

func TestUserHandler_ToggleRole_SelfDemotion(t *testing.T) {
	svc := &stubUserService{
		toggleRoleFn: func(int64, int64, string) (bool, error) {
			return false, domain.ErrSelfAction
		},
	}
	e := newTestEcho()
	e.POST("/api/admin/toggle-role", handler.NewUserHandler(svc).ToggleRole, asCaller(9))

	rec := doJSON(e, http.MethodPost, "/api/admin/toggle-role",
		`{"target_user_id":9,"role_name":"adm"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_ToggleRole_NoCaller(t *testing.T) {
	svc := &stubUserService{
		toggleRoleFn: func(int64, int64, string) (bool, error) {
			t.Fatalf("service should not be reached without a caller")
			return false, nil
		},
	}
	e := newTestEcho()
	e.POST("/api/admin/toggle-role", handler.NewUserHandler(svc).ToggleRole)

	rec := doJSON(e, http.MethodPost, "/api/admin/toggle-role",
		`{"target_user_id":4,"role_name":"adm"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_ToggleActive(t *testing.T) {
	svc := &stubUserService{
		toggleActiveFn: func(callerID, targetID int64) (bool, error) {
			return false, nil
		},
	}
	e := newTestEcho()
	e.POST("/api/admin/toggle-status", handler.NewUserHandler(svc).ToggleActive, asCaller(9))

	rec := doJSON(e, http.MethodPost, "/api/admin/toggle-status", `{"target_user_id":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["is_active"] != false {
		t.Fatalf("expected is_active false, got %v", body)
	}
}

func TestUserHandler_UpdateUser(t *testing.T) {
	var gotTarget int64
	var gotGroup *int64
	svc := &stubUserService{
		updateGroupFn: func(targetID int64, groupID *int64) error {
			gotTarget, gotGroup = targetID, groupID
			return nil
		},
	}
	e := newTestEcho()
	e.PUT("/api/admin/user/:id", handler.NewUserHandler(svc).UpdateUser, asCaller(9))

	rec := doJSON(e, http.MethodPut, "/api/admin/user/4", `{"group_id":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotTarget != 4 || gotGroup == nil || *gotGroup != 2 {
		t.Fatalf("service got target=%d group=%v", gotTarget, gotGroup)
	}

	// Null group detaches.
	rec = doJSON(e, http.MethodPut, "/api/admin/user/4", `{"group_id":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotGroup != nil {
		t.Fatalf("expected nil group, got %v", *gotGroup)
	}
}

func TestUserHandler_UpdateUser_BadID(t *testing.T) {
	svc := &stubUserService{
		updateGroupFn: func(int64, *int64) error {
			t.Fatalf("service should not be reached")
			return nil
		},
	}
	e := newTestEcho()
	e.PUT("/api/admin/user/:id", handler.NewUserHandler(svc).UpdateUser, asCaller(9))

	rec := doJSON(e, http.MethodPut, "/api/admin/user/abc", `{"group_id":null}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_DeleteUser(t *testing.T) {
	var gotCaller, gotTarget int64
	svc := &stubUserService{
		deleteFn: func(callerID, targetID int64) error {
			gotCaller, gotTarget = callerID, targetID
			return nil
		},
	}
	e := newTestEcho()
	e.DELETE("/api/admin/user/:id", handler.NewUserHandler(svc).DeleteUser, asCaller(9))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/user/4", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotCaller != 9 || gotTarget != 4 {
		t.Fatalf("service got caller=%d target=%d", gotCaller, gotTarget)
	}
}

func TestUserHandler_SystemReset(t *testing.T) {
	svc := &stubUserService{}
	e := newTestEcho()
	e.POST("/api/admin/system-reset", handler.NewUserHandler(svc).SystemReset, asCaller(9))

	rec := doJSON(e, http.MethodPost, "/api/admin/system-reset", ``)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.resetCalled {
		t.Fatalf("reset not delivered to service")
	}
}
