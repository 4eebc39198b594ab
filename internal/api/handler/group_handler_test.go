package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/staffdesk/identity-api/internal/api/handler"
	"github.com/staffdesk/identity-api/internal/core/domain"
)

type stubGroupService struct {
	groups   []domain.GroupWithParent
	createFn func(name, description string, parentID *int64) (*domain.Group, error)
	deleteFn func(id int64) error
}

func (s *stubGroupService) List(context.Context) ([]domain.GroupWithParent, error) {
	return s.groups, nil
}

func (s *stubGroupService) Create(_ context.Context, name, description string, parentID *int64) (*domain.Group, error) {
	return s.createFn(name, description, parentID)
}

func (s *stubGroupService) Delete(_ context.Context, id int64) error {
	return s.deleteFn(id)
}

func TestGroupHandler_List(t *testing.T) {
	parent := int64(1)
	svc := &stubGroupService{groups: []domain.GroupWithParent{
		{Group: domain.Group{ID: 1, Name: "Engineering"}},
		{Group: domain.Group{ID: 2, Name: "Backend", ParentID: &parent}, ParentName: "Engineering"},
	}}
	e := newTestEcho()
	e.GET("/api/groups", handler.NewGroupHandler(svc).List)

	req := httptest.NewRequest(http.MethodGet, "/api/groups", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []domain.GroupWithParent
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 || got[1].ParentName != "Engineering" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestGroupHandler_Create(t *testing.T) {
	var gotParent *int64
	svc := &stubGroupService{
		createFn: func(name, description string, parentID *int64) (*domain.Group, error) {
			gotParent = parentID
			return &domain.Group{ID: 3, Name: name, Description: description, ParentID: parentID}, nil
		},
	}
	e := newTestEcho()
	e.POST("/api/groups", handler.NewGroupHandler(svc).Create)

	rec := doJSON(e, http.MethodPost, "/api/groups",
		`{"name":"Backend","description":"Server team","parent_id":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotParent == nil || *gotParent != 1 {
		t.Fatalf("parent not delivered: %v", gotParent)
	}

	var group domain.Group
	if err := json.Unmarshal(rec.Body.Bytes(), &group); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if group.ID != 3 || group.Name != "Backend" {
		t.Fatalf("unexpected group: %+v", group)
	}
}

func TestGroupHandler_Create_Validation(t *testing.T) {
	svc := &stubGroupService{
		createFn: func(string, string, *int64) (*domain.Group, error) {
			t.Fatalf("service should not be called on invalid input")
			return nil, nil
		},
	}
	e := newTestEcho()
	e.POST("/api/groups", handler.NewGroupHandler(svc).Create)

	rec := doJSON(e, http.MethodPost, "/api/groups", `{"description":"no name"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGroupHandler_Create_DepthExceeded(t *testing.T) {
	svc := &stubGroupService{
		createFn: func(string, string, *int64) (*domain.Group, error) {
			return nil, domain.ErrGroupDepth
		},
	}
	e := newTestEcho()
	e.POST("/api/groups", handler.NewGroupHandler(svc).Create)

	rec := doJSON(e, http.MethodPost, "/api/groups", `{"name":"Too deep","parent_id":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGroupHandler_Delete(t *testing.T) {
	var gotID int64
	svc := &stubGroupService{
		deleteFn: func(id int64) error {
			gotID = id
			return nil
		},
	}
	e := newTestEcho()
	e.DELETE("/api/groups/:id", handler.NewGroupHandler(svc).Delete)

	req := httptest.NewRequest(http.MethodDelete, "/api/groups/2", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != 2 {
		t.Fatalf("delete got id=%d", gotID)
	}
}

func TestGroupHandler_Delete_NotFound(t *testing.T) {
	svc := &stubGroupService{
		deleteFn: func(int64) error {
			return domain.ErrGroupNotFound
		},
	}
	e := newTestEcho()
	e.DELETE("/api/groups/:id", handler.NewGroupHandler(svc).Delete)

	req := httptest.NewRequest(http.MethodDelete, "/api/groups/99", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
