package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

func TestCollegeHandler_List_PassesOptionalActor(t *testing.T) {
	var seen []*domain.User
	stub := &stubCollegeService{
		listFn: func(ctx context.Context, actor *domain.User, filter ports.CollegeFilter, page ports.Page) (*ports.CollegePage, error) {
			seen = append(seen, actor)
			return &ports.CollegePage{Colleges: []*domain.College{}}, nil
		},
	}
	h := NewCollegeHandler(stub)

	c, _ := newContext(http.MethodGet, "/api/colleges", "", nil)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	c, _ = newContext(http.MethodGet, "/api/colleges", "", adminUser)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(seen) != 2 || seen[0] != nil || seen[1] == nil || seen[1].ID != adminUser.ID {
		t.Fatalf("unexpected actors %+v", seen)
	}
}

func TestCollegeHandler_Create(t *testing.T) {
	stub := &stubCollegeService{
		createFn: func(ctx context.Context, actor *domain.User, college *domain.College) (*domain.College, error) {
			if college.Name != "Engineering" || college.Code != "ENG" || college.Email != "eng@uni.example" {
				t.Fatalf("unexpected college: %+v", college)
			}
			college.ID = "c1"
			return college, nil
		},
	}
	body := `{"name":"Engineering ","code":"ENG","email":"ENG@uni.example","establishedYear":1950}`
	c, rec := newContext(http.MethodPost, "/api/colleges", body, adminUser)

	if err := NewCollegeHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp["message"] != "College created successfully" {
		t.Fatalf("unexpected message %v", resp["message"])
	}
}

func TestCollegeHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"lowercase code", `{"name":"Engineering","code":"eng"}`, "code"},
		{"digits in code", `{"name":"Engineering","code":"EN1"}`, "code"},
		{"future year", `{"name":"Engineering","code":"ENG","establishedYear":3000}`, "establishedYear"},
		{"ancient year", `{"name":"Engineering","code":"ENG","establishedYear":1700}`, "establishedYear"},
		{"bad website", `{"name":"Engineering","code":"ENG","website":"not a url"}`, "website"},
	}
	h := NewCollegeHandler(&stubCollegeService{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/api/colleges", tt.body, adminUser)
			names := fieldNames(t, h.Create(c))
			if len(names) != 1 || names[0] != tt.field {
				t.Fatalf("expected only %q rejected, got %v", tt.field, names)
			}
		})
	}
}
