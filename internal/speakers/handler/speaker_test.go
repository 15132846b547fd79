package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"podium/internal/speakers/service"
	"podium/pkg/config"
	apperrors "podium/pkg/errors"
	"podium/pkg/logger"
	"podium/pkg/middleware"
	"podium/pkg/model"
)

type mockSpeakerService struct {
	createFn              func(ctx context.Context, speaker *model.Speaker) error
	getByIDFn             func(ctx context.Context, id string) (*model.Speaker, error)
	getAllFn              func(ctx context.Context, pageID string, limit int, offset int64) ([]*model.Speaker, int64, error)
	updateFn              func(ctx context.Context, id string, updates *model.SpeakerUpdate) (*model.Speaker, error)
	deleteFn              func(ctx context.Context, id string) error
	bookFn                func(ctx context.Context, id string, caller model.Caller, programDate time.Time, programTime string) (*model.Speaker, error)
	releaseFn             func(ctx context.Context, id string) (*model.Speaker, error)
	currentAvailabilityFn func(ctx context.Context, id string) (*service.AvailabilityStatus, error)
}

func (m *mockSpeakerService) Create(ctx context.Context, speaker *model.Speaker) error {
	return m.createFn(ctx, speaker)
}

func (m *mockSpeakerService) GetByID(ctx context.Context, id string) (*model.Speaker, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockSpeakerService) GetAll(ctx context.Context, pageID string, limit int, offset int64) ([]*model.Speaker, int64, error) {
	return m.getAllFn(ctx, pageID, limit, offset)
}

func (m *mockSpeakerService) Update(ctx context.Context, id string, updates *model.SpeakerUpdate) (*model.Speaker, error) {
	return m.updateFn(ctx, id, updates)
}

func (m *mockSpeakerService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSpeakerService) Book(ctx context.Context, id string, caller model.Caller, programDate time.Time, programTime string) (*model.Speaker, error) {
	return m.bookFn(ctx, id, caller, programDate, programTime)
}

func (m *mockSpeakerService) Release(ctx context.Context, id string) (*model.Speaker, error) {
	return m.releaseFn(ctx, id)
}

func (m *mockSpeakerService) CurrentAvailability(ctx context.Context, id string) (*service.AvailabilityStatus, error) {
	return m.currentAvailabilityFn(ctx, id)
}

func newTestRouter(svc service.SpeakerService) *httprouter.Router {
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	router := httprouter.New()
	NewSpeakerHandler(svc, cfg).RegisterRoutes(router)
	return router
}

func withCaller(r *http.Request, caller model.Caller) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.CallerKey, caller))
}

func TestSetAvailability_Book(t *testing.T) {
	var gotDate time.Time
	var gotTime string
	var gotCaller model.Caller
	svc := &mockSpeakerService{
		bookFn: func(_ context.Context, id string, caller model.Caller, programDate time.Time, programTime string) (*model.Speaker, error) {
			gotCaller = caller
			gotDate = programDate
			gotTime = programTime
			speaker := &model.Speaker{ID: id}
			speaker.Availability = model.Locked(caller, programDate, programTime, time.Now())
			return speaker, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"program_date":"2025-06-01","program_time":"19:30","make_available":false}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/speakers/id/abc/availability", strings.NewReader(body))
	req = withCaller(req, model.Caller{ID: "caller-1", Name: "Alice"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotCaller.ID != "caller-1" {
		t.Errorf("expected caller from context, got %+v", gotCaller)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !gotDate.Equal(want) {
		t.Errorf("expected program date %v, got %v", want, gotDate)
	}
	if gotTime != "19:30" {
		t.Errorf("expected program time 19:30, got %s", gotTime)
	}
}

func TestSetAvailability_BookWithoutCaller(t *testing.T) {
	svc := &mockSpeakerService{
		bookFn: func(_ context.Context, _ string, _ model.Caller, _ time.Time, _ string) (*model.Speaker, error) {
			t.Error("booking must not run without an authenticated caller")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"program_date":"2025-06-01","program_time":"19:30"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/speakers/id/abc/availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSetAvailability_BadProgramDate(t *testing.T) {
	router := newTestRouter(&mockSpeakerService{})

	body := `{"program_date":"June 1st","program_time":"19:30"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/speakers/id/abc/availability", strings.NewReader(body))
	req = withCaller(req, model.Caller{ID: "caller-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSetAvailability_Release(t *testing.T) {
	released := false
	svc := &mockSpeakerService{
		releaseFn: func(_ context.Context, id string) (*model.Speaker, error) {
			released = true
			return &model.Speaker{ID: id, Availability: model.Free()}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"make_available":true}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/speakers/id/abc/availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !released {
		t.Error("expected release to be invoked")
	}
}

func TestSetAvailability_AlreadyLockedResponse(t *testing.T) {
	programDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := &mockSpeakerService{
		bookFn: func(_ context.Context, _ string, _ model.Caller, _ time.Time, _ string) (*model.Speaker, error) {
			return nil, apperrors.AlreadyLocked("holder-1", "Holder One", programDate)
		},
	}
	router := newTestRouter(svc)

	body := `{"program_date":"2025-06-02","program_time":"10:00"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/speakers/id/abc/availability", strings.NewReader(body))
	req = withCaller(req, model.Caller{ID: "caller-2"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != apperrors.CodeAlreadyLocked {
		t.Errorf("expected code %s, got %s", apperrors.CodeAlreadyLocked, resp.Code)
	}
	if resp.Details["locked_by_name"] != "Holder One" {
		t.Errorf("expected holder name in details, got %v", resp.Details)
	}
}

func TestGetAvailability(t *testing.T) {
	svc := &mockSpeakerService{
		currentAvailabilityFn: func(_ context.Context, id string) (*service.AvailabilityStatus, error) {
			return &service.AvailabilityStatus{SpeakerID: id, Available: true, Availability: model.Free()}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/speakers/id/abc/availability", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"available":true`) {
		t.Errorf("expected availability flag in body, got %s", rec.Body.String())
	}
}

func TestCreate_RequiresAdmin(t *testing.T) {
	svc := &mockSpeakerService{
		createFn: func(_ context.Context, _ *model.Speaker) error {
			t.Error("create must not run for non-admin callers")
			return nil
		},
	}
	router := newTestRouter(svc)

	body := `{"name":"Grace Hopper"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/speakers", strings.NewReader(body))
	req = withCaller(req, model.Caller{ID: "caller-1", Admin: false})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
