package service

import (
	"context"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	pageserrors "podium/internal/pages/errors"
	"podium/internal/pages/validator"
	"podium/pkg/config"
	mongodb "podium/pkg/db/mongo"
	apperrors "podium/pkg/errors"
	"podium/pkg/logger"
	"podium/pkg/model"
)

const testPageID = "507f191e810c19729de860ea"

type mockPageRepo struct {
	createFn   func(ctx context.Context, page *model.Page) error
	findByIDFn func(ctx context.Context, id string) (*model.Page, error)
	findAllFn  func(ctx context.Context) ([]*model.Page, error)
	updateFn   func(ctx context.Context, id string, page *model.Page) error
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockPageRepo) Create(ctx context.Context, page *model.Page) error {
	return m.createFn(ctx, page)
}

func (m *mockPageRepo) FindByID(ctx context.Context, id string) (*model.Page, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockPageRepo) FindAll(ctx context.Context) ([]*model.Page, error) {
	return m.findAllFn(ctx)
}

func (m *mockPageRepo) Update(ctx context.Context, id string, page *model.Page) error {
	return m.updateFn(ctx, id, page)
}

func (m *mockPageRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockSpeakerCounter struct {
	countByPageFn func(ctx context.Context, pageID string) (int64, error)
}

func (m *mockSpeakerCounter) CountByPage(ctx context.Context, pageID string) (int64, error) {
	return m.countByPageFn(ctx, pageID)
}

// mockTxManager runs the callback without a real session; the guard
// logic under test does not touch the session itself.
type mockTxManager struct{}

func (m *mockTxManager) ExecuteTransaction(_ context.Context, fn mongodb.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

func newTestService(repo *mockPageRepo, counter *mockSpeakerCounter) PageService {
	cfg := &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
	return NewPageService(repo, counter, validator.NewPageValidator(cfg.Log), &mockTxManager{}, cfg)
}

func assertAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code)
	}
	return appErr
}

func TestCreate_NormalizesName(t *testing.T) {
	var created *model.Page
	repo := &mockPageRepo{
		createFn: func(_ context.Context, page *model.Page) error {
			created = page
			return nil
		},
	}
	svc := newTestService(repo, &mockSpeakerCounter{})

	page := &model.Page{Name: "  Keynote   Speakers  ", Order: 1}
	if err := svc.Create(context.Background(), page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Name != "Keynote Speakers" {
		t.Errorf("expected normalized name, got %q", created.Name)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := &mockPageRepo{
		createFn: func(_ context.Context, _ *model.Page) error {
			return pageserrors.ErrDuplicateName
		},
	}
	svc := newTestService(repo, &mockSpeakerCounter{})

	err := svc.Create(context.Background(), &model.Page{Name: "Keynotes"})
	assertAppError(t, err, apperrors.CodeConflict)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockPageRepo{}, &mockSpeakerCounter{})

	err := svc.Create(context.Background(), &model.Page{Name: ""})
	assertAppError(t, err, apperrors.CodeValidation)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockPageRepo{
		findByIDFn: func(_ context.Context, _ string) (*model.Page, error) {
			return nil, pageserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, &mockSpeakerCounter{})

	_, err := svc.GetByID(context.Background(), testPageID)
	assertAppError(t, err, apperrors.CodeNotFound)
}

func TestUpdate_MergesFields(t *testing.T) {
	var updated *model.Page
	repo := &mockPageRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Page, error) {
			return &model.Page{ID: id, Name: "Keynotes", Order: 1}, nil
		},
		updateFn: func(_ context.Context, _ string, page *model.Page) error {
			updated = page
			return nil
		},
	}
	svc := newTestService(repo, &mockSpeakerCounter{})

	order := 5
	got, err := svc.Update(context.Background(), testPageID, &model.PageUpdate{Order: &order})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Order != 5 {
		t.Errorf("expected merged order 5, got %d", updated.Order)
	}
	if got.Name != "Keynotes" {
		t.Errorf("expected untouched name, got %q", got.Name)
	}
}

func TestDelete_Empty(t *testing.T) {
	deleted := false
	repo := &mockPageRepo{
		deleteFn: func(_ context.Context, _ string) error {
			deleted = true
			return nil
		},
	}
	counter := &mockSpeakerCounter{
		countByPageFn: func(_ context.Context, _ string) (int64, error) {
			return 0, nil
		},
	}
	svc := newTestService(repo, counter)

	if err := svc.Delete(context.Background(), testPageID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected page to be deleted")
	}
}

func TestDelete_GuardedWhileSpeakersAssigned(t *testing.T) {
	repo := &mockPageRepo{
		deleteFn: func(_ context.Context, _ string) error {
			t.Error("delete must not run while speakers are assigned")
			return nil
		},
	}
	counter := &mockSpeakerCounter{
		countByPageFn: func(_ context.Context, _ string) (int64, error) {
			return 3, nil
		},
	}
	svc := newTestService(repo, counter)

	err := svc.Delete(context.Background(), testPageID)
	appErr := assertAppError(t, err, apperrors.CodeConflict)
	if appErr.Details["speaker_count"] != int64(3) {
		t.Errorf("expected speaker_count 3 in details, got %v", appErr.Details["speaker_count"])
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockPageRepo{
		deleteFn: func(_ context.Context, _ string) error {
			return pageserrors.ErrNotFound
		},
	}
	counter := &mockSpeakerCounter{
		countByPageFn: func(_ context.Context, _ string) (int64, error) {
			return 0, nil
		},
	}
	svc := newTestService(repo, counter)

	err := svc.Delete(context.Background(), testPageID)
	assertAppError(t, err, apperrors.CodeNotFound)
}
