package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	pageserrors "podium/internal/pages/errors"
	"podium/internal/pages/repository"
	"podium/internal/pages/validator"
	"podium/pkg/config"
	mongodb "podium/pkg/db/mongo"
	apperrors "podium/pkg/errors"
	"podium/pkg/model"
	"podium/pkg/sanitizer"
)

type PageService interface {
	Create(ctx context.Context, page *model.Page) error
	GetByID(ctx context.Context, id string) (*model.Page, error)
	GetAll(ctx context.Context) ([]*model.Page, error)
	Update(ctx context.Context, id string, updates *model.PageUpdate) (*model.Page, error)
	Delete(ctx context.Context, id string) error
}

// SpeakerCounter is the slice of the speakers repository the page
// service needs for the delete guard.
type SpeakerCounter interface {
	CountByPage(ctx context.Context, pageID string) (int64, error)
}

type pageService struct {
	repo      repository.PageRepository
	speakers  SpeakerCounter
	validator *validator.PageValidator
	txManager mongodb.TransactionManager
	cfg       *config.Config
}

func NewPageService(
	repo repository.PageRepository,
	speakers SpeakerCounter,
	validator *validator.PageValidator,
	txManager mongodb.TransactionManager,
	cfg *config.Config,
) PageService {
	return &pageService{
		repo:      repo,
		speakers:  speakers,
		validator: validator,
		txManager: txManager,
		cfg:       cfg,
	}
}

func (s *pageService) Create(ctx context.Context, page *model.Page) error {
	page.Name = sanitizer.NormalizePageName(page.Name)

	if err := s.validator.Validate(page); err != nil {
		s.cfg.Log.Warn("Page validation failed", "name", page.Name, "error", err)
		return apperrors.Validation("Page validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, page); err != nil {
		if errors.Is(err, pageserrors.ErrDuplicateName) {
			return apperrors.Conflict("A page with this name already exists")
		}
		s.cfg.Log.Error("Failed to create page", "name", page.Name, "error", err)
		return apperrors.Internal("Failed to create page", err)
	}

	s.cfg.Log.Info("Page created", "id", page.ID, "name", page.Name)
	return nil
}

func (s *pageService) GetByID(ctx context.Context, id string) (*model.Page, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Page ID cannot be empty")
	}

	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return page, nil
}

func (s *pageService) GetAll(ctx context.Context) ([]*model.Page, error) {
	pages, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list pages", "error", err)
		return nil, apperrors.Internal("Failed to retrieve pages", err)
	}
	return pages, nil
}

func (s *pageService) Update(ctx context.Context, id string, updates *model.PageUpdate) (*model.Page, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Page ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = sanitizer.NormalizePageName(updates.Name)
	}
	if updates.Order != nil {
		merged.Order = *updates.Order
	}

	if err := s.validator.Validate(&merged); err != nil {
		return nil, apperrors.Validation("Page validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, pageserrors.ErrDuplicateName) {
			return nil, apperrors.Conflict("A page with this name already exists")
		}
		if errors.Is(err, pageserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Page", id)
		}
		s.cfg.Log.Error("Failed to update page", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update page", err)
	}

	s.cfg.Log.Info("Page updated", "id", id)
	return &merged, nil
}

// Delete removes an empty page. The speaker count and the delete run
// in one transaction so a speaker created mid-delete cannot be
// orphaned.
func (s *pageService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Page ID cannot be empty")
	}

	err := s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		count, err := s.speakers.CountByPage(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to count speakers for page", err)
		}
		if count > 0 {
			return apperrors.Conflict("Page still has speakers assigned").
				WithDetails(map[string]any{"speaker_count": count})
		}

		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, pageserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Page", id)
			}
			if errors.Is(err, pageserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid page ID format")
			}
			return apperrors.Internal("Failed to delete page", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		s.cfg.Log.Error("Failed to delete page", "id", id, "error", err)
		return apperrors.Internal("Failed to delete page", err)
	}

	s.cfg.Log.Info("Page deleted", "id", id)
	return nil
}

func (s *pageService) mapLookupError(err error, id string) error {
	if errors.Is(err, pageserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Page", id)
	}
	if errors.Is(err, pageserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid page ID format")
	}
	s.cfg.Log.Error("Failed to retrieve page", "id", id, "error", err)
	return apperrors.Internal("Failed to retrieve page", err)
}
