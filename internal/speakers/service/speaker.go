package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"podium/internal/availability"
	pageserrors "podium/internal/pages/errors"
	speakerserrors "podium/internal/speakers/errors"
	"podium/internal/speakers/repository"
	"podium/internal/speakers/validator"
	"podium/pkg/config"
	apperrors "podium/pkg/errors"
	"podium/pkg/kafka"
	"podium/pkg/model"
	"podium/pkg/sanitizer"
)

const (
	EventSpeakerLocked   = "speaker.locked"
	EventSpeakerReleased = "speaker.released"

	// bookAttempts bounds the optimistic-concurrency loop in Book. A
	// lost write race is re-evaluated against the fresh record, so a
	// genuine conflict surfaces as AlreadyLocked on the next pass.
	bookAttempts = 3
)

type SpeakerService interface {
	Create(ctx context.Context, speaker *model.Speaker) error
	GetByID(ctx context.Context, id string) (*model.Speaker, error)
	GetAll(ctx context.Context, pageID string, limit int, offset int64) ([]*model.Speaker, int64, error)
	Update(ctx context.Context, id string, updates *model.SpeakerUpdate) (*model.Speaker, error)
	Delete(ctx context.Context, id string) error

	Book(ctx context.Context, id string, caller model.Caller, programDate time.Time, programTime string) (*model.Speaker, error)
	Release(ctx context.Context, id string) (*model.Speaker, error)
	CurrentAvailability(ctx context.Context, id string) (*AvailabilityStatus, error)
}

// PageResolver is the slice of the pages repository the speaker
// service needs: reference checks and display resolution.
type PageResolver interface {
	FindByID(ctx context.Context, id string) (*model.Page, error)
}

// EventPublisher emits booking lifecycle events. May be left nil when
// no broker is configured.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// AvailabilityStatus is the read-only booking projection of a
// speaker. Available applies lazy expiry without persisting it, so
// the stored state may still say locked; the next booking write
// reconciles it.
type AvailabilityStatus struct {
	SpeakerID    string             `json:"speaker_id"`
	Available    bool               `json:"available"`
	Availability model.Availability `json:"availability"`
}

type speakerService struct {
	repo      repository.SpeakerRepository
	pages     PageResolver
	validator *validator.SpeakerValidator
	events    EventPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewSpeakerService(
	repo repository.SpeakerRepository,
	pages PageResolver,
	validator *validator.SpeakerValidator,
	events EventPublisher,
	cfg *config.Config,
) SpeakerService {
	return &speakerService{
		repo:      repo,
		pages:     pages,
		validator: validator,
		events:    events,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// --- Booking ---

func (s *speakerService) Book(ctx context.Context, id string, caller model.Caller, programDate time.Time, programTime string) (*model.Speaker, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Speaker ID cannot be empty")
	}

	for attempt := 0; attempt < bookAttempts; attempt++ {
		now := s.now()

		speaker, err := s.findSpeaker(ctx, id)
		if err != nil {
			return nil, err
		}

		next, err := availability.Lock(speaker.Availability, caller, programDate, programTime, now)
		if err != nil {
			if errors.Is(err, availability.ErrMissingProgram) {
				return nil, apperrors.InvalidInput("Program date and time are required")
			}
			var lockedErr *availability.AlreadyLockedError
			if errors.As(err, &lockedErr) {
				s.cfg.Log.Info("Booking rejected, speaker already locked",
					"speaker_id", id,
					"caller_id", caller.ID,
					"locked_by", lockedErr.LockedBy,
				)
				return nil, apperrors.AlreadyLocked(lockedErr.LockedBy, lockedErr.LockedByName, lockedErr.ProgramDate)
			}
			return nil, apperrors.Internal("Failed to evaluate booking transition", err)
		}

		// Guarded write: only applies while the record is still
		// effectively free at the instant we decided. A miss means a
		// concurrent booking won; loop and re-evaluate against the
		// fresh record, which surfaces the winner via AlreadyLocked.
		err = s.repo.SetAvailability(ctx, id, next, &now)
		if err != nil {
			if errors.Is(err, speakerserrors.ErrStaleAvailability) {
				s.cfg.Log.Debug("Booking write lost the race, re-evaluating",
					"speaker_id", id,
					"caller_id", caller.ID,
					"attempt", attempt+1,
				)
				continue
			}
			s.cfg.Log.Error("Failed to persist booking", "speaker_id", id, "error", err)
			return nil, apperrors.Internal("Failed to persist booking", err)
		}

		speaker.Availability = next
		s.publishEvent(ctx, EventSpeakerLocked, speaker)
		s.resolvePage(ctx, speaker)

		s.cfg.Log.Info("Speaker booked",
			"speaker_id", id,
			"caller_id", caller.ID,
			"program_date", programDate,
			"program_time", programTime,
		)
		return speaker, nil
	}

	return nil, apperrors.Conflict("Speaker is being booked by concurrent requests, please retry")
}

func (s *speakerService) Release(ctx context.Context, id string) (*model.Speaker, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Speaker ID cannot be empty")
	}

	speaker, err := s.findSpeaker(ctx, id)
	if err != nil {
		return nil, err
	}

	wasLocked := !speaker.Availability.IsAvailable
	speaker.Availability = availability.Release(speaker.Availability)

	// Unconditional write: releasing an already-free speaker is a
	// no-op success.
	if err := s.repo.SetAvailability(ctx, id, speaker.Availability, nil); err != nil {
		if errors.Is(err, speakerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Speaker", id)
		}
		s.cfg.Log.Error("Failed to release speaker", "speaker_id", id, "error", err)
		return nil, apperrors.Internal("Failed to release speaker", err)
	}

	if wasLocked {
		s.publishEvent(ctx, EventSpeakerReleased, speaker)
	}
	s.resolvePage(ctx, speaker)

	s.cfg.Log.Info("Speaker released", "speaker_id", id)
	return speaker, nil
}

func (s *speakerService) CurrentAvailability(ctx context.Context, id string) (*AvailabilityStatus, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Speaker ID cannot be empty")
	}

	speaker, err := s.findSpeaker(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AvailabilityStatus{
		SpeakerID:    speaker.ID,
		Available:    availability.Available(speaker.Availability, s.now()),
		Availability: speaker.Availability,
	}, nil
}

// --- CRUD ---

func (s *speakerService) Create(ctx context.Context, speaker *model.Speaker) error {
	s.sanitize(speaker)
	speaker.Availability = model.Free()

	if err := s.validator.Validate(speaker); err != nil {
		s.cfg.Log.Warn("Speaker validation failed", "name", speaker.Name, "error", err)
		return apperrors.Validation("Speaker validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.checkPageExists(ctx, speaker.PageID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, speaker); err != nil {
		s.cfg.Log.Error("Failed to create speaker", "name", speaker.Name, "error", err)
		return apperrors.Internal("Failed to create speaker", err)
	}

	s.resolvePage(ctx, speaker)
	s.cfg.Log.Info("Speaker created", "id", speaker.ID, "name", speaker.Name, "page_id", speaker.PageID)
	return nil
}

func (s *speakerService) GetByID(ctx context.Context, id string) (*model.Speaker, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Speaker ID cannot be empty")
	}

	speaker, err := s.findSpeaker(ctx, id)
	if err != nil {
		return nil, err
	}

	s.resolvePage(ctx, speaker)
	return speaker, nil
}

func (s *speakerService) GetAll(ctx context.Context, pageID string, limit int, offset int64) ([]*model.Speaker, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var speakers []*model.Speaker
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx, pageID)
		if err != nil {
			s.cfg.Log.Error("Failed to count speakers", "page_id", pageID, "error", err)
			errCount = apperrors.Internal("Failed to count speakers", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		speakers, err = s.repo.FindAll(ctx, pageID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list speakers", "page_id", pageID, "error", err)
			errFind = apperrors.Internal("Failed to retrieve speakers", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	for _, speaker := range speakers {
		s.resolvePage(ctx, speaker)
	}

	return speakers, count, nil
}

func (s *speakerService) Update(ctx context.Context, id string, updates *model.SpeakerUpdate) (*model.Speaker, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Speaker ID cannot be empty")
	}

	existing, err := s.findSpeaker(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Speaker update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeSpeakerUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Speaker validation failed", map[string]any{"error": err.Error()})
	}

	if merged.PageID != existing.PageID {
		if err := s.checkPageExists(ctx, merged.PageID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, speakerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Speaker", id)
		}
		s.cfg.Log.Error("Failed to update speaker", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update speaker", err)
	}

	s.resolvePage(ctx, merged)
	s.cfg.Log.Info("Speaker updated", "id", id)
	return merged, nil
}

func (s *speakerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Speaker ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, speakerserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Speaker", id)
		}
		if errors.Is(err, speakerserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid speaker ID format")
		}
		s.cfg.Log.Error("Failed to delete speaker", "id", id, "error", err)
		return apperrors.Internal("Failed to delete speaker", err)
	}

	s.cfg.Log.Info("Speaker deleted", "id", id)
	return nil
}

// --- Helpers ---

func (s *speakerService) findSpeaker(ctx context.Context, id string) (*model.Speaker, error) {
	speaker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, speakerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Speaker", id)
		}
		if errors.Is(err, speakerserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid speaker ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve speaker", err)
	}
	return speaker, nil
}

func (s *speakerService) sanitize(speaker *model.Speaker) {
	speaker.Name = sanitizer.NormalizeName(speaker.Name)
	speaker.Area = sanitizer.NormalizeArea(speaker.Area)
	speaker.PhoneNumber = sanitizer.NormalizePhone(speaker.PhoneNumber)
}

func (s *speakerService) mergeSpeakerUpdates(existing *model.Speaker, updates *model.SpeakerUpdate) *model.Speaker {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Area != "" {
		merged.Area = updates.Area
	}
	if updates.PhoneNumber != "" {
		merged.PhoneNumber = updates.PhoneNumber
	}
	if updates.PageID != "" {
		merged.PageID = updates.PageID
	}

	return &merged
}

func (s *speakerService) checkPageExists(ctx context.Context, pageID string) error {
	_, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, pageserrors.ErrNotFound) || errors.Is(err, pageserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Referenced page does not exist")
		}
		return apperrors.Internal("Failed to verify page reference", err)
	}
	return nil
}

// resolvePage attaches the page projection for display. Resolution
// failures are logged, never fatal to the request.
func (s *speakerService) resolvePage(ctx context.Context, speaker *model.Speaker) {
	if s.pages == nil || speaker.PageID == "" {
		return
	}

	page, err := s.pages.FindByID(ctx, speaker.PageID)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve page for speaker",
			"speaker_id", speaker.ID,
			"page_id", speaker.PageID,
			"error", err,
		)
		return
	}

	speaker.Page = &model.PageRef{ID: page.ID, Name: page.Name}
}

type speakerEvent struct {
	SpeakerID    string     `json:"speaker_id"`
	PageID       string     `json:"page_id"`
	LockedBy     string     `json:"locked_by,omitempty"`
	LockedByName string     `json:"locked_by_name,omitempty"`
	ProgramDate  *time.Time `json:"program_date,omitempty"`
	ProgramTime  string     `json:"program_time,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// publishEvent emits a lifecycle event, best effort: a broker outage
// never fails the booking.
func (s *speakerService) publishEvent(ctx context.Context, eventType string, speaker *model.Speaker) {
	if s.events == nil {
		return
	}

	msg, err := kafka.NewEvent(eventType, speaker.ID, speakerEvent{
		SpeakerID:    speaker.ID,
		PageID:       speaker.PageID,
		LockedBy:     speaker.Availability.LockedBy,
		LockedByName: speaker.Availability.LockedByName,
		ProgramDate:  speaker.Availability.ProgramDate,
		ProgramTime:  speaker.Availability.ProgramTime,
		OccurredAt:   s.now(),
	})
	if err != nil {
		s.cfg.Log.Error("Failed to build speaker event", "event_type", eventType, "speaker_id", speaker.ID, "error", err)
		return
	}

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish speaker event", "event_type", eventType, "speaker_id", speaker.ID, "error", err)
	}
}
