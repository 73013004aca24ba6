package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "photodesk/internal/bookings/errors"
	"photodesk/internal/bookings/repository"
	"photodesk/internal/bookings/validator"
	"photodesk/pkg/config"
	apperrors "photodesk/pkg/errors"
	"photodesk/pkg/model"
	"photodesk/pkg/sanitizer"

	"github.com/google/uuid"
)

// existingBookingBlockHours is the window an already-booked event is assumed
// to occupy when checking photographer availability, regardless of the
// stored duration of that booking. Only the candidate interval uses the
// caller-supplied duration.
// TODO: use the existing booking's own DurationHours once callers that rely
// on the fixed window are audited.
const existingBookingBlockHours = 3

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context) ([]*model.Booking, error)
	GetByClient(ctx context.Context, clientID string) ([]*model.Booking, error)
	GetByPhotographer(ctx context.Context, photographerID string) ([]*model.Booking, error)
	GetByStatus(ctx context.Context, status config.BookingStatus) ([]*model.Booking, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error)
	GetUpcoming(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error)
	GetPast(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status config.BookingStatus) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	IsPhotographerAvailable(ctx context.Context, photographerID string, eventDateTime time.Time, durationHours int) (bool, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	bookingValidator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: bookingValidator,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	if booking == nil {
		return apperrors.InvalidInput("Booking cannot be nil")
	}

	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"client_id", booking.ClientID,
		"photographer_id", booking.PhotographerID,
		"event_datetime", booking.EventDateTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context) ([]*model.Booking, error) {
	return s.repo.FindAll(ctx)
}

func (s *bookingService) GetByClient(ctx context.Context, clientID string) ([]*model.Booking, error) {
	return s.repo.FindByClient(ctx, clientID)
}

func (s *bookingService) GetByPhotographer(ctx context.Context, photographerID string) ([]*model.Booking, error) {
	return s.repo.FindByPhotographer(ctx, photographerID)
}

func (s *bookingService) GetByStatus(ctx context.Context, status config.BookingStatus) ([]*model.Booking, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *bookingService) GetByDateRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error) {
	return s.repo.FindByDateRange(ctx, start, end)
}

func (s *bookingService) GetUpcoming(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error) {
	return s.repo.FindUpcoming(ctx, userID, isPhotographer)
}

func (s *bookingService) GetPast(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error) {
	return s.repo.FindPast(ctx, userID, isPhotographer)
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("Updates cannot be nil")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return merged, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, status config.BookingStatus) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !status.Valid() {
		return apperrors.InvalidInput("Invalid booking status: " + status.String())
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "status", status, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "status", status)
	return nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) error {
	return s.UpdateStatus(ctx, id, config.Cancelled)
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

// IsPhotographerAvailable reports whether the candidate interval
// [eventDateTime, eventDateTime+durationHours) is free of overlap with any
// non-cancelled booking of the photographer. Overlap is half-open, so a
// booking ending exactly when another starts does not conflict.
func (s *bookingService) IsPhotographerAvailable(ctx context.Context, photographerID string, eventDateTime time.Time, durationHours int) (bool, error) {
	if photographerID == "" {
		return false, apperrors.InvalidInput("Photographer ID cannot be empty")
	}
	if eventDateTime.IsZero() {
		return false, apperrors.InvalidInput("Event date/time cannot be empty")
	}
	if durationHours <= 0 {
		durationHours = s.cfg.DefaultEventDurationHours
	}

	existing, err := s.repo.FindByPhotographer(ctx, photographerID)
	if err != nil {
		return false, apperrors.Internal("Failed to check photographer availability", err)
	}

	candidateEnd := eventDateTime.Add(time.Duration(durationHours) * time.Hour)
	for _, b := range existing {
		if b.Status == config.Cancelled {
			continue
		}
		existingStart := b.EventDateTime
		existingEnd := existingStart.Add(existingBookingBlockHours * time.Hour)
		if eventDateTime.Before(existingEnd) && candidateEnd.After(existingStart) {
			return false, nil
		}
	}
	return true, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.BookingDateTime.IsZero() {
		b.BookingDateTime = time.Now()
	}
	if b.Status == "" {
		b.Status = config.Pending
	}
	if b.DurationHours <= 0 {
		b.DurationHours = s.cfg.DefaultEventDurationHours
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Location = sanitizer.SanitizeLabel(b.Location)
	b.Notes = sanitizer.SanitizeFreeText(b.Notes)
}

func (s *bookingService) mergeUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.EventDateTime != nil {
		merged.EventDateTime = *updates.EventDateTime
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}
	if updates.DurationHours != nil {
		merged.DurationHours = *updates.DurationHours
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
