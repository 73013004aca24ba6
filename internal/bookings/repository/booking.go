package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	bookingserrors "photodesk/internal/bookings/errors"
	"photodesk/pkg/config"
	apperrors "photodesk/pkg/errors"
	"photodesk/pkg/model"
	"photodesk/pkg/storage"

	"github.com/google/uuid"
)

const backupSuffix = ".bak"

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context) ([]*model.Booking, error)
	FindByClient(ctx context.Context, clientID string) ([]*model.Booking, error)
	FindByPhotographer(ctx context.Context, photographerID string) ([]*model.Booking, error)
	FindByStatus(ctx context.Context, status config.BookingStatus) ([]*model.Booking, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error)
	FindUpcoming(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error)
	FindPast(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error)
	Update(ctx context.Context, id string, booking *model.Booking) error
	UpdateStatus(ctx context.Context, id string, status config.BookingStatus) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// fileBookingRepository keeps the full collection in memory and rewrites the
// backing file on every mutation, taking a .bak copy first. The in-memory
// list is the serving state; a failed flush keeps serving it while the
// on-disk file is restored from the backup best-effort.
type fileBookingRepository struct {
	cfg     *config.Config
	store   storage.Store
	mu      sync.Mutex
	records []*model.Booking
}

// NewFileBookingRepository loads the persisted collection. It fails hard
// when the record store cannot be set up or read: the repository cannot
// usefully exist without storage access.
func NewFileBookingRepository(cfg *config.Config, store storage.Store) (BookingRepository, error) {
	r := &fileBookingRepository{cfg: cfg, store: store}

	if err := store.EnsureExists(config.BookingsCollection); err != nil {
		return nil, apperrors.Unavailable("failed to initialize booking storage", err)
	}

	lines, err := store.ReadAllLines(config.BookingsCollection)
	if err != nil {
		return nil, apperrors.Unavailable("failed to load persisted bookings", err)
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		booking, err := model.UnmarshalBookingLine(line)
		if err != nil {
			cfg.Log.Warn("Skipping malformed booking record", "error", err)
			continue
		}
		r.records = append(r.records, booking)
	}

	cfg.Log.Info("Loaded bookings from storage", "count", len(r.records))
	return r, nil
}

// flush rewrites the collection file. Callers must hold r.mu.
func (r *fileBookingRepository) flush() error {
	name := config.BookingsCollection
	backup := name + backupSuffix

	if r.store.Exists(name) {
		if err := r.store.Copy(name, backup); err != nil {
			return apperrors.Unavailable("failed to back up booking records", err)
		}
	}
	if err := r.store.Delete(name); err != nil {
		return apperrors.Unavailable("failed to reset booking records", err)
	}
	if err := r.store.EnsureExists(name); err != nil {
		return apperrors.Unavailable("failed to recreate booking records", err)
	}

	var content strings.Builder
	for _, b := range r.records {
		line, err := b.MarshalLine()
		if err != nil {
			return apperrors.Internal("failed to serialize booking record", err)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	if err := r.store.WriteAll(name, content.String(), false); err != nil {
		r.cfg.Log.Error("Failed to save bookings, restoring from backup", "error", err)
		if r.store.Exists(backup) {
			if restoreErr := r.store.Copy(backup, name); restoreErr != nil {
				r.cfg.Log.Error("Failed to restore bookings from backup", "error", restoreErr)
			}
		}
		return apperrors.Unavailable("failed to persist bookings", err)
	}

	r.cfg.Log.Debug("Saved bookings", "count", len(r.records))
	return nil
}

func (r *fileBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if booking == nil {
		return apperrors.InvalidInput("booking cannot be nil")
	}
	if booking.ClientID == "" || booking.PhotographerID == "" {
		return apperrors.InvalidInput("booking requires a client ID and a photographer ID")
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.BookingDateTime.IsZero() {
		booking.BookingDateTime = time.Now()
	}
	if booking.Status == "" {
		booking.Status = config.Pending
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, booking)
	return r.flush()
}

func (r *fileBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, bookingserrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.records {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (r *fileBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Booking, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *fileBookingRepository) FindByClient(ctx context.Context, clientID string) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return clientID != "" && b.ClientID == clientID
	}), nil
}

func (r *fileBookingRepository) FindByPhotographer(ctx context.Context, photographerID string) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return photographerID != "" && b.PhotographerID == photographerID
	}), nil
}

func (r *fileBookingRepository) FindByStatus(ctx context.Context, status config.BookingStatus) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return status != "" && b.Status == status
	}), nil
}

// FindByDateRange returns bookings whose event time falls inside the
// inclusive [start, end] range.
func (r *fileBookingRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error) {
	if start.IsZero() || end.IsZero() {
		return []*model.Booking{}, nil
	}
	return r.filter(func(b *model.Booking) bool {
		return !b.EventDateTime.Before(start) && !b.EventDateTime.After(end)
	}), nil
}

// FindUpcoming returns future, non-cancelled bookings for the user, soonest
// first.
func (r *fileBookingRepository) FindUpcoming(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error) {
	now := time.Now()
	out := r.filter(func(b *model.Booking) bool {
		return matchesUser(b, userID, isPhotographer) &&
			b.EventDateTime.After(now) &&
			b.Status != config.Cancelled
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].EventDateTime.Before(out[j].EventDateTime)
	})
	return out, nil
}

// FindPast returns past bookings for the user, most recent first.
func (r *fileBookingRepository) FindPast(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error) {
	now := time.Now()
	out := r.filter(func(b *model.Booking) bool {
		return matchesUser(b, userID, isPhotographer) && b.EventDateTime.Before(now)
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].EventDateTime.After(out[j].EventDateTime)
	})
	return out, nil
}

func (r *fileBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	if id == "" {
		return bookingserrors.ErrInvalidID
	}
	if booking == nil {
		return apperrors.InvalidInput("booking cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.ID == id {
			booking.ID = id
			r.records[i] = booking
			return r.flush()
		}
	}
	return bookingserrors.ErrNotFound
}

func (r *fileBookingRepository) UpdateStatus(ctx context.Context, id string, status config.BookingStatus) error {
	if id == "" {
		return bookingserrors.ErrInvalidID
	}
	if !status.Valid() {
		return apperrors.InvalidInput("invalid booking status: " + status.String())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.ID == id {
			existing.Status = status
			return r.flush()
		}
	}
	return bookingserrors.ErrNotFound
}

func (r *fileBookingRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return bookingserrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return r.flush()
		}
	}
	return bookingserrors.ErrNotFound
}

func (r *fileBookingRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *fileBookingRepository) filter(keep func(*model.Booking) bool) []*model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.Booking{}
	for _, b := range r.records {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func matchesUser(b *model.Booking, userID string, isPhotographer bool) bool {
	if userID == "" {
		return false
	}
	if isPhotographer {
		return b.PhotographerID == userID
	}
	return b.ClientID == userID
}
