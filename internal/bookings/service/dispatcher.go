package service

import (
	"context"
	"errors"
	"sync"

	bookingserrors "photodesk/internal/bookings/errors"
	"photodesk/internal/bookings/queue"
	"photodesk/internal/bookings/repository"
	"photodesk/pkg/config"
	apperrors "photodesk/pkg/errors"
	"photodesk/pkg/model"

	"github.com/google/uuid"
)

// QueueDispatcher keeps the global queue and the per-photographer queues
// representing the same set of pending bookings. A booking with a
// photographer lives in exactly two queues until processed, at which point
// it lives in neither and has been committed to the store exactly once,
// whichever queue drained it first.
type QueueDispatcher interface {
	QueueBooking(ctx context.Context, booking *model.Booking) error
	ProcessNext(ctx context.Context) (*model.Booking, error)
	ProcessNextForPhotographer(ctx context.Context, photographerID string) (*model.Booking, error)
	ProcessBatchForPhotographer(ctx context.Context, photographerID string, limit int) (int, error)
	ProcessAllQueued(ctx context.Context) (int, error)
	ClearAllQueues()
	QueueSize() int
	QueueSizeForPhotographer(photographerID string) int
	QueuedBookings() []*model.Booking
	QueuedBookingsForPhotographer(photographerID string) []*model.Booking
	QueuedBookingsForClient(clientID string) []*model.Booking
}

type queueDispatcher struct {
	cfg  *config.Config
	repo repository.BookingRepository

	// mu guards the global queue and the photographer queue map as one
	// unit, so a submission and a process call cannot interleave into a
	// torn state. Lazy queue creation happens under this lock.
	mu                 sync.Mutex
	global             *queue.Queue
	photographerQueues map[string]*queue.Queue
}

func NewQueueDispatcher(repo repository.BookingRepository, cfg *config.Config) QueueDispatcher {
	return &queueDispatcher{
		cfg:                cfg,
		repo:               repo,
		global:             queue.New(repo),
		photographerQueues: make(map[string]*queue.Queue),
	}
}

// QueueBooking mirrors the booking into the global queue and, when it is
// addressed to a photographer, into that photographer's queue. Both copies
// carry pending status. A booking without a photographer is valid and only
// enters the global queue.
func (d *queueDispatcher) QueueBooking(ctx context.Context, booking *model.Booking) error {
	if booking == nil {
		d.cfg.Log.Warn("Attempted to queue nil booking")
		return apperrors.InvalidInput("Booking cannot be nil")
	}
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.global.Enqueue(booking); err != nil {
		return err
	}

	if booking.PhotographerID != "" {
		if err := d.photographerQueue(booking.PhotographerID).Enqueue(booking); err != nil {
			return err
		}
		d.cfg.Log.Info("Booking queued for photographer",
			"id", booking.ID,
			"photographer_id", booking.PhotographerID,
		)
	}

	return nil
}

// photographerQueue returns the photographer's queue, creating it on first
// use. Callers must hold d.mu.
func (d *queueDispatcher) photographerQueue(photographerID string) *queue.Queue {
	q, ok := d.photographerQueues[photographerID]
	if !ok {
		q = queue.New(d.repo)
		d.photographerQueues[photographerID] = q
	}
	return q
}

// ProcessNext dequeues the global head, which commits it to the store, then
// removes the same booking from its photographer's queue without committing
// again. Returns ErrQueueEmpty when there is nothing to process.
func (d *queueDispatcher) ProcessNext(ctx context.Context) (*model.Booking, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	booking, err := d.global.Dequeue(ctx)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrQueueEmpty) {
			return nil, err
		}
		// Commit failed, but the booking has left the global queue. The
		// mirror still has to be cleaned up before surfacing the error.
		d.cfg.Log.Error("Failed to commit booking on dequeue", "id", booking.ID, "error", err)
	}

	d.removeMirror(ctx, booking)

	if err != nil {
		return booking, err
	}

	d.cfg.Log.Info("Booking processed from queue", "id", booking.ID)
	return booking, nil
}

// removeMirror drops the booking from its photographer queue without a
// second commit. Callers must hold d.mu.
func (d *queueDispatcher) removeMirror(ctx context.Context, booking *model.Booking) {
	if booking == nil || booking.PhotographerID == "" {
		return
	}
	q, ok := d.photographerQueues[booking.PhotographerID]
	if !ok {
		return
	}
	if _, err := q.RemoveByID(ctx, booking.ID, false); err != nil && !errors.Is(err, bookingserrors.ErrNotFound) {
		d.cfg.Log.Warn("Failed to remove booking from photographer queue",
			"id", booking.ID,
			"photographer_id", booking.PhotographerID,
			"error", err,
		)
	}
}

// ProcessNextForPhotographer is the symmetric drain path: the photographer
// queue performs the durable commit and the global copy is removed silently.
func (d *queueDispatcher) ProcessNextForPhotographer(ctx context.Context, photographerID string) (*model.Booking, error) {
	if photographerID == "" {
		return nil, apperrors.InvalidInput("Photographer ID cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.processNextForPhotographerLocked(ctx, photographerID)
}

func (d *queueDispatcher) processNextForPhotographerLocked(ctx context.Context, photographerID string) (*model.Booking, error) {
	q, ok := d.photographerQueues[photographerID]
	if !ok {
		return nil, bookingserrors.ErrQueueEmpty
	}

	booking, err := q.Dequeue(ctx)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrQueueEmpty) {
			return nil, err
		}
		d.cfg.Log.Error("Failed to commit booking on photographer dequeue",
			"id", booking.ID,
			"photographer_id", photographerID,
			"error", err,
		)
	}

	if _, rmErr := d.global.RemoveByID(ctx, booking.ID, false); rmErr != nil && !errors.Is(rmErr, bookingserrors.ErrNotFound) {
		d.cfg.Log.Warn("Failed to remove booking from global queue", "id", booking.ID, "error", rmErr)
	}

	if err != nil {
		return booking, err
	}

	d.cfg.Log.Info("Booking processed for photographer",
		"id", booking.ID,
		"photographer_id", photographerID,
	)
	return booking, nil
}

// ProcessBatchForPhotographer drains up to limit bookings from one
// photographer's queue and reports how many were actually processed.
func (d *queueDispatcher) ProcessBatchForPhotographer(ctx context.Context, photographerID string, limit int) (int, error) {
	if photographerID == "" {
		return 0, apperrors.InvalidInput("Photographer ID cannot be empty")
	}
	if limit <= 0 {
		return 0, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	processed := 0
	for processed < limit {
		booking, err := d.processNextForPhotographerLocked(ctx, photographerID)
		if errors.Is(err, bookingserrors.ErrQueueEmpty) {
			break
		}
		if booking != nil {
			processed++
		}
	}
	return processed, nil
}

// ProcessAllQueued drains the global queue completely. Per-booking
// mirroring keeps every photographer queue consistent along the way. A
// concurrent submission during the drain may or may not be picked up.
func (d *queueDispatcher) ProcessAllQueued(ctx context.Context) (int, error) {
	processed := 0
	for {
		booking, err := d.ProcessNext(ctx)
		if errors.Is(err, bookingserrors.ErrQueueEmpty) {
			break
		}
		if booking != nil {
			processed++
		}
	}

	d.cfg.Log.Info("Drained booking queue", "processed", processed)
	return processed, nil
}

// ClearAllQueues resets every queue to empty without committing anything.
// The store is untouched; this is an administrative reset.
func (d *queueDispatcher) ClearAllQueues() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.global.Clear()
	for _, q := range d.photographerQueues {
		q.Clear()
	}
	d.cfg.Log.Info("All booking queues cleared")
}

func (d *queueDispatcher) QueueSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.global.Size()
}

func (d *queueDispatcher) QueueSizeForPhotographer(photographerID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	q, ok := d.photographerQueues[photographerID]
	if !ok {
		return 0
	}
	return q.Size()
}

func (d *queueDispatcher) QueuedBookings() []*model.Booking {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.global.All()
}

func (d *queueDispatcher) QueuedBookingsForPhotographer(photographerID string) []*model.Booking {
	d.mu.Lock()
	defer d.mu.Unlock()
	q, ok := d.photographerQueues[photographerID]
	if !ok {
		return []*model.Booking{}
	}
	return q.All()
}

func (d *queueDispatcher) QueuedBookingsForClient(clientID string) []*model.Booking {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.global.ForClient(clientID)
}
