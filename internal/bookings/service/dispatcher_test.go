package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	bookingserrors "photodesk/internal/bookings/errors"
	"photodesk/pkg/config"
	"photodesk/pkg/logger"
	"photodesk/pkg/model"
)

// ────────────────────────────────────────────────
// Mock repository for testing
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	created []*model.Booking

	createFunc             func(ctx context.Context, booking *model.Booking) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	findByPhotographerFunc func(ctx context.Context, photographerID string) ([]*model.Booking, error)
	updateFunc             func(ctx context.Context, id string, booking *model.Booking) error
	updateStatusFunc       func(ctx context.Context, id string, status config.BookingStatus) error
	deleteFunc             func(ctx context.Context, id string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.created = append(m.created, booking)
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByClient(ctx context.Context, clientID string) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByPhotographer(ctx context.Context, photographerID string) ([]*model.Booking, error) {
	if m.findByPhotographerFunc != nil {
		return m.findByPhotographerFunc(ctx, photographerID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByStatus(ctx context.Context, status config.BookingStatus) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindUpcoming(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindPast(ctx context.Context, userID string, isPhotographer bool) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, booking)
	}
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status config.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.created)), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:                       logger.Discard(),
		DefaultEventDurationHours: 3,
	}
}

func queuedBooking(id, photographerID string) *model.Booking {
	return &model.Booking{
		ID:             id,
		ClientID:       "client-1",
		PhotographerID: photographerID,
		EventDateTime:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func containsID(bookings []*model.Booking, id string) bool {
	for _, b := range bookings {
		if b.ID == id {
			return true
		}
	}
	return false
}

// ────────────────────────────────────────────────
// Dual-queue mirroring
// ────────────────────────────────────────────────

func TestQueueBooking_MirrorsIntoBothQueues(t *testing.T) {
	d := NewQueueDispatcher(&mockBookingRepository{}, testConfig())

	b := queuedBooking("b1", "p1")
	if err := d.QueueBooking(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !containsID(d.QueuedBookings(), "b1") {
		t.Error("booking missing from global queue")
	}
	if !containsID(d.QueuedBookingsForPhotographer("p1"), "b1") {
		t.Error("booking missing from photographer queue")
	}
	if d.QueueSize() != 1 || d.QueueSizeForPhotographer("p1") != 1 {
		t.Errorf("expected sizes 1/1, got %d/%d", d.QueueSize(), d.QueueSizeForPhotographer("p1"))
	}
	if b.Status != config.Pending {
		t.Errorf("expected pending status after queueing, got %s", b.Status)
	}
}

func TestQueueBooking_NoPhotographer(t *testing.T) {
	d := NewQueueDispatcher(&mockBookingRepository{}, testConfig())

	b := queuedBooking("b1", "")
	if err := d.QueueBooking(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.QueueSize() != 1 {
		t.Errorf("expected global size 1, got %d", d.QueueSize())
	}
	if d.QueueSizeForPhotographer("") != 0 {
		t.Error("unassigned booking must not create a photographer queue")
	}
}

func TestQueueBooking_Nil(t *testing.T) {
	d := NewQueueDispatcher(&mockBookingRepository{}, testConfig())

	if err := d.QueueBooking(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil booking")
	}
	if d.QueueSize() != 0 {
		t.Error("queue should stay empty")
	}
}

func TestQueueBooking_AssignsID(t *testing.T) {
	d := NewQueueDispatcher(&mockBookingRepository{}, testConfig())

	b := queuedBooking("", "p1")
	if err := d.QueueBooking(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID == "" {
		t.Error("expected an ID to be assigned before queueing")
	}
}

// ────────────────────────────────────────────────
// Exactly-once commit and mirror cleanup
// ────────────────────────────────────────────────

func TestProcessNext_CommitsOnceAndCleansMirror(t *testing.T) {
	repo := &mockBookingRepository{}
	d := NewQueueDispatcher(repo, testConfig())

	d.QueueBooking(context.Background(), queuedBooking("b1", "p1"))

	processed, err := d.ProcessNext(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed.ID != "b1" {
		t.Errorf("expected b1, got %s", processed.ID)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected exactly one commit, got %d", len(repo.created))
	}
	if d.QueueSize() != 0 {
		t.Error("global queue should be empty")
	}
	if d.QueueSizeForPhotographer("p1") != 0 {
		t.Error("photographer queue should have been mirror-cleaned")
	}
}

func TestProcessNextForPhotographer_CommitsOnceAndCleansGlobal(t *testing.T) {
	repo := &mockBookingRepository{}
	d := NewQueueDispatcher(repo, testConfig())

	d.QueueBooking(context.Background(), queuedBooking("b1", "p1"))
	d.QueueBooking(context.Background(), queuedBooking("b2", "p2"))

	processed, err := d.ProcessNextForPhotographer(context.Background(), "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed.ID != "b2" {
		t.Errorf("expected b2, got %s", processed.ID)
	}

	if len(repo.created) != 1 || repo.created[0].ID != "b2" {
		t.Fatalf("expected exactly one commit for b2, got %d", len(repo.created))
	}
	if containsID(d.QueuedBookings(), "b2") {
		t.Error("b2 should have been mirror-removed from the global queue")
	}
	if !containsID(d.QueuedBookings(), "b1") {
		t.Error("b1 must remain in the global queue")
	}
}

func TestProcessing_ExactlyOnceMixedDrains(t *testing.T) {
	repo := &mockBookingRepository{}
	d := NewQueueDispatcher(repo, testConfig())

	// Interleave photographers, then drain from both sides.
	for i := 0; i < 6; i++ {
		pid := "p1"
		if i%2 == 1 {
			pid = "p2"
		}
		d.QueueBooking(context.Background(), queuedBooking(fmt.Sprintf("b%d", i), pid))
	}

	if _, err := d.ProcessNextForPhotographer(context.Background(), "p2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := d.ProcessNext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := d.ProcessAllQueued(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 processed in final drain, got %d", count)
	}

	if len(repo.created) != 6 {
		t.Fatalf("expected 6 commits total, got %d", len(repo.created))
	}
	seen := map[string]int{}
	for _, b := range repo.created {
		seen[b.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("booking %s committed %d times", id, n)
		}
	}

	if d.QueueSize() != 0 || d.QueueSizeForPhotographer("p1") != 0 || d.QueueSizeForPhotographer("p2") != 0 {
		t.Error("all queues should be empty after the drains")
	}
}

func TestProcessNext_Empty(t *testing.T) {
	d := NewQueueDispatcher(&mockBookingRepository{}, testConfig())

	if _, err := d.ProcessNext(context.Background()); !errors.Is(err, bookingserrors.ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v", err)
	}
}

func TestProcessNextForPhotographer_UnknownPhotographer(t *testing.T) {
	d := NewQueueDispatcher(&mockBookingRepository{}, testConfig())

	if _, err := d.ProcessNextForPhotographer(context.Background(), "ghost"); !errors.Is(err, bookingserrors.ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v", err)
	}
}

// ────────────────────────────────────────────────
// FIFO order
// ────────────────────────────────────────────────

func TestProcessNext_GlobalFIFOAcrossPhotographers(t *testing.T) {
	repo := &mockBookingRepository{}
	d := NewQueueDispatcher(repo, testConfig())

	order := []string{"b0", "b1", "b2", "b3"}
	photographers := []string{"p1", "p2", "p1", "p3"}
	for i, id := range order {
		d.QueueBooking(context.Background(), queuedBooking(id, photographers[i]))
	}

	for _, want := range order {
		b, err := d.ProcessNext(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.ID != want {
			t.Errorf("expected %s, got %s", want, b.ID)
		}
	}
}

func TestProcessBatch_PhotographerFIFO(t *testing.T) {
	repo := &mockBookingRepository{}
	d := NewQueueDispatcher(repo, testConfig())

	for i := 0; i < 4; i++ {
		d.QueueBooking(context.Background(), queuedBooking(fmt.Sprintf("b%d", i), "p1"))
	}
	d.QueueBooking(context.Background(), queuedBooking("other", "p2"))

	processed, err := d.ProcessBatchForPhotographer(context.Background(), "p1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed != 3 {
		t.Errorf("expected 3 processed, got %d", processed)
	}

	for i, b := range repo.created {
		want := fmt.Sprintf("b%d", i)
		if b.ID != want {
			t.Errorf("commit %d: expected %s, got %s", i, want, b.ID)
		}
	}

	if d.QueueSizeForPhotographer("p1") != 1 {
		t.Errorf("expected 1 left for p1, got %d", d.QueueSizeForPhotographer("p1"))
	}
	if d.QueueSizeForPhotographer("p2") != 1 {
		t.Error("p2's queue must be untouched by p1's batch")
	}
}

func TestProcessBatch_LimitExceedsQueue(t *testing.T) {
	d := NewQueueDispatcher(&mockBookingRepository{}, testConfig())

	d.QueueBooking(context.Background(), queuedBooking("b1", "p1"))

	processed, err := d.ProcessBatchForPhotographer(context.Background(), "p1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed != 1 {
		t.Errorf("expected 1 processed, got %d", processed)
	}
}

// ────────────────────────────────────────────────
// Clear
// ────────────────────────────────────────────────

func TestClearAllQueues_IdempotentAndSilent(t *testing.T) {
	repo := &mockBookingRepository{}
	d := NewQueueDispatcher(repo, testConfig())

	d.QueueBooking(context.Background(), queuedBooking("b1", "p1"))
	d.QueueBooking(context.Background(), queuedBooking("b2", ""))

	d.ClearAllQueues()
	d.ClearAllQueues()

	if len(repo.created) != 0 {
		t.Errorf("clear must not touch the store, got %d commits", len(repo.created))
	}
	if _, err := d.ProcessNext(context.Background()); !errors.Is(err, bookingserrors.ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty after clear, got %v", err)
	}
	if _, err := d.ProcessNextForPhotographer(context.Background(), "p1"); !errors.Is(err, bookingserrors.ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty for photographer after clear, got %v", err)
	}
}

func TestProcessNext_CommitFailureSurfacedButMirrorCleaned(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return errors.New("disk full")
		},
	}
	d := NewQueueDispatcher(repo, testConfig())

	d.QueueBooking(context.Background(), queuedBooking("b1", "p1"))

	b, err := d.ProcessNext(context.Background())
	if err == nil {
		t.Fatal("expected storage error to surface")
	}
	if b == nil || b.ID != "b1" {
		t.Fatalf("expected b1 back, got %v", b)
	}
	if d.QueueSizeForPhotographer("p1") != 0 {
		t.Error("mirror must be cleaned even when the commit fails")
	}
}
