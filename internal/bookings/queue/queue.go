// Package queue implements the FIFO staging area for booking requests.
// A queued booking is unpersisted intent: leaving the queue through Dequeue
// or a committing RemoveByID is what makes it durable, via the Committer.
package queue

import (
	"context"
	"sync"

	bookingserrors "photodesk/internal/bookings/errors"
	"photodesk/pkg/config"
	apperrors "photodesk/pkg/errors"
	"photodesk/pkg/model"
)

// Committer persists a booking exactly once when it leaves a queue.
type Committer interface {
	Create(ctx context.Context, booking *model.Booking) error
}

type node struct {
	booking *model.Booking
	next    *node
}

// Queue is a singly linked FIFO with explicit front and rear pointers.
// Append and head removal are O(1); removal by ID walks the list, which is
// acceptable since photographer queues stay short and the global queue is
// drained continuously.
type Queue struct {
	mu        sync.Mutex
	front     *node
	rear      *node
	size      int
	committer Committer
}

func New(committer Committer) *Queue {
	return &Queue{committer: committer}
}

// Enqueue appends the booking to the tail. The booking's status is
// normalized to pending in place; callers keeping a reference to the
// argument observe that change.
func (q *Queue) Enqueue(booking *model.Booking) error {
	if booking == nil {
		return apperrors.InvalidInput("cannot queue a nil booking")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	booking.Status = config.Pending

	n := &node{booking: booking}
	if q.rear == nil {
		q.front = n
		q.rear = n
	} else {
		q.rear.next = n
		q.rear = n
	}
	q.size++
	return nil
}

// Dequeue removes the head and commits it through the Committer. An empty
// queue yields ErrQueueEmpty. The booking leaves the queue even when the
// commit fails; the booking and the commit error are both returned so the
// caller can decide how to surface the storage failure.
func (q *Queue) Dequeue(ctx context.Context) (*model.Booking, error) {
	q.mu.Lock()
	if q.front == nil {
		q.mu.Unlock()
		return nil, bookingserrors.ErrQueueEmpty
	}

	booking := q.front.booking
	q.front = q.front.next
	q.size--
	if q.front == nil {
		q.rear = nil
	}
	q.mu.Unlock()

	if err := q.committer.Create(ctx, booking); err != nil {
		return booking, err
	}
	return booking, nil
}

// RemoveByID splices the matching booking out of the list regardless of its
// position. With commit true it persists like Dequeue; with commit false the
// removal is silent, used when the sibling queue already committed the
// booking. Returns ErrNotFound when no entry matches.
func (q *Queue) RemoveByID(ctx context.Context, bookingID string, commit bool) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("booking ID cannot be empty")
	}

	q.mu.Lock()
	var prev *node
	current := q.front
	for current != nil && current.booking.ID != bookingID {
		prev = current
		current = current.next
	}

	if current == nil {
		q.mu.Unlock()
		return nil, bookingserrors.ErrNotFound
	}

	if prev == nil {
		q.front = current.next
	} else {
		prev.next = current.next
	}
	if current == q.rear {
		q.rear = prev
	}
	q.size--
	q.mu.Unlock()

	if commit {
		if err := q.committer.Create(ctx, current.booking); err != nil {
			return current.booking, err
		}
	}
	return current.booking, nil
}

// Peek returns the head without removing it, or nil when empty.
func (q *Queue) Peek() *model.Booking {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.front == nil {
		return nil
	}
	return q.front.booking
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *Queue) IsEmpty() bool {
	return q.Size() == 0
}

// Clear resets the queue without committing anything.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.front = nil
	q.rear = nil
	q.size = 0
}

// All returns a snapshot of the queued bookings in FIFO order.
func (q *Queue) All() []*model.Booking {
	q.mu.Lock()
	defer q.mu.Unlock()

	bookings := []*model.Booking{}
	for current := q.front; current != nil; current = current.next {
		bookings = append(bookings, current.booking)
	}
	return bookings
}

// ForClient returns the queued bookings for one client, FIFO order preserved.
func (q *Queue) ForClient(clientID string) []*model.Booking {
	if clientID == "" {
		return []*model.Booking{}
	}

	out := []*model.Booking{}
	for _, b := range q.All() {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out
}

// ForPhotographer returns the queued bookings for one photographer, FIFO
// order preserved.
func (q *Queue) ForPhotographer(photographerID string) []*model.Booking {
	if photographerID == "" {
		return []*model.Booking{}
	}

	out := []*model.Booking{}
	for _, b := range q.All() {
		if b.PhotographerID == photographerID {
			out = append(out, b)
		}
	}
	return out
}
