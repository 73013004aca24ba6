package model

import (
	"encoding/json"
	"time"

	"photodesk/pkg/config"
)

// Booking is the unit of work moving through the queues and the store.
// Each record is persisted as a single JSON line; the json tags are the
// on-disk format and must round-trip every field.
type Booking struct {
	ID              string               `json:"id"`
	ClientID        string               `json:"client_id" validate:"required"`
	PhotographerID  string               `json:"photographer_id" validate:"required"`
	EventDateTime   time.Time            `json:"event_datetime" validate:"required"`
	BookingDateTime time.Time            `json:"booking_datetime"`
	Location        string               `json:"location" validate:"omitempty,max=200"`
	Notes           string               `json:"notes" validate:"omitempty,max=1000"`
	DurationHours   int                  `json:"duration_hours" validate:"omitempty,min=1,max=24"`
	Status          config.BookingStatus `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

// BookingUpdate carries partial updates; nil / zero fields are left untouched.
type BookingUpdate struct {
	EventDateTime *time.Time           `json:"event_datetime,omitempty"`
	Location      *string              `json:"location,omitempty" validate:"omitempty,max=200"`
	Notes         *string              `json:"notes,omitempty" validate:"omitempty,max=1000"`
	DurationHours *int                 `json:"duration_hours,omitempty" validate:"omitempty,min=1,max=24"`
	Status        config.BookingStatus `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

// MarshalLine serializes the booking into its one-line record form.
func (b *Booking) MarshalLine() (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalBookingLine parses a single record line back into a Booking.
func UnmarshalBookingLine(line string) (*Booking, error) {
	var b Booking
	if err := json.Unmarshal([]byte(line), &b); err != nil {
		return nil, err
	}
	return &b, nil
}
