package config

// BookingStatus is the lifecycle state of a booking. Queued bookings are
// always pending; everything else is set by callers against the store.
type BookingStatus string

const (
	Pending   BookingStatus = "pending"
	Confirmed BookingStatus = "confirmed"
	Cancelled BookingStatus = "cancelled"
	Completed BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case Pending, Confirmed, Cancelled, Completed:
		return true
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}
