package model

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// ActiveBookingStatuses are the statuses that block overlapping admissions.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

// IsValidBookingStatus reports whether s is one of the four booking statuses.
func IsValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// IsTerminalBookingStatus reports whether s admits no further owner-initiated
// transitions. Admins may still force transitions out of these.
func IsTerminalBookingStatus(s string) bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID      string    `json:"property" bson:"property_id" validate:"required,mongodb"`
	UserID          string    `json:"user" bson:"user_id" validate:"required,mongodb"`
	CheckIn         time.Time `json:"checkIn" bson:"check_in" validate:"required"`
	CheckOut        time.Time `json:"checkOut" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Guests          int       `json:"guests" bson:"guests" validate:"required,min=1"`
	TotalPrice      float64   `json:"totalPrice" bson:"total_price" validate:"min=0"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus   string    `json:"paymentStatus" bson:"payment_status" validate:"required,oneof=pending paid failed refunded"`
	SpecialRequests string    `json:"specialRequests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the admission payload. Dates arrive as calendar dates
// (RFC3339 or YYYY-MM-DD, parsed in the handler).
type BookingRequest struct {
	PropertyID      string    `json:"propertyId" validate:"required,mongodb"`
	CheckIn         time.Time `json:"checkIn" validate:"required"`
	CheckOut        time.Time `json:"checkOut" validate:"required"`
	Guests          int       `json:"guests" validate:"required,min=1"`
	SpecialRequests string    `json:"specialRequests,omitempty" validate:"omitempty,max=500"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// BookingFilter scopes the administrative listing.
type BookingFilter struct {
	Status string
}

// BookingDetail is a booking joined with denormalized property and user
// summaries for immediate display. The join is a read convenience computed at
// response time, not a stored relationship.
type BookingDetail struct {
	Booking
	Property *PropertySummary `json:"propertyDetails,omitempty"`
	User     *UserSummary     `json:"userDetails,omitempty"`
}
