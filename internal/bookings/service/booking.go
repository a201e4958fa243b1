package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	driver "go.mongodb.org/mongo-driver/mongo"

	bookingerrors "staywise/internal/bookings/errors"
	"staywise/internal/bookings/events"
	"staywise/internal/bookings/repository"
	"staywise/internal/bookings/validator"
	properrors "staywise/internal/properties/errors"
	proprepository "staywise/internal/properties/repository"
	usersrepository "staywise/internal/users/repository"
	"staywise/pkg/clock"
	"staywise/pkg/config"
	"staywise/pkg/db/mongo"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/model"
	"staywise/pkg/sanitizer"
)

// BookingService admits bookings against the catalog and drives their status
// lifecycle. Admission checks run in a fixed order so a request failing
// multiple checks always reports the same error, and the overlap check plus
// insert run inside a transaction under a per-property advisory lock so two
// concurrent requests for intersecting dates cannot both be admitted.
type BookingService interface {
	Create(ctx context.Context, identity model.Identity, req *model.BookingRequest) (*model.BookingDetail, error)
	GetByID(ctx context.Context, identity model.Identity, id string) (*model.BookingDetail, error)
	ListMine(ctx context.Context, identity model.Identity) ([]model.BookingDetail, error)
	ListAll(ctx context.Context, filter model.BookingFilter, page, limit int) ([]model.BookingDetail, int64, error)
	UpdateStatus(ctx context.Context, identity model.Identity, id, status string) (*model.BookingDetail, error)
}

type bookingService struct {
	bookings   repository.BookingRepository
	locks      repository.BookingLockRepository
	properties proprepository.PropertyRepository
	users      usersrepository.UserRepository
	validator  *validator.BookingValidator
	txn        mongo.TransactionManager
	publisher  events.Publisher
	clock      clock.Clock
	cfg        *config.Config
}

func NewBookingService(
	bookings repository.BookingRepository,
	locks repository.BookingLockRepository,
	properties proprepository.PropertyRepository,
	users usersrepository.UserRepository,
	validator *validator.BookingValidator,
	txn mongo.TransactionManager,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		bookings:   bookings,
		locks:      locks,
		properties: properties,
		users:      users,
		validator:  validator,
		txn:        txn,
		publisher:  publisher,
		clock:      clk,
		cfg:        cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, identity model.Identity, req *model.BookingRequest) (*model.BookingDetail, error) {
	req.SpecialRequests = sanitizer.NormalizeRequestNote(req.SpecialRequests)

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.InvalidInput("Missing or invalid booking fields")
	}

	property, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, mapPropertyError(req.PropertyID, err)
	}

	if !property.IsAvailable {
		return nil, apperrors.PropertyUnavailable("Property is not available for booking")
	}

	if req.Guests > property.MaxGuests {
		return nil, apperrors.CapacityExceeded(property.MaxGuests)
	}

	// "Past" is judged against the start of today, so a booking made later
	// the same day still admits.
	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.CheckIn.Before(today) {
		return nil, apperrors.InvalidDateRange("Check-in date cannot be in the past")
	}

	if !req.CheckOut.After(req.CheckIn) {
		return nil, apperrors.InvalidDateRange("Check-out date must be after check-in date")
	}

	nights := int(math.Ceil(req.CheckOut.Sub(req.CheckIn).Hours() / 24))

	booking := &model.Booking{
		PropertyID:      property.ID,
		UserID:          identity.UserID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		TotalPrice:      float64(nights) * property.Price,
		Status:          model.BookingStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		SpecialRequests: req.SpecialRequests,
	}

	if err := s.locks.Acquire(ctx, property.ID); err != nil {
		if errors.Is(err, bookingerrors.ErrLockHeld) {
			return nil, apperrors.AvailabilityConflict("Another booking for this property is in progress")
		}
		return nil, apperrors.Internal("Failed to acquire booking lock", err)
	}
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), property.ID); err != nil {
			s.cfg.Log.Error("Failed to release booking lock", "property_id", property.ID, "error", err)
		}
	}()

	err = s.txn.ExecuteTransaction(ctx, func(sessCtx driver.SessionContext) error {
		overlapping, err := s.bookings.FindOverlapping(sessCtx, property.ID, req.CheckIn, req.CheckOut, model.ActiveBookingStatuses)
		if err != nil {
			return apperrors.Internal("Failed to check availability", err)
		}
		if len(overlapping) > 0 {
			return apperrors.AvailabilityConflict("Property is already booked for the selected dates")
		}
		if err := s.bookings.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Booking admission failed", err)
	}

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"property_id", booking.PropertyID,
		"user_id", booking.UserID,
		"nights", nights,
		"total_price", booking.TotalPrice,
	)

	if err := s.publisher.BookingCreated(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to publish booking created event", "booking_id", booking.ID, "error", err)
	}

	return s.toDetail(ctx, booking), nil
}

func (s *bookingService) GetByID(ctx context.Context, identity model.Identity, id string) (*model.BookingDetail, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, mapBookingError(id, err)
	}

	if !identity.IsAdmin() && booking.UserID != identity.UserID {
		return nil, apperrors.Forbidden("You can only view your own bookings")
	}

	return s.toDetail(ctx, booking), nil
}

func (s *bookingService) ListMine(ctx context.Context, identity model.Identity) ([]model.BookingDetail, error) {
	bookings, err := s.bookings.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list bookings", err)
	}

	return s.toDetails(ctx, bookings, false), nil
}

func (s *bookingService) ListAll(ctx context.Context, filter model.BookingFilter, page, limit int) ([]model.BookingDetail, int64, error) {
	if filter.Status != "" && !model.IsValidBookingStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput("Invalid status filter: " + filter.Status)
	}

	bookings, total, err := s.bookings.ListAll(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", err)
	}

	return s.toDetails(ctx, bookings, true), total, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, identity model.Identity, id, status string) (*model.BookingDetail, error) {
	if err := s.validator.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: status}); err != nil {
		return nil, apperrors.InvalidInput("Invalid booking status: " + status)
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, mapBookingError(id, err)
	}

	// Admins may force any transition. Everyone else may only cancel their
	// own booking, and only while it is still pending or confirmed.
	if !identity.IsAdmin() {
		if booking.UserID != identity.UserID {
			return nil, apperrors.Forbidden("You can only modify your own bookings")
		}
		if status != model.BookingStatusCancelled {
			return nil, apperrors.InvalidInput("Only cancellation is allowed")
		}
		if model.IsTerminalBookingStatus(booking.Status) {
			return nil, apperrors.InvalidTransition(fmt.Sprintf("Cannot cancel a %s booking", booking.Status))
		}
	}

	oldStatus := booking.Status
	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, mapBookingError(id, err)
	}

	s.cfg.Log.Info("Booking status updated",
		"booking_id", updated.ID,
		"old_status", oldStatus,
		"new_status", updated.Status,
		"by_user", identity.UserID,
		"is_admin", identity.IsAdmin(),
	)

	if err := s.publisher.BookingStatusChanged(ctx, updated, oldStatus); err != nil {
		s.cfg.Log.Error("Failed to publish booking status event", "booking_id", updated.ID, "error", err)
	}

	return s.toDetail(ctx, updated), nil
}

// toDetail joins the property and user summaries onto the booking. Joins are
// best-effort reads for display: a failed lookup is logged and the summary
// left nil rather than failing the request.
func (s *bookingService) toDetail(ctx context.Context, booking *model.Booking) *model.BookingDetail {
	detail := &model.BookingDetail{Booking: *booking}

	if property, err := s.properties.FindByID(ctx, booking.PropertyID); err == nil {
		summary := property.Summary()
		detail.Property = &summary
	} else {
		s.cfg.Log.Warn("Failed to join property onto booking", "booking_id", booking.ID, "property_id", booking.PropertyID, "error", err)
	}

	if user, err := s.users.FindByID(ctx, booking.UserID); err == nil {
		summary := user.Summary()
		detail.User = &summary
	} else {
		s.cfg.Log.Warn("Failed to join user onto booking", "booking_id", booking.ID, "user_id", booking.UserID, "error", err)
	}

	return detail
}

func (s *bookingService) toDetails(ctx context.Context, bookings []model.Booking, includeUser bool) []model.BookingDetail {
	properties := make(map[string]*model.PropertySummary)
	users := make(map[string]*model.UserSummary)

	details := make([]model.BookingDetail, 0, len(bookings))
	for i := range bookings {
		booking := &bookings[i]
		detail := model.BookingDetail{Booking: *booking}

		summary, seen := properties[booking.PropertyID]
		if !seen {
			if property, err := s.properties.FindByID(ctx, booking.PropertyID); err == nil {
				ps := property.Summary()
				summary = &ps
			} else {
				s.cfg.Log.Warn("Failed to join property onto booking", "booking_id", booking.ID, "property_id", booking.PropertyID, "error", err)
			}
			properties[booking.PropertyID] = summary
		}
		detail.Property = summary

		if includeUser {
			userSummary, seen := users[booking.UserID]
			if !seen {
				if user, err := s.users.FindByID(ctx, booking.UserID); err == nil {
					us := user.Summary()
					userSummary = &us
				} else {
					s.cfg.Log.Warn("Failed to join user onto booking", "booking_id", booking.ID, "user_id", booking.UserID, "error", err)
				}
				users[booking.UserID] = userSummary
			}
			detail.User = userSummary
		}

		details = append(details, detail)
	}

	return details
}

func mapPropertyError(id string, err error) error {
	switch {
	case errors.Is(err, properrors.ErrNotFound), errors.Is(err, properrors.ErrInvalidID):
		return apperrors.NotFoundWithID("Property", id)
	default:
		return apperrors.Internal("Property lookup failed", err)
	}
}

func mapBookingError(id string, err error) error {
	switch {
	case errors.Is(err, bookingerrors.ErrNotFound), errors.Is(err, bookingerrors.ErrInvalidID):
		return apperrors.NotFoundWithID("Booking", id)
	default:
		return apperrors.Internal("Booking lookup failed", err)
	}
}
