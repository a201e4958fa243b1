package service

import (
	"context"
	"testing"
	"time"

	bookingerrors "staywise/internal/bookings/errors"
	"staywise/internal/bookings/validator"
	properrors "staywise/internal/properties/errors"
	"staywise/pkg/clock"
	"staywise/pkg/config"
	dbmongo "staywise/pkg/db/mongo"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/logger"
	"staywise/pkg/model"
)

const (
	testPropertyID = "64b0c9f1a2b3c4d5e6f70001"
	testUserID     = "64b0c9f1a2b3c4d5e6f70002"
	testOtherUser  = "64b0c9f1a2b3c4d5e6f70003"
	testBookingID  = "64b0c9f1a2b3c4d5e6f70004"
)

// Mock repositories for testing

type mockBookingRepository struct {
	createFunc          func(ctx context.Context, booking *model.Booking) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Booking, error)
	findOverlappingFunc func(ctx context.Context, propertyID string, checkIn, checkOut time.Time, statuses []string) ([]model.Booking, error)
	updateStatusFunc    func(ctx context.Context, id, status string) (*model.Booking, error)
	listByUserFunc      func(ctx context.Context, userID string) ([]model.Booking, error)
	listAllFunc         func(ctx context.Context, filter model.BookingFilter, page, limit int) ([]model.Booking, int64, error)

	created []model.Booking
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = testBookingID
	m.created = append(m.created, *booking)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, propertyID string, checkIn, checkOut time.Time, statuses []string) ([]model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, propertyID, checkIn, checkOut, statuses)
	}
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepository) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return []model.Booking{}, nil
}

func (m *mockBookingRepository) ListAll(ctx context.Context, filter model.BookingFilter, page, limit int) ([]model.Booking, int64, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx, filter, page, limit)
	}
	return []model.Booking{}, 0, nil
}

type mockLockRepository struct {
	acquireFunc func(ctx context.Context, propertyID string) error
	acquired    int
	released    int
}

func (m *mockLockRepository) Acquire(ctx context.Context, propertyID string) error {
	m.acquired++
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, propertyID)
	}
	return nil
}

func (m *mockLockRepository) Release(ctx context.Context, propertyID string) error {
	m.released++
	return nil
}

type mockPropertyRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Property, error)
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	return nil
}

func (m *mockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, properrors.ErrNotFound
}

func (m *mockPropertyRepository) List(ctx context.Context, filter model.PropertyFilter, page, limit int) ([]model.Property, int64, error) {
	return []model.Property{}, 0, nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, id string, update *model.PropertyUpdate) (*model.Property, error) {
	return nil, properrors.ErrNotFound
}

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.User{ID: id, FirstName: "Test", LastName: "User", Email: "test@example.com"}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

type mockTxnManager struct{}

func (mockTxnManager) ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error {
	return fn(nil)
}

type mockPublisher struct {
	created       []model.Booking
	statusChanged []model.Booking
	oldStatuses   []string
}

func (m *mockPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	m.created = append(m.created, *booking)
	return nil
}

func (m *mockPublisher) BookingStatusChanged(ctx context.Context, booking *model.Booking, oldStatus string) error {
	m.statusChanged = append(m.statusChanged, *booking)
	m.oldStatuses = append(m.oldStatuses, oldStatus)
	return nil
}

type testDeps struct {
	bookings   *mockBookingRepository
	locks      *mockLockRepository
	properties *mockPropertyRepository
	users      *mockUserRepository
	publisher  *mockPublisher
	service    *bookingService
}

func newTestService(now time.Time) *testDeps {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{Log: log}

	deps := &testDeps{
		bookings:   &mockBookingRepository{},
		locks:      &mockLockRepository{},
		properties: &mockPropertyRepository{},
		users:      &mockUserRepository{},
		publisher:  &mockPublisher{},
	}
	deps.service = &bookingService{
		bookings:   deps.bookings,
		locks:      deps.locks,
		properties: deps.properties,
		users:      deps.users,
		validator:  validator.NewBookingValidator(log),
		txn:        mockTxnManager{},
		publisher:  deps.publisher,
		clock:      clock.NewFixed(now),
		cfg:        cfg,
	}
	return deps
}

func testProperty() *model.Property {
	return &model.Property{
		ID:           testPropertyID,
		Title:        "Luxury Beach Villa in Malibu",
		Location:     "Malibu, California",
		Images:       []string{"https://example.com/villa.jpg"},
		Price:        100,
		MaxGuests:    8,
		PropertyType: model.PropertyTypeVilla,
		IsAvailable:  true,
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

func TestCreate_Admitted(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	deps := newTestService(now)
	property := testProperty()
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return property, nil
	}

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		Guests:     2,
	}
	identity := model.Identity{UserID: testUserID, Role: model.RoleUser}

	detail, err := deps.service.Create(context.Background(), identity, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if detail.Status != model.BookingStatusPending {
		t.Errorf("expected status pending, got %s", detail.Status)
	}
	if detail.PaymentStatus != model.PaymentStatusPending {
		t.Errorf("expected payment status pending, got %s", detail.PaymentStatus)
	}
	if detail.TotalPrice != 300 {
		t.Errorf("expected total price 300 for 3 nights at 100, got %v", detail.TotalPrice)
	}
	if detail.UserID != testUserID {
		t.Errorf("expected booking owned by %s, got %s", testUserID, detail.UserID)
	}
	if detail.Property == nil || detail.Property.Title != property.Title {
		t.Errorf("expected joined property summary, got %+v", detail.Property)
	}
	if detail.User == nil || detail.User.Email != "test@example.com" {
		t.Errorf("expected joined user summary on the create response, got %+v", detail.User)
	}
	if deps.locks.acquired != 1 || deps.locks.released != 1 {
		t.Errorf("expected lock acquired and released once, got acquired=%d released=%d", deps.locks.acquired, deps.locks.released)
	}
	if len(deps.publisher.created) != 1 {
		t.Errorf("expected one created event, got %d", len(deps.publisher.created))
	}
	if len(deps.bookings.created) != 1 {
		t.Fatalf("expected one booking persisted, got %d", len(deps.bookings.created))
	}
}

func TestCreate_MissingFields(t *testing.T) {
	deps := newTestService(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))

	req := &model.BookingRequest{
		CheckIn:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		Guests:   2,
	}

	_, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
	if len(deps.bookings.created) != 0 {
		t.Errorf("expected no booking persisted, got %d", len(deps.bookings.created))
	}
}

func TestCreate_PropertyNotFound(t *testing.T) {
	deps := newTestService(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		Guests:     2,
	}

	_, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestCreate_PropertyUnavailable(t *testing.T) {
	deps := newTestService(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	property := testProperty()
	property.IsAvailable = false
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return property, nil
	}

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		Guests:     2,
	}

	_, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
	assertAppErrorCode(t, err, apperrors.CodePropertyUnavailable)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	deps := newTestService(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return testProperty(), nil
	}

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		Guests:     10,
	}

	_, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
	appErr := assertAppErrorCode(t, err, apperrors.CodeCapacityExceeded)
	if appErr.Details["max_guests"] != 8 {
		t.Errorf("expected max_guests detail 8, got %v", appErr.Details["max_guests"])
	}
	if len(deps.bookings.created) != 0 {
		t.Errorf("capacity rejection must not persist anything, got %d bookings", len(deps.bookings.created))
	}
	if deps.locks.acquired != 0 {
		t.Errorf("capacity rejection must not touch the lock, got %d acquisitions", deps.locks.acquired)
	}
}

func TestCreate_PastCheckIn(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	deps := newTestService(now)
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return testProperty(), nil
	}

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
		Guests:     2,
	}

	_, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
	assertAppErrorCode(t, err, apperrors.CodeInvalidDateRange)
}

func TestCreate_SameDayCheckInAdmitted(t *testing.T) {
	// A check-in earlier today is not "in the past": the cutoff is the start
	// of today, not the current instant.
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	deps := newTestService(now)
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return testProperty(), nil
	}

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC),
		Guests:     2,
	}

	if _, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_InvertedRange(t *testing.T) {
	deps := newTestService(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return testProperty(), nil
	}

	checkIn := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	for _, checkOut := range []time.Time{checkIn, checkIn.AddDate(0, 0, -2)} {
		req := &model.BookingRequest{
			PropertyID: testPropertyID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Guests:     2,
		}
		_, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
		assertAppErrorCode(t, err, apperrors.CodeInvalidDateRange)
	}
}

// overlapAgainst simulates the stored active booking [existingIn, existingOut)
// with half-open range semantics, the same comparison the Mongo query runs.
func overlapAgainst(existingIn, existingOut time.Time) func(ctx context.Context, propertyID string, checkIn, checkOut time.Time, statuses []string) ([]model.Booking, error) {
	return func(ctx context.Context, propertyID string, checkIn, checkOut time.Time, statuses []string) ([]model.Booking, error) {
		if existingIn.Before(checkOut) && existingOut.After(checkIn) {
			return []model.Booking{{ID: "existing", PropertyID: propertyID, CheckIn: existingIn, CheckOut: existingOut, Status: model.BookingStatusPending}}, nil
		}
		return nil, nil
	}
}

func TestCreate_OverlapConflict(t *testing.T) {
	deps := newTestService(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	property := testProperty()
	property.Price = 450
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return property, nil
	}
	deps.bookings.findOverlappingFunc = overlapAgainst(
		time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC),
	)

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		Guests:     2,
	}

	_, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
	assertAppErrorCode(t, err, apperrors.CodeAvailabilityTaken)
	if len(deps.bookings.created) != 0 {
		t.Errorf("conflicting request must not persist anything, got %d bookings", len(deps.bookings.created))
	}
	if deps.locks.released != deps.locks.acquired {
		t.Errorf("lock must be released on conflict, acquired=%d released=%d", deps.locks.acquired, deps.locks.released)
	}
}

func TestCreate_BackToBackAdmitted(t *testing.T) {
	// Checkout day equals the next check-in day: the ranges touch but do not
	// overlap, so the second booking admits.
	deps := newTestService(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	property := testProperty()
	property.Price = 450
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return property, nil
	}
	deps.bookings.findOverlappingFunc = overlapAgainst(
		time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC),
	)

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		Guests:     2,
	}

	detail, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.TotalPrice != 900 {
		t.Errorf("expected total price 900 for 2 nights at 450, got %v", detail.TotalPrice)
	}
}

func TestCreate_LockHeld(t *testing.T) {
	deps := newTestService(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		return testProperty(), nil
	}
	deps.locks.acquireFunc = func(ctx context.Context, propertyID string) error {
		return bookingerrors.ErrLockHeld
	}

	req := &model.BookingRequest{
		PropertyID: testPropertyID,
		CheckIn:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		Guests:     2,
	}

	_, err := deps.service.Create(context.Background(), model.Identity{UserID: testUserID}, req)
	assertAppErrorCode(t, err, apperrors.CodeAvailabilityTaken)
	if len(deps.bookings.created) != 0 {
		t.Errorf("expected no booking persisted while lock held")
	}
}

func storedBooking(status string) *model.Booking {
	return &model.Booking{
		ID:            testBookingID,
		PropertyID:    testPropertyID,
		UserID:        testUserID,
		CheckIn:       time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC),
		Guests:        2,
		TotalPrice:    1350,
		Status:        status,
		PaymentStatus: model.PaymentStatusPending,
	}
}

func TestUpdateStatus_OwnerCancel(t *testing.T) {
	deps := newTestService(time.Now())
	deps.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.BookingStatusPending), nil
	}
	deps.bookings.updateStatusFunc = func(ctx context.Context, id, status string) (*model.Booking, error) {
		updated := storedBooking(status)
		return updated, nil
	}

	identity := model.Identity{UserID: testUserID, Role: model.RoleUser}
	detail, err := deps.service.UpdateStatus(context.Background(), identity, testBookingID, model.BookingStatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Status != model.BookingStatusCancelled {
		t.Errorf("expected cancelled, got %s", detail.Status)
	}
	if len(deps.publisher.statusChanged) != 1 || deps.publisher.oldStatuses[0] != model.BookingStatusPending {
		t.Errorf("expected one status event with old status pending, got %+v", deps.publisher.oldStatuses)
	}
	if detail.User == nil {
		t.Error("expected joined user summary on the status response")
	}
}

func TestUpdateStatus_NonOwnerForbidden(t *testing.T) {
	deps := newTestService(time.Now())
	deps.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.BookingStatusPending), nil
	}
	updateCalled := false
	deps.bookings.updateStatusFunc = func(ctx context.Context, id, status string) (*model.Booking, error) {
		updateCalled = true
		return storedBooking(status), nil
	}

	identity := model.Identity{UserID: testOtherUser, Role: model.RoleUser}
	_, err := deps.service.UpdateStatus(context.Background(), identity, testBookingID, model.BookingStatusCancelled)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
	if updateCalled {
		t.Error("forbidden request must not touch the booking")
	}
}

func TestUpdateStatus_OwnerNonCancelTarget(t *testing.T) {
	deps := newTestService(time.Now())
	deps.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.BookingStatusPending), nil
	}

	identity := model.Identity{UserID: testUserID, Role: model.RoleUser}
	_, err := deps.service.UpdateStatus(context.Background(), identity, testBookingID, model.BookingStatusConfirmed)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestUpdateStatus_OwnerCancelTerminal(t *testing.T) {
	deps := newTestService(time.Now())
	identity := model.Identity{UserID: testUserID, Role: model.RoleUser}

	for _, status := range []string{model.BookingStatusCancelled, model.BookingStatusCompleted} {
		deps.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(status), nil
		}
		_, err := deps.service.UpdateStatus(context.Background(), identity, testBookingID, model.BookingStatusCancelled)
		assertAppErrorCode(t, err, apperrors.CodeInvalidTransition)
	}
}

func TestUpdateStatus_AdminAnyTransition(t *testing.T) {
	deps := newTestService(time.Now())
	identity := model.Identity{UserID: testOtherUser, Role: model.RoleAdmin}

	transitions := []struct {
		from, to string
	}{
		{model.BookingStatusCompleted, model.BookingStatusPending},
		{model.BookingStatusCancelled, model.BookingStatusConfirmed},
		{model.BookingStatusPending, model.BookingStatusCompleted},
	}

	for _, tr := range transitions {
		deps.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(tr.from), nil
		}
		deps.bookings.updateStatusFunc = func(ctx context.Context, id, status string) (*model.Booking, error) {
			return storedBooking(status), nil
		}

		detail, err := deps.service.UpdateStatus(context.Background(), identity, testBookingID, tr.to)
		if err != nil {
			t.Fatalf("admin transition %s -> %s failed: %v", tr.from, tr.to, err)
		}
		if detail.Status != tr.to {
			t.Errorf("expected status %s, got %s", tr.to, detail.Status)
		}
	}
}

func TestUpdateStatus_InvalidTarget(t *testing.T) {
	deps := newTestService(time.Now())
	identity := model.Identity{UserID: testUserID, Role: model.RoleAdmin}

	_, err := deps.service.UpdateStatus(context.Background(), identity, testBookingID, "archived")
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestGetByID_OwnerOnly(t *testing.T) {
	deps := newTestService(time.Now())
	deps.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return storedBooking(model.BookingStatusPending), nil
	}

	_, err := deps.service.GetByID(context.Background(), model.Identity{UserID: testOtherUser, Role: model.RoleUser}, testBookingID)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)

	detail, err := deps.service.GetByID(context.Background(), model.Identity{UserID: testUserID, Role: model.RoleUser}, testBookingID)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if detail.User == nil {
		t.Error("owner reads should include the user join")
	}

	detail, err = deps.service.GetByID(context.Background(), model.Identity{UserID: testOtherUser, Role: model.RoleAdmin}, testBookingID)
	if err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if detail.User == nil {
		t.Error("admin reads should include the user join")
	}
}

func TestListAll_InvalidStatusFilter(t *testing.T) {
	deps := newTestService(time.Now())

	_, _, err := deps.service.ListAll(context.Background(), model.BookingFilter{Status: "archived"}, 1, 10)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestListMine_JoinsProperties(t *testing.T) {
	deps := newTestService(time.Now())
	deps.bookings.listByUserFunc = func(ctx context.Context, userID string) ([]model.Booking, error) {
		return []model.Booking{*storedBooking(model.BookingStatusPending), *storedBooking(model.BookingStatusConfirmed)}, nil
	}
	lookups := 0
	deps.properties.findByIDFunc = func(ctx context.Context, id string) (*model.Property, error) {
		lookups++
		return testProperty(), nil
	}

	details, err := deps.service.ListMine(context.Background(), model.Identity{UserID: testUserID, Role: model.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(details))
	}
	for _, d := range details {
		if d.Property == nil {
			t.Error("expected property summary on each booking")
		}
	}
	if lookups != 1 {
		t.Errorf("expected one property lookup for a shared property, got %d", lookups)
	}
}
