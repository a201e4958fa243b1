package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	userserrors "staywise/internal/users/errors"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/logger"
	"staywise/pkg/model"
)

// Mock user repository for testing
type mockUserRepository struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
		nextID:  1,
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return userserrors.ErrDuplicateEmail
	}
	user.ID = testObjectID(m.nextID)
	m.nextID++
	copied := *user
	m.byID[user.ID] = &copied
	m.byEmail[user.Email] = &copied
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if user, ok := m.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if user, ok := m.byEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, userserrors.ErrNotFound
}

// testObjectID fabricates a 24-hex-char ID.
func testObjectID(n int) string {
	const hexdigits = "0123456789abcdef"
	id := make([]byte, 24)
	for i := range id {
		id[i] = '0'
	}
	for i := 23; i >= 0 && n > 0; i-- {
		id[i] = hexdigits[n%16]
		n /= 16
	}
	return string(id)
}

func newTestAuthService(repo *mockUserRepository) *authService {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:        log,
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	return &authService{
		users:     repo,
		validator: NewAuthValidator(log),
		cfg:       cfg,
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
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
}

func signupRequest() *model.SignupRequest {
	return &model.SignupRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "John@Example.com",
		Password:  "secret123",
	}
}

func TestSignup(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	user, token, err := svc.Signup(context.Background(), signupRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "john@example.com" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
	if user.Role != model.RoleUser {
		t.Errorf("signup must always produce role user, got %s", user.Role)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, _, err := svc.Signup(context.Background(), signupRequest())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestSignup_ShortPassword(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	req := signupRequest()
	req.Password = "abc"

	_, _, err := svc.Signup(context.Background(), req)
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestLogin_IndistinctFailures(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	var messages []string
	for _, req := range []*model.LoginRequest{
		{Email: "nobody@example.com", Password: "secret123"},
		{Email: "john@example.com", Password: "wrong-password"},
	} {
		_, _, err := svc.Login(context.Background(), req)
		assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
		messages = append(messages, err.(*apperrors.AppError).Message)
	}
	if messages[0] != messages[1] {
		t.Errorf("login failures leak account existence: %q vs %q", messages[0], messages[1])
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Signup(context.Background(), signupRequest()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, token, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "JOHN@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "john@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if token == "" {
		t.Error("expected a token")
	}
}

func TestResolve_RoundTrip(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	user, token, err := svc.Signup(context.Background(), signupRequest())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	identity, resolved, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if identity.UserID != user.ID || identity.Role != model.RoleUser {
		t.Errorf("unexpected identity: %+v", identity)
	}
	if resolved.Email != user.Email {
		t.Errorf("unexpected resolved user: %+v", resolved)
	}

	// Role changes take effect on the next resolve, without reissuing.
	repo.byID[user.ID].Role = model.RoleAdmin
	identity, _, err = svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve after role change failed: %v", err)
	}
	if !identity.IsAdmin() {
		t.Error("expected refreshed role admin")
	}
}

func TestResolve_InvalidToken(t *testing.T) {
	svc := newTestAuthService(newMockUserRepository())

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, _, err := svc.Resolve(context.Background(), token)
		assertAppErrorCode(t, err, apperrors.CodeUnauthorized)
	}
}

func TestResolve_DeletedUser(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	user, token, err := svc.Signup(context.Background(), signupRequest())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	delete(repo.byID, user.ID)

	_, _, err = svc.Resolve(context.Background(), token)
	assertAppErrorCode(t, err, apperrors.CodeUnauthorized)
}
