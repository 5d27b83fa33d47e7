package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"socialhub/internal/domain/user"
	"socialhub/internal/pkg/jwt"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[CodePurpose]string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: make(map[CodePurpose]string)}
}

func (m *captureMailer) SendCode(_ context.Context, _ string, purpose CodePurpose, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[purpose] = code
	return nil
}

func (m *captureMailer) code(purpose CodePurpose) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[purpose]
}

func setupTestService(t *testing.T) (*Service, *captureMailer) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&user.User{}, &verificationCodeRow{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	jwtService := jwt.New("test-access-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
	mailer := newCaptureMailer()
	svc := NewService(user.NewRepository(db), jwtService, mailer, db, "test-pepper", 15*time.Minute, time.Minute)
	return svc, mailer
}

func registerVerified(t *testing.T, svc *Service, mailer *captureMailer, username string) *user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		FullName: "Test " + username,
	})
	require.NoError(t, err)
	require.NoError(t, svc.VerifyCode(context.Background(), u.Email, mailer.code(PurposeSignup)))
	return u
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "bob"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	svc, mailer := setupTestService(t)
	registerVerified(t, svc, mailer, "alice")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret123",
		FullName: "Other Alice",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
		FullName: "Bob B.",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "bob", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestVerifyThenLogin(t *testing.T) {
	svc, mailer := setupTestService(t)
	registerVerified(t, svc, mailer, "alice")

	result, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Empty(t, result.User.PasswordHash)
	assert.Empty(t, result.User.RefreshToken)

	// login by email works too
	_, err = svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret123"})
	assert.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, mailer := setupTestService(t)
	registerVerified(t, svc, mailer, "alice")

	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Password: "secret123"})
	assert.ErrorIs(t, err, ErrMissingLogin)
}

func TestResendCodeCooldown(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
		FullName: "Bob B.",
	})
	require.NoError(t, err)

	err = svc.ResendCode(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, ErrResendCooldown)
}

func TestRefreshRotatesExactlyOnce(t *testing.T) {
	svc, mailer := setupTestService(t)
	registerVerified(t, svc, mailer, "alice")

	result, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	first := result.Tokens.RefreshToken

	pair, err := svc.Refresh(context.Background(), first)
	require.NoError(t, err)
	assert.NotEqual(t, first, pair.RefreshToken)

	// the rotated-out token is unusable the instant the new one is stored
	_, err = svc.Refresh(context.Background(), first)
	assert.ErrorIs(t, err, ErrStaleRefreshToken)

	// the fresh one still works
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, mailer := setupTestService(t)
	u := registerVerified(t, svc, mailer, "alice")

	result, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), u.ID))

	_, err = svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrStaleRefreshToken)
}

func TestChangePassword(t *testing.T) {
	svc, mailer := setupTestService(t)
	u := registerVerified(t, svc, mailer, "alice")

	err := svc.ChangePassword(context.Background(), u.ID, "wrong", "newsecret1")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	require.NoError(t, svc.ChangePassword(context.Background(), u.ID, "secret123", "newsecret1"))

	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "newsecret1"})
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mailer := setupTestService(t)
	registerVerified(t, svc, mailer, "alice")

	svc.ForgotPassword(context.Background(), "alice@example.com")
	code := mailer.code(PurposeReset)
	require.NotEmpty(t, code)

	err := svc.ResetPassword(context.Background(), "alice@example.com", "000000", "resetpass1")
	assert.ErrorIs(t, err, ErrInvalidCode)

	require.NoError(t, svc.ResetPassword(context.Background(), "alice@example.com", code, "resetpass1"))

	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "resetpass1"})
	assert.NoError(t, err)

	// the code is single use
	err = svc.ResetPassword(context.Background(), "alice@example.com", code, "again123")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestUpdateAccount(t *testing.T) {
	svc, mailer := setupTestService(t)
	u := registerVerified(t, svc, mailer, "alice")

	_, err := svc.UpdateAccount(context.Background(), u.ID, UpdateAccountRequest{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	updated, err := svc.UpdateAccount(context.Background(), u.ID, UpdateAccountRequest{
		FullName: "Alice Updated",
		Phone:    "+770012345",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", updated.FullName)
	assert.Equal(t, "+770012345", updated.Phone)
}
