package service

import (
	"context"
	"testing"
	"time"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/limiter"
	"jansan-commerce/internal/model"
	"jansan-commerce/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newPasswordService(db *gorm.DB, email *fakeEmail) PasswordService {
	return NewPasswordService(
		repository.NewUserRepository(db),
		email,
		limiter.NewMemoryLimiter(3, 15*time.Minute),
	)
}

func TestForgotPassword_StoresOTPAndSendsMail(t *testing.T) {
	db := setupTestDB(t)
	email := &fakeEmail{}
	svc := newPasswordService(db, email)

	user := seedUser(t, db, model.RoleCustomer)

	msg, err := svc.ForgotPassword(context.Background(), user.Email)
	require.NoError(t, err)
	assert.Contains(t, msg, "If an account exists")

	var reloaded model.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&reloaded).Error)
	assert.Len(t, reloaded.OTP, 6)
	require.NotNil(t, reloaded.OTPExpires)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *reloaded.OTPExpires, time.Minute)

	require.Len(t, email.sent, 1)
	assert.Equal(t, user.Email, email.sent[0].To)
	assert.Contains(t, email.sent[0].Text, reloaded.OTP)
}

func TestForgotPassword_UnknownEmailGetsSameResponse(t *testing.T) {
	db := setupTestDB(t)
	email := &fakeEmail{}
	svc := newPasswordService(db, email)

	msg, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Contains(t, msg, "If an account exists")
	assert.Empty(t, email.sent)
}

func TestForgotPassword_InvalidEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newPasswordService(db, &fakeEmail{})

	_, err := svc.ForgotPassword(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestForgotPassword_RateLimited(t *testing.T) {
	db := setupTestDB(t)
	svc := newPasswordService(db, &fakeEmail{})
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)

	for i := 0; i < 3; i++ {
		_, err := svc.ForgotPassword(ctx, user.Email)
		require.NoError(t, err)
	}

	_, err := svc.ForgotPassword(ctx, user.Email)
	assert.ErrorIs(t, err, apperr.ErrRateLimit)
}

func TestForgotPassword_MailFailureStaysGeneric(t *testing.T) {
	db := setupTestDB(t)
	svc := newPasswordService(db, &fakeEmail{err: assert.AnError})

	user := seedUser(t, db, model.RoleCustomer)

	msg, err := svc.ForgotPassword(context.Background(), user.Email)
	require.NoError(t, err)
	assert.Contains(t, msg, "If an account exists")
}

func TestResetPassword_HappyPath(t *testing.T) {
	db := setupTestDB(t)
	svc := newPasswordService(db, &fakeEmail{})
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	_, err := svc.ForgotPassword(ctx, user.Email)
	require.NoError(t, err)

	var withOTP model.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&withOTP).Error)

	require.NoError(t, svc.ResetPassword(ctx, user.Email, withOTP.OTP, "new-password-1"))

	var reloaded model.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&reloaded).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("new-password-1")))
	assert.Empty(t, reloaded.OTP)
	assert.Nil(t, reloaded.OTPExpires)

	// the code is single-use
	err = svc.ResetPassword(ctx, user.Email, withOTP.OTP, "another-password")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestResetPassword_WrongOTP(t *testing.T) {
	db := setupTestDB(t)
	svc := newPasswordService(db, &fakeEmail{})
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	_, err := svc.ForgotPassword(ctx, user.Email)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, user.Email, "000000", "new-password-1")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestResetPassword_ExpiredOTP(t *testing.T) {
	db := setupTestDB(t)
	svc := newPasswordService(db, &fakeEmail{})
	ctx := context.Background()

	user := seedUser(t, db, model.RoleCustomer)
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"otp": "123456", "otp_expires": expired}).Error)

	err := svc.ResetPassword(ctx, user.Email, "123456", "new-password-1")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestResetPassword_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newPasswordService(db, &fakeEmail{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.ResetPassword(ctx, "bad", "123456", "new-password"), apperr.ErrValidation)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "a@b.com", "123", "new-password"), apperr.ErrValidation)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "a@b.com", "123456", "short"), apperr.ErrValidation)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := generateOTP(6)
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, otp)
	}
}
