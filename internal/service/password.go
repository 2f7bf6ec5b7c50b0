package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"time"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/client"
	"jansan-commerce/internal/limiter"
	"jansan-commerce/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpLength = 6
	otpTTL    = 10 * time.Minute
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type PasswordService interface {
	// ForgotPassword always returns the same generic message for valid
	// input, so callers cannot probe which emails are registered.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

type passwordServiceImpl struct {
	userRepo    repository.UserRepository
	emailClient client.EmailClient
	limiter     limiter.RateLimiter
}

func NewPasswordService(userRepo repository.UserRepository, emailClient client.EmailClient, rl limiter.RateLimiter) PasswordService {
	return &passwordServiceImpl{
		userRepo:    userRepo,
		emailClient: emailClient,
		limiter:     rl,
	}
}

func (s *passwordServiceImpl) ForgotPassword(ctx context.Context, email string) (string, error) {
	if !emailPattern.MatchString(email) {
		return "", apperr.Validationf("a valid email is required")
	}

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		log.Printf("[password] rate limiter unavailable, allowing request: %v", err)
	} else if !allowed {
		return "", fmt.Errorf("%w: too many reset requests, try again later", apperr.ErrRateLimit)
	}

	const generic = "If an account exists for this email, a reset code has been sent"

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return generic, nil
	}
	if err != nil {
		return "", err
	}

	otp, err := generateOTP(otpLength)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	if err := s.userRepo.SetOTP(ctx, user.ID, otp, time.Now().Add(otpTTL)); err != nil {
		return "", err
	}

	if err := s.emailClient.Send(client.EmailMessage{
		To:      user.Email,
		Subject: "Your password reset code",
		Text:    fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes.", otp),
		HTML: fmt.Sprintf(
			"<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in 10 minutes.</p>", otp),
	}); err != nil {
		// the OTP is already stored, so a mail outage must not leak
		// account existence through a different response
		log.Printf("[password] failed to send reset email to %s: %v", user.Email, err)
	}

	return generic, nil
}

func (s *passwordServiceImpl) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if !emailPattern.MatchString(email) {
		return apperr.Validationf("a valid email is required")
	}
	if len(otp) != otpLength {
		return apperr.Validationf("a %d-digit code is required", otpLength)
	}
	if len(newPassword) < 6 {
		return apperr.Validationf("password must be at least 6 characters")
	}

	user, err := s.userRepo.FindByEmailAndOTP(ctx, email, otp, time.Now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Validationf("invalid or expired reset code")
	}
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), 10)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.userRepo.ResetPassword(ctx, user.ID, string(hashed))
}

// generateOTP returns n random decimal digits from crypto/rand.
func generateOTP(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
