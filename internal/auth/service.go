package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"classtrack/internal/mailer"
)

var (
	// ErrEmailRegistered means the email already belongs to a verified user.
	ErrEmailRegistered = errors.New("email already registered")
	// ErrDelivery means the OTP message could not be sent.
	ErrDelivery = errors.New("could not send verification code")
	// ErrNoPending means verification was attempted without a pending registration.
	ErrNoPending = errors.New("no pending registration")
	// ErrOTPExpired means the code exists but its window has passed.
	ErrOTPExpired = errors.New("verification code expired")
	// ErrOTPMismatch means the submitted code does not match.
	ErrOTPMismatch = errors.New("incorrect verification code")
	// ErrInvalidCredentials is the single login failure, deliberately not
	// distinguishing unknown accounts from wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Pending is the transient registration state held in the session between the
// register and verify steps.
type Pending struct {
	AttemptID    string
	Email        string
	PasswordHash string
}

// Service runs the registration state machine and login checks.
type Service struct {
	repo   *Repository
	mail   mailer.Mailer
	otpTTL time.Duration
	now    func() time.Time
}

// NewService creates a service. otpTTL bounds how long a code stays valid.
func NewService(repo *Repository, mail mailer.Mailer, otpTTL time.Duration, now func() time.Time) *Service {
	if otpTTL <= 0 {
		otpTTL = 10 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, mail: mail, otpTTL: otpTTL, now: now}
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// StartRegistration begins a registration attempt: it stores a fresh OTP for
// the email (replacing any prior one), mails the code, and returns the pending
// state for the session. ErrEmailRegistered is returned when a verified user
// already owns the email; ErrDelivery when the mail could not be sent, in
// which case the pending state must not be entered.
func (s *Service) StartRegistration(ctx context.Context, email, password string) (Pending, error) {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return Pending{}, err
	}
	if existing != nil && existing.Verified {
		return Pending{}, ErrEmailRegistered
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Pending{}, err
	}
	code, err := generateOTP()
	if err != nil {
		return Pending{}, err
	}
	expiresAt := s.now().Add(s.otpTTL)
	if err := s.repo.ReplaceOTP(ctx, email, code, expiresAt); err != nil {
		return Pending{}, err
	}

	attemptID := uuid.NewString()
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(s.otpTTL.Minutes()))
	if err := s.mail.Send(ctx, email, "Your verification code", body); err != nil {
		log.Printf("otp delivery failed for attempt %s: %v", attemptID, err)
		return Pending{}, ErrDelivery
	}
	log.Printf("otp issued for attempt %s", attemptID)
	return Pending{AttemptID: attemptID, Email: email, PasswordHash: hash}, nil
}

// VerifyOTP completes a registration attempt. On success the verified user row
// exists and the OTP row is gone. ErrNoPending and ErrOTPExpired mean the flow
// must restart from the register step; ErrOTPMismatch keeps the attempt alive.
func (s *Service) VerifyOTP(ctx context.Context, pending Pending, code string) (*User, error) {
	if pending.Email == "" {
		return nil, ErrNoPending
	}
	otp, err := s.repo.GetOTP(ctx, pending.Email)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, ErrNoPending
	}
	if s.now().After(otp.ExpiresAt) {
		if err := s.repo.DeleteOTP(ctx, pending.Email); err != nil {
			return nil, err
		}
		return nil, ErrOTPExpired
	}
	if otp.Code != code {
		return nil, ErrOTPMismatch
	}

	if err := s.repo.CreateUser(ctx, pending.Email, pending.PasswordHash, true); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteOTP(ctx, pending.Email); err != nil {
		return nil, err
	}
	return s.repo.GetUserByEmail(ctx, pending.Email)
}

// Login verifies the email exists, is verified, and the password matches.
// Every failure is ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Verified || !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
