package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/crypto/bcrypt"

	"github.com/stayhaven/rentals/api/internal/auth"
	"github.com/stayhaven/rentals/api/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and bad passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailAlreadyExists signals a registration against a taken email.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidPhone flags a contact phone that could not be parsed.
	ErrInvalidPhone = errors.New("invalid phone number")
)

// AuthService coordinates credential validation and token issuance.
type AuthService struct {
	users       repository.UsersRepository
	jwt         *auth.JWTManager
	phoneRegion string
}

// NewAuthService constructs a new AuthService. phoneRegion is the default
// region used to parse national phone numbers.
func NewAuthService(users repository.UsersRepository, jwtManager *auth.JWTManager, phoneRegion string) *AuthService {
	if phoneRegion == "" {
		phoneRegion = "US"
	}
	return &AuthService{users: users, jwt: jwtManager, phoneRegion: phoneRegion}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return "", err
	}

	return token, nil
}

// Register provisions a user account and returns a JWT for immediate use.
// The optional contact phone is normalized to E.164 before storage.
func (s *AuthService) Register(ctx context.Context, email, password, name, phone string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	var phonePtr *string
	if strings.TrimSpace(phone) != "" {
		normalized := normalizePhone(phone, s.phoneRegion)
		if normalized == "" {
			return "", ErrInvalidPhone
		}
		phonePtr = &normalized
	}

	user, err := s.users.Create(ctx, repository.NewUserParams{
		Email:        email,
		Name:         name,
		Phone:        phonePtr,
		PasswordHash: string(hashed),
		Role:         "user",
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return "", ErrEmailAlreadyExists
		}
		return "", err
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return "", err
	}

	return token, nil
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
