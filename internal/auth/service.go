package auth

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/MykolaZahanych/we-watch/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrFieldsRequired     = errors.New("all fields are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long, contain at least one number, and contain at least one special character")
	ErrInvalidEmail       = errors.New("invalid email format")
)

type Service struct {
	userRepo   *user.Repository
	bcryptCost int
}

func NewService(userRepo *user.Repository, bcryptCost int) *Service {
	return &Service{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
	Nickname       string `json:"nickname"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	if input.Email == "" || input.Password == "" || input.RepeatPassword == "" || input.Nickname == "" {
		return nil, ErrFieldsRequired
	}
	if input.Password != input.RepeatPassword {
		return nil, ErrPasswordMismatch
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Create(ctx, user.CreateUserInput{
		Email:        input.Email,
		PasswordHash: hash,
		Nickname:     input.Nickname,
	})
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*user.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrFieldsRequired
	}

	u, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// validatePassword enforces at least 8 characters, one digit, and one
// special character.
func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsDigit(c):
			hasDigit = true
		case !unicode.IsLetter(c) && !unicode.IsSpace(c):
			hasSpecial = true
		}
	}
	if !hasDigit || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}

// validateEmail does a basic local@domain.tld shape check.
func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot < 1 || dot == len(domain)-1 {
		return ErrInvalidEmail
	}
	if strings.ContainsAny(email, " \t") || strings.Count(email, "@") != 1 {
		return ErrInvalidEmail
	}
	return nil
}
