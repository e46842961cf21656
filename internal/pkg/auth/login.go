package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	repository "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/repository/port"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAccountInactive    = errors.New("auth: account is not active")
)

// LoginInput carries credentials for the login use case.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the issued token plus the authenticated account.
type LoginResult struct {
	AccessToken string
	User        *repository.User
}

// LoginUseCase verifies credentials against the user store and issues a JWT.
type LoginUseCase struct {
	Users    repository.UserRepository
	Secret   string
	TokenTTL time.Duration
}

func NewLoginUseCase(users repository.UserRepository, secret string, ttl time.Duration) *LoginUseCase {
	return &LoginUseCase{Users: users, Secret: secret, TokenTTL: ttl}
}

func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := uc.Users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Status != repository.UserStatusActive {
		return nil, ErrAccountInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(uc.Secret, user.ID, user.Email, user.Role, uc.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, User: user}, nil
}
