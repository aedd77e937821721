package repository

import (
	"context"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
)

// AuthSession is the user/token pair returned by login and registration.
type AuthSession struct {
	User    domain.User
	Tokens  domain.TokenPair
	Message string
}

// AuthAPI is the auth-service surface of the backend. Operations that carry
// a server-side confirmation text return it alongside the payload; failures
// carry the server message inside the returned error.
type AuthAPI interface {
	Register(ctx context.Context, req transport.RegisterRequest) (*AuthSession, error)
	Login(ctx context.Context, email, password string) (*AuthSession, error)
	VerifyEmail(ctx context.Context, email, code string) (string, error)
	EnsureAdmin(ctx context.Context, email string) (*domain.User, string, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	UpdateProfile(ctx context.Context, req transport.ProfileUpdateRequest) (*domain.User, string, error)
	UpdatePassword(ctx context.Context, current, next string) (string, error)
	UpdateProfileImage(ctx context.Context, imageData string) (string, string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	SubmitContactForm(ctx context.Context, email, username, message string) (string, error)

	AllUsers(ctx context.Context) ([]domain.User, error)
	UsersByRole(ctx context.Context, role string) ([]domain.User, error)
	ToggleAdmin(ctx context.Context, userID string, makeAdmin bool) (string, error)
	DeleteUser(ctx context.Context, userID string) (string, error)
	DeleteAccount(ctx context.Context) (string, error)
	BulkDelete(ctx context.Context, userIDs []string) (*domain.BulkDeleteOutcome, string, error)
}
