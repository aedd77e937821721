package rest

import (
	"context"
	"net/url"

	"github.com/valyala/fasthttp"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/internal/restclient"
	"github.com/shoplite/client/repository"
)

type authAPI struct {
	client *restclient.Client
}

// NewAuthAPI creates the REST-backed auth repository.
func NewAuthAPI(client *restclient.Client) repository.AuthAPI {
	return &authAPI{client: client}
}

// userTokens is the data payload of login/register responses.
type userTokens struct {
	User   domain.User       `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func (a *authAPI) Register(ctx context.Context, req transport.RegisterRequest) (*repository.AuthSession, error) {
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodPost, "/auth/register", nil, req, false)
	if err != nil {
		return nil, err
	}
	return a.decodeSession(resp)
}

func (a *authAPI) Login(ctx context.Context, email, password string) (*repository.AuthSession, error) {
	req := transport.LoginRequest{Email: email, Password: password}
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodPost, "/auth/login", nil, req, false)
	if err != nil {
		return nil, err
	}
	return a.decodeSession(resp)
}

func (a *authAPI) decodeSession(resp *restclient.Response) (*repository.AuthSession, error) {
	env, err := authEnvelope(resp)
	if err != nil {
		return nil, err
	}
	var payload userTokens
	if err := env.DecodeData(&payload); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed auth payload", err)
	}
	if payload.Tokens == nil || payload.Tokens.AccessToken == "" {
		return nil, domain.NewError(domain.ErrCodeTransport, "auth response missing tokens")
	}
	return &repository.AuthSession{
		User:    payload.User,
		Tokens:  *payload.Tokens,
		Message: env.Message,
	}, nil
}

func (a *authAPI) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	req := transport.VerifyEmailRequest{Email: email, VerificationCode: code}
	return a.messageCall(ctx, fasthttp.MethodPost, "/auth/verify-email", req, false)
}

func (a *authAPI) EnsureAdmin(ctx context.Context, email string) (*domain.User, string, error) {
	req := transport.EnsureAdminRequest{Email: email}
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodPost, "/auth/ensure-admin", nil, req, true)
	if err != nil {
		return nil, "", err
	}
	env, err := authEnvelope(resp)
	if err != nil {
		return nil, "", err
	}
	var payload struct {
		User *domain.User `json:"user"`
	}
	if err := env.DecodeData(&payload); err != nil || payload.User == nil {
		return nil, "", domain.WrapError(domain.ErrCodeTransport, "malformed admin payload", err)
	}
	return payload.User, env.Message, nil
}

func (a *authAPI) Logout(ctx context.Context) error {
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodPost, "/auth/logout", nil, nil, true)
	if err != nil {
		return err
	}
	_, err = authEnvelope(resp)
	return err
}

func (a *authAPI) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	req := transport.RefreshTokenRequest{RefreshToken: refreshToken}
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodPost, "/auth/refresh-token", nil, req, false)
	if err != nil {
		return nil, err
	}
	env, err := authEnvelope(resp)
	if err != nil {
		return nil, err
	}
	var tokens domain.TokenPair
	if err := env.DecodeData(&tokens); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed token payload", err)
	}
	if tokens.AccessToken == "" {
		return nil, domain.NewError(domain.ErrCodeTransport, "refresh response missing access token")
	}
	return &tokens, nil
}

func (a *authAPI) UpdateProfile(ctx context.Context, req transport.ProfileUpdateRequest) (*domain.User, string, error) {
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodPatch, "/auth/update-profile", nil, req, true)
	if err != nil {
		return nil, "", err
	}
	env, err := authEnvelope(resp)
	if err != nil {
		return nil, "", err
	}
	var payload struct {
		User *domain.User `json:"user"`
	}
	if err := env.DecodeData(&payload); err != nil || payload.User == nil {
		return nil, "", domain.WrapError(domain.ErrCodeTransport, "malformed profile payload", err)
	}
	return payload.User, env.Message, nil
}

func (a *authAPI) UpdatePassword(ctx context.Context, current, next string) (string, error) {
	req := transport.PasswordUpdateRequest{CurrentPassword: current, NewPassword: next}
	return a.messageCall(ctx, fasthttp.MethodPatch, "/auth/update-password", req, true)
}

func (a *authAPI) UpdateProfileImage(ctx context.Context, imageData string) (string, string, error) {
	req := transport.ProfileImageRequest{ProfileImage: imageData}
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodPatch, "/auth/update-profile-image", nil, req, true)
	if err != nil {
		return "", "", err
	}
	env, err := authEnvelope(resp)
	if err != nil {
		return "", "", err
	}
	var payload struct {
		ProfileImage string `json:"profileImage"`
	}
	if err := env.DecodeData(&payload); err != nil {
		return "", "", domain.WrapError(domain.ErrCodeTransport, "malformed image payload", err)
	}
	return payload.ProfileImage, env.Message, nil
}

func (a *authAPI) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	req := transport.PasswordResetRequest{Email: email}
	return a.messageCall(ctx, fasthttp.MethodPost, "/auth/reset-password-request", req, false)
}

func (a *authAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	req := transport.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	return a.messageCall(ctx, fasthttp.MethodPost, "/auth/reset-password", req, false)
}

func (a *authAPI) SubmitContactForm(ctx context.Context, email, username, message string) (string, error) {
	req := transport.ContactFormRequest{Email: email, Username: username, Message: message}
	return a.messageCall(ctx, fasthttp.MethodPost, "/auth/contact", req, false)
}

func (a *authAPI) AllUsers(ctx context.Context) ([]domain.User, error) {
	return a.userList(ctx, "/auth/admin/users", nil)
}

func (a *authAPI) UsersByRole(ctx context.Context, role string) ([]domain.User, error) {
	return a.userList(ctx, "/auth/admin/users/by-role", url.Values{"role": {role}})
}

func (a *authAPI) userList(ctx context.Context, path string, query url.Values) ([]domain.User, error) {
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodGet, path, query, nil, true)
	if err != nil {
		return nil, err
	}
	env, err := authEnvelope(resp)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := env.DecodeData(&users); err != nil {
		return nil, domain.WrapError(domain.ErrCodeTransport, "malformed user list", err)
	}
	return users, nil
}

func (a *authAPI) ToggleAdmin(ctx context.Context, userID string, makeAdmin bool) (string, error) {
	req := transport.ToggleAdminRequest{UserID: userID, MakeAdmin: makeAdmin}
	return a.messageCall(ctx, fasthttp.MethodPost, "/auth/admin/toggle", req, true)
}

func (a *authAPI) DeleteUser(ctx context.Context, userID string) (string, error) {
	return a.messageCall(ctx, fasthttp.MethodDelete, "/auth/admin/delete-user/"+userID, nil, true)
}

func (a *authAPI) DeleteAccount(ctx context.Context) (string, error) {
	return a.messageCall(ctx, fasthttp.MethodDelete, "/auth/delete-account", nil, true)
}

func (a *authAPI) BulkDelete(ctx context.Context, userIDs []string) (*domain.BulkDeleteOutcome, string, error) {
	req := transport.BulkDeleteRequest{UserIDs: userIDs}
	resp, err := a.client.DoJSON(ctx, fasthttp.MethodPost, "/auth/admin/bulk-delete", nil, req, true)
	if err != nil {
		return nil, "", err
	}
	env, err := authEnvelope(resp)
	if err != nil {
		return nil, "", err
	}
	var outcome domain.BulkDeleteOutcome
	if err := env.DecodeData(&outcome); err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeTransport, "malformed bulk-delete payload", err)
	}
	return &outcome, env.Message, nil
}

func (a *authAPI) messageCall(ctx context.Context, method, path string, body interface{}, authed bool) (string, error) {
	resp, err := a.client.DoJSON(ctx, method, path, nil, body, authed)
	if err != nil {
		return "", err
	}
	env, err := authEnvelope(resp)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
