// Package session owns the client's authenticated identity: it installs
// tokens on login, persists the session snapshot, and keeps the access token
// fresh with a self-renewing silent refresh.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/repository"
)

// Config tunes the token lifecycle.
type Config struct {
	// TokenLifetime is the assumed validity of an access token whose exp
	// claim cannot be read.
	TokenLifetime time.Duration
	// RefreshLead is how long before expiry the silent refresh fires.
	RefreshLead time.Duration
}

// Manager is the authentication state machine. It implements
// restclient.TokenSource so the transport reads the live token at call time.
type Manager struct {
	auth   repository.AuthAPI
	store  repository.SnapshotStore
	logger *zap.Logger

	tokenLifetime time.Duration
	refreshLead   time.Duration

	mu           sync.Mutex
	session      domain.Session
	users        []domain.User
	refreshTimer *time.Timer

	// test seams
	now       func() time.Time
	afterFunc func(time.Duration, func()) *time.Timer
}

// New builds a session manager. The store may be nil, in which case the
// session lives only in memory.
func New(auth repository.AuthAPI, store repository.SnapshotStore, cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TokenLifetime <= 0 {
		cfg.TokenLifetime = 50 * time.Minute
	}
	if cfg.RefreshLead <= 0 {
		cfg.RefreshLead = time.Minute
	}
	return &Manager{
		auth:          auth,
		store:         store,
		logger:        logger,
		tokenLifetime: cfg.TokenLifetime,
		refreshLead:   cfg.RefreshLead,
		now:           time.Now,
		afterFunc:     time.AfterFunc,
	}
}

// AccessToken returns the current bearer token, empty when signed out.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.AccessToken
}

// Current returns a copy of the session snapshot.
func (m *Manager) Current() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Authenticated
}

// Load rehydrates the persisted session. An expired token triggers an
// immediate refresh; a live one only re-arms the timer.
func (m *Manager) Load(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	var saved domain.Session
	found, err := m.store.Load(repository.SnapshotSession, &saved)
	if err != nil {
		return err
	}
	if !found || !saved.Authenticated {
		return nil
	}

	m.mu.Lock()
	m.session = saved
	expired := saved.IsExpired(m.now())
	if !expired {
		m.scheduleLocked()
	}
	m.mu.Unlock()

	if expired {
		return m.Refresh(ctx)
	}
	return nil
}

// Register creates an account and signs the user in.
func (m *Manager) Register(ctx context.Context, req transport.RegisterRequest) (domain.Session, string, error) {
	auth, err := m.auth.Register(ctx, req)
	if err != nil {
		return domain.Session{}, "", err
	}
	return m.install(auth), auth.Message, nil
}

// Login authenticates and installs the issued token pair.
func (m *Manager) Login(ctx context.Context, email, password string) (domain.Session, string, error) {
	auth, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, "", err
	}
	return m.install(auth), auth.Message, nil
}

// install replaces the session with the server-issued identity, persists it
// and arms the refresh timer.
func (m *Manager) install(auth *repository.AuthSession) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = domain.Session{
		Authenticated:  true,
		UserID:         auth.User.ID,
		Username:       auth.User.Username,
		Email:          auth.User.Email,
		ProfileImage:   auth.User.ProfileImage,
		IsAdmin:        auth.User.IsAdmin,
		IsAuthorized:   auth.User.IsAuthorized,
		EmailVerified:  auth.User.EmailVerified,
		LastLogin:      auth.User.LastLogin,
		AccessToken:    auth.Tokens.AccessToken,
		RefreshToken:   auth.Tokens.RefreshToken,
		TokenExpiresAt: m.tokenExpiry(auth.Tokens.AccessToken),
	}
	m.persistLocked()
	m.scheduleLocked()
	return m.session
}

// Refresh exchanges the refresh token for a new pair. Any failure wipes the
// session so the client never operates on stale credentials.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	refreshToken := m.session.RefreshToken
	m.mu.Unlock()

	if refreshToken == "" {
		m.Clear()
		return domain.ErrMissingRefreshToken
	}

	tokens, err := m.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		m.logger.Warn("token refresh failed, clearing session", zap.Error(err))
		m.Clear()
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		m.session.RefreshToken = tokens.RefreshToken
	}
	m.session.TokenExpiresAt = m.tokenExpiry(tokens.AccessToken)
	m.persistLocked()
	m.scheduleLocked()
	return nil
}

// Logout revokes the session server-side and clears local state either way.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.auth.Logout(ctx)
	if err != nil {
		m.logger.Warn("server logout failed", zap.Error(err))
	}
	m.Clear()
	return err
}

// Clear wipes the in-memory session, the persisted snapshot and any pending
// refresh.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.session.Reset()
	m.users = nil
	if m.store != nil {
		if err := m.store.Delete(repository.SnapshotSession); err != nil {
			m.logger.Warn("failed to drop session snapshot", zap.Error(err))
		}
	}
}

// Close cancels the pending refresh timer. The persisted session survives so
// the next run can rehydrate it.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

// VerifyEmail confirms the account's email. When it is the signed-in account,
// the local snapshot is updated too.
func (m *Manager) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	msg, err := m.auth.VerifyEmail(ctx, email, code)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	if m.session.Authenticated && m.session.Email == email {
		m.session.EmailVerified = true
		m.persistLocked()
	}
	m.mu.Unlock()
	return msg, nil
}

// EnsureAdmin promotes the given account to admin.
func (m *Manager) EnsureAdmin(ctx context.Context, email string) (*domain.User, string, error) {
	user, msg, err := m.auth.EnsureAdmin(ctx, email)
	if err != nil {
		return nil, "", err
	}
	m.mu.Lock()
	if m.session.Authenticated && user != nil && m.session.UserID == user.ID {
		m.session.IsAdmin = user.IsAdmin
		m.persistLocked()
	}
	m.mu.Unlock()
	return user, msg, nil
}

// UpdateProfile persists profile edits and mirrors them locally.
func (m *Manager) UpdateProfile(ctx context.Context, req transport.ProfileUpdateRequest) (*domain.User, string, error) {
	user, msg, err := m.auth.UpdateProfile(ctx, req)
	if err != nil {
		return nil, "", err
	}
	m.mu.Lock()
	if m.session.Authenticated && user != nil {
		m.session.Username = user.Username
		m.session.Email = user.Email
		m.persistLocked()
	}
	m.mu.Unlock()
	return user, msg, nil
}

// UpdatePassword changes the account password.
func (m *Manager) UpdatePassword(ctx context.Context, current, next string) (string, error) {
	return m.auth.UpdatePassword(ctx, current, next)
}

// UpdateProfileImage uploads a new avatar and mirrors the stored URL.
func (m *Manager) UpdateProfileImage(ctx context.Context, imageData string) (string, string, error) {
	image, msg, err := m.auth.UpdateProfileImage(ctx, imageData)
	if err != nil {
		return "", "", err
	}
	m.mu.Lock()
	if m.session.Authenticated {
		m.session.ProfileImage = image
		m.persistLocked()
	}
	m.mu.Unlock()
	return image, msg, nil
}

// RequestPasswordReset asks the backend to mail a reset token.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return m.auth.RequestPasswordReset(ctx, email)
}

// ResetPassword completes a mailed password reset.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return m.auth.ResetPassword(ctx, token, newPassword)
}

// SubmitContactForm forwards a support message.
func (m *Manager) SubmitContactForm(ctx context.Context, email, username, message string) (string, error) {
	return m.auth.SubmitContactForm(ctx, email, username, message)
}

// AllUsers lists every account. Admin only, enforced server-side.
func (m *Manager) AllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := m.auth.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.users = users
	m.mu.Unlock()
	return users, nil
}

// UsersByRole lists accounts filtered by role.
func (m *Manager) UsersByRole(ctx context.Context, role string) ([]domain.User, error) {
	users, err := m.auth.UsersByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.users = users
	m.mu.Unlock()
	return users, nil
}

// CachedUsers returns the last fetched user list.
func (m *Manager) CachedUsers() []domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.User(nil), m.users...)
}

// ToggleAdmin grants or revokes admin on another account.
func (m *Manager) ToggleAdmin(ctx context.Context, userID string, makeAdmin bool) (string, error) {
	return m.auth.ToggleAdmin(ctx, userID, makeAdmin)
}

// DeleteUser removes another account.
func (m *Manager) DeleteUser(ctx context.Context, userID string) (string, error) {
	return m.auth.DeleteUser(ctx, userID)
}

// DeleteAccount removes the signed-in account and clears the session.
func (m *Manager) DeleteAccount(ctx context.Context) (string, error) {
	msg, err := m.auth.DeleteAccount(ctx)
	if err != nil {
		return "", err
	}
	m.Clear()
	return msg, nil
}

// BulkDelete removes a batch of accounts and reports the per-item outcome.
// The cached user list drops only the IDs the server actually deleted:
// skipped admins and failed deletions stay.
func (m *Manager) BulkDelete(ctx context.Context, userIDs []string) (*domain.BulkDeleteOutcome, string, error) {
	outcome, msg, err := m.auth.BulkDelete(ctx, userIDs)
	if err != nil {
		return nil, "", err
	}

	kept := make(map[string]bool, outcome.SkippedCount()+outcome.FailedCount())
	for _, id := range outcome.SkippedAdminIDs {
		kept[id] = true
	}
	for _, id := range outcome.FailedDeletions {
		kept[id] = true
	}
	requested := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		requested[id] = true
	}

	m.mu.Lock()
	remaining := m.users[:0]
	for _, u := range m.users {
		if requested[u.ID] && !kept[u.ID] {
			continue
		}
		remaining = append(remaining, u)
	}
	m.users = remaining
	m.mu.Unlock()
	return outcome, msg, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the server
// is the only party that validates tokens. Unreadable claims fall back to the
// configured lifetime.
func (m *Manager) tokenExpiry(accessToken string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err == nil {
		if claims.ExpiresAt != nil {
			return claims.ExpiresAt.Time
		}
	}
	return m.now().Add(m.tokenLifetime)
}

// scheduleLocked arms the silent refresh at expiry minus the lead, replacing
// any pending timer so at most one is ever armed. Callers hold m.mu.
func (m *Manager) scheduleLocked() {
	m.stopTimerLocked()
	delay := m.session.TokenExpiresAt.Sub(m.now()) - m.refreshLead
	if delay < 0 {
		delay = 0
	}
	m.refreshTimer = m.afterFunc(delay, func() {
		if err := m.Refresh(context.Background()); err != nil {
			m.logger.Warn("scheduled refresh failed", zap.Error(err))
		}
	})
}

func (m *Manager) stopTimerLocked() {
	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
		m.refreshTimer = nil
	}
}

// persistLocked writes the session snapshot. Callers hold m.mu.
func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(repository.SnapshotSession, m.session); err != nil {
		m.logger.Warn("failed to persist session snapshot", zap.Error(err))
	}
}
