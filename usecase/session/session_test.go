package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/repository"
)

// fakeAuthAPI scripts the auth backend.
type fakeAuthAPI struct {
	loginSession  *repository.AuthSession
	loginErr      error
	refreshTokens *domain.TokenPair
	refreshErr    error
	logoutErr     error

	users       []domain.User
	bulkOutcome *domain.BulkDeleteOutcome

	loginCalls   int
	refreshCalls int
	refreshWith  []string
}

func (f *fakeAuthAPI) Register(ctx context.Context, req transport.RegisterRequest) (*repository.AuthSession, error) {
	return f.loginSession, f.loginErr
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*repository.AuthSession, error) {
	f.loginCalls++
	return f.loginSession, f.loginErr
}

func (f *fakeAuthAPI) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	f.refreshCalls++
	f.refreshWith = append(f.refreshWith, refreshToken)
	return f.refreshTokens, f.refreshErr
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error { return f.logoutErr }

func (f *fakeAuthAPI) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	return "verified", nil
}

func (f *fakeAuthAPI) EnsureAdmin(ctx context.Context, email string) (*domain.User, string, error) {
	return nil, "", nil
}

func (f *fakeAuthAPI) UpdateProfile(ctx context.Context, req transport.ProfileUpdateRequest) (*domain.User, string, error) {
	return &domain.User{Username: req.Username, Email: req.Email}, "updated", nil
}

func (f *fakeAuthAPI) UpdatePassword(ctx context.Context, current, next string) (string, error) {
	return "", nil
}

func (f *fakeAuthAPI) UpdateProfileImage(ctx context.Context, imageData string) (string, string, error) {
	return "", "", nil
}

func (f *fakeAuthAPI) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return "", nil
}

func (f *fakeAuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return "", nil
}

func (f *fakeAuthAPI) SubmitContactForm(ctx context.Context, email, username, message string) (string, error) {
	return "", nil
}

func (f *fakeAuthAPI) AllUsers(ctx context.Context) ([]domain.User, error) {
	return f.users, nil
}

func (f *fakeAuthAPI) UsersByRole(ctx context.Context, role string) ([]domain.User, error) {
	return nil, nil
}

func (f *fakeAuthAPI) ToggleAdmin(ctx context.Context, userID string, makeAdmin bool) (string, error) {
	return "", nil
}

func (f *fakeAuthAPI) DeleteUser(ctx context.Context, userID string) (string, error) {
	return "", nil
}

func (f *fakeAuthAPI) DeleteAccount(ctx context.Context) (string, error) { return "deleted", nil }

func (f *fakeAuthAPI) BulkDelete(ctx context.Context, userIDs []string) (*domain.BulkDeleteOutcome, string, error) {
	if f.bulkOutcome != nil {
		return f.bulkOutcome, "", nil
	}
	return &domain.BulkDeleteOutcome{DeletedCount: len(userIDs)}, "", nil
}

// fakeStore is an in-memory SnapshotStore.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) Save(key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = payload
	return nil
}

func (s *fakeStore) Load(key string, out interface{}) (bool, error) {
	s.mu.Lock()
	payload, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, out)
}

func (s *fakeStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// timerRecorder captures scheduled refreshes instead of arming real timers.
type timerRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (r *timerRecorder) afterFunc(d time.Duration, fn func()) *time.Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	r.fns = append(r.fns, fn)
	// Park a real timer far in the future so Stop has something to act on.
	return time.AfterFunc(time.Hour, func() {})
}

func (r *timerRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delays)
}

func (r *timerRecorder) lastDelay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delays[len(r.delays)-1]
}

func (r *timerRecorder) fireLast() {
	r.mu.Lock()
	fn := r.fns[len(r.fns)-1]
	r.mu.Unlock()
	fn()
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, api *fakeAuthAPI, store *fakeStore) (*Manager, *timerRecorder) {
	t.Helper()
	m := New(api, store, Config{
		TokenLifetime: 50 * time.Minute,
		RefreshLead:   time.Minute,
	}, nil)
	recorder := &timerRecorder{}
	m.now = func() time.Time { return fixedNow }
	m.afterFunc = recorder.afterFunc
	return m, recorder
}

func loginSession() *repository.AuthSession {
	return &repository.AuthSession{
		User: domain.User{
			ID:       "u1",
			Username: "amina",
			Email:    "amina@example.com",
			IsAdmin:  true,
		},
		Tokens:  domain.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
		Message: "welcome back",
	}
}

func TestLoginInstallsSessionAndSchedulesRefresh(t *testing.T) {
	api := &fakeAuthAPI{loginSession: loginSession()}
	store := newFakeStore()
	m, recorder := newTestManager(t, api, store)

	session, msg, err := m.Login(context.Background(), "amina@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if msg != "welcome back" {
		t.Errorf("message = %q", msg)
	}
	if !session.Authenticated || session.UserID != "u1" {
		t.Errorf("session not installed: %+v", session)
	}
	if m.AccessToken() != "access-1" {
		t.Errorf("AccessToken() = %q", m.AccessToken())
	}

	// Opaque token, so expiry falls back to the configured lifetime and the
	// refresh is scheduled lead before it.
	if recorder.count() != 1 {
		t.Fatalf("scheduled %d timers, want 1", recorder.count())
	}
	if got, want := recorder.lastDelay(), 49*time.Minute; got != want {
		t.Errorf("refresh delay = %v, want %v", got, want)
	}
	if !store.has(repository.SnapshotSession) {
		t.Error("session snapshot not persisted")
	}
}

func TestLoginReadsExpiryFromTokenClaims(t *testing.T) {
	exp := fixedNow.Add(10 * time.Minute)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	auth := loginSession()
	auth.Tokens.AccessToken = token
	api := &fakeAuthAPI{loginSession: auth}
	m, recorder := newTestManager(t, api, newFakeStore())

	if _, _, err := m.Login(context.Background(), "amina@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := m.Current().TokenExpiresAt; !got.Equal(exp) {
		t.Errorf("TokenExpiresAt = %v, want %v", got, exp)
	}
	if got, want := recorder.lastDelay(), 9*time.Minute; got != want {
		t.Errorf("refresh delay = %v, want %v", got, want)
	}
}

func TestScheduleClampsNegativeDelayToZero(t *testing.T) {
	exp := fixedNow.Add(30 * time.Second) // inside the lead window
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	auth := loginSession()
	auth.Tokens.AccessToken = token
	m, recorder := newTestManager(t, &fakeAuthAPI{loginSession: auth}, newFakeStore())

	if _, _, err := m.Login(context.Background(), "amina@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := recorder.lastDelay(); got != 0 {
		t.Errorf("refresh delay = %v, want 0", got)
	}
}

func TestRepeatedLoginKeepsSinglePendingTimer(t *testing.T) {
	api := &fakeAuthAPI{loginSession: loginSession()}
	m, recorder := newTestManager(t, api, newFakeStore())

	for i := 0; i < 3; i++ {
		if _, _, err := m.Login(context.Background(), "amina@example.com", "pw"); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}
	// Each install replaces the pending timer, never stacks one on top.
	if recorder.count() != 3 {
		t.Fatalf("scheduled %d timers, want 3", recorder.count())
	}
	m.mu.Lock()
	pending := m.refreshTimer != nil
	m.mu.Unlock()
	if !pending {
		t.Error("expected exactly one pending timer after repeated logins")
	}
}

func TestScheduledRefreshRotatesTokens(t *testing.T) {
	api := &fakeAuthAPI{
		loginSession:  loginSession(),
		refreshTokens: &domain.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"},
	}
	store := newFakeStore()
	m, recorder := newTestManager(t, api, store)

	if _, _, err := m.Login(context.Background(), "amina@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	recorder.fireLast()

	if api.refreshCalls != 1 {
		t.Fatalf("refresh calls = %d, want 1", api.refreshCalls)
	}
	if api.refreshWith[0] != "refresh-1" {
		t.Errorf("refreshed with %q, want refresh-1", api.refreshWith[0])
	}
	if m.AccessToken() != "access-2" {
		t.Errorf("AccessToken() = %q, want rotated token", m.AccessToken())
	}
	if m.Current().RefreshToken != "refresh-2" {
		t.Errorf("refresh token not rotated")
	}
	// A new refresh is armed for the next expiry.
	if recorder.count() != 2 {
		t.Errorf("scheduled %d timers, want 2", recorder.count())
	}
}

func TestRefreshKeepsOldRefreshTokenWhenServerOmitsIt(t *testing.T) {
	api := &fakeAuthAPI{
		loginSession:  loginSession(),
		refreshTokens: &domain.TokenPair{AccessToken: "access-2"},
	}
	m, _ := newTestManager(t, api, newFakeStore())

	if _, _, err := m.Login(context.Background(), "amina@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if m.Current().RefreshToken != "refresh-1" {
		t.Errorf("refresh token was dropped")
	}
}

func TestRefreshFailureClearsSession(t *testing.T) {
	api := &fakeAuthAPI{
		loginSession: loginSession(),
		refreshErr:   errors.New("refresh token revoked"),
	}
	store := newFakeStore()
	m, recorder := newTestManager(t, api, store)

	if _, _, err := m.Login(context.Background(), "amina@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	recorder.fireLast()

	if m.IsAuthenticated() {
		t.Error("session survived a failed refresh")
	}
	if m.AccessToken() != "" {
		t.Error("access token survived a failed refresh")
	}
	if store.has(repository.SnapshotSession) {
		t.Error("snapshot survived a failed refresh")
	}
	m.mu.Lock()
	pending := m.refreshTimer != nil
	m.mu.Unlock()
	if pending {
		t.Error("timer still armed after session clear")
	}
}

func TestRefreshWithoutTokenFailsAndClears(t *testing.T) {
	m, _ := newTestManager(t, &fakeAuthAPI{}, newFakeStore())
	err := m.Refresh(context.Background())
	if !errors.Is(err, domain.ErrMissingRefreshToken) {
		t.Fatalf("Refresh() error = %v, want ErrMissingRefreshToken", err)
	}
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	api := &fakeAuthAPI{
		loginSession: loginSession(),
		logoutErr:    errors.New("backend unreachable"),
	}
	store := newFakeStore()
	m, _ := newTestManager(t, api, store)

	if _, _, err := m.Login(context.Background(), "amina@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := m.Logout(context.Background()); err == nil {
		t.Error("expected server error to propagate")
	}
	if m.IsAuthenticated() || store.has(repository.SnapshotSession) {
		t.Error("local session survived logout")
	}
}

func TestLoadRehydratesLiveSession(t *testing.T) {
	store := newFakeStore()
	saved := domain.Session{
		Authenticated:  true,
		UserID:         "u1",
		AccessToken:    "access-1",
		RefreshToken:   "refresh-1",
		TokenExpiresAt: fixedNow.Add(20 * time.Minute),
	}
	if err := store.Save(repository.SnapshotSession, saved); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	api := &fakeAuthAPI{}
	m, recorder := newTestManager(t, api, store)

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.AccessToken() != "access-1" {
		t.Errorf("AccessToken() = %q after rehydration", m.AccessToken())
	}
	if api.refreshCalls != 0 {
		t.Error("live session should not refresh on load")
	}
	if got, want := recorder.lastDelay(), 19*time.Minute; got != want {
		t.Errorf("refresh delay = %v, want %v", got, want)
	}
}

func TestLoadRefreshesExpiredSession(t *testing.T) {
	store := newFakeStore()
	saved := domain.Session{
		Authenticated:  true,
		UserID:         "u1",
		AccessToken:    "stale",
		RefreshToken:   "refresh-1",
		TokenExpiresAt: fixedNow.Add(-time.Minute),
	}
	if err := store.Save(repository.SnapshotSession, saved); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	api := &fakeAuthAPI{refreshTokens: &domain.TokenPair{AccessToken: "access-2"}}
	m, _ := newTestManager(t, api, store)

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if api.refreshCalls != 1 {
		t.Fatalf("refresh calls = %d, want 1", api.refreshCalls)
	}
	if m.AccessToken() != "access-2" {
		t.Errorf("AccessToken() = %q, want refreshed token", m.AccessToken())
	}
}

func TestLoadIgnoresMissingSnapshot(t *testing.T) {
	m, recorder := newTestManager(t, &fakeAuthAPI{}, newFakeStore())
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.IsAuthenticated() {
		t.Error("fresh store produced an authenticated session")
	}
	if recorder.count() != 0 {
		t.Error("no refresh should be scheduled without a session")
	}
}

func TestBulkDeleteReconcilesCachedUsers(t *testing.T) {
	api := &fakeAuthAPI{
		users: []domain.User{
			{ID: "u1", Username: "gone"},
			{ID: "u2", Username: "admin"},
			{ID: "u3", Username: "stuck"},
			{ID: "u4", Username: "untouched"},
		},
		bulkOutcome: &domain.BulkDeleteOutcome{
			DeletedCount:    1,
			SkippedAdminIDs: []string{"u2"},
			FailedDeletions: []string{"u3"},
		},
	}
	m, _ := newTestManager(t, api, newFakeStore())

	if _, err := m.AllUsers(context.Background()); err != nil {
		t.Fatalf("AllUsers: %v", err)
	}
	outcome, _, err := m.BulkDelete(context.Background(), []string{"u1", "u2", "u3"})
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if outcome.DeletedCount != 1 {
		t.Errorf("deleted = %d", outcome.DeletedCount)
	}

	// Only the genuinely deleted ID leaves the cache; skipped admins, failed
	// deletions and unrequested users all stay.
	remaining := m.CachedUsers()
	ids := map[string]bool{}
	for _, u := range remaining {
		ids[u.ID] = true
	}
	if ids["u1"] {
		t.Error("deleted user still cached")
	}
	for _, want := range []string{"u2", "u3", "u4"} {
		if !ids[want] {
			t.Errorf("user %s missing from cache", want)
		}
	}
}

func TestDeleteAccountClearsSession(t *testing.T) {
	api := &fakeAuthAPI{loginSession: loginSession()}
	store := newFakeStore()
	m, _ := newTestManager(t, api, store)

	if _, _, err := m.Login(context.Background(), "amina@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	msg, err := m.DeleteAccount(context.Background())
	if err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if msg != "deleted" {
		t.Errorf("message = %q", msg)
	}
	if m.IsAuthenticated() || store.has(repository.SnapshotSession) {
		t.Error("session survived account deletion")
	}
}
