package domain

import "time"

// Session is the client-side snapshot of the authenticated identity.
// It is persisted in the local store and rehydrated on startup.
type Session struct {
	Authenticated bool      `json:"isAuth"`
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	ProfileImage  string    `json:"profileImage"`
	IsAdmin       bool      `json:"isAdmin"`
	IsAuthorized  bool      `json:"isAuthorized"`
	EmailVerified bool      `json:"emailVerified"`
	LastLogin     time.Time `json:"lastLogin,omitempty"`

	AccessToken    string    `json:"accessToken"`
	RefreshToken   string    `json:"refreshToken"`
	TokenExpiresAt time.Time `json:"tokenExpirationTime,omitempty"`
}

// IsExpired reports whether the access token is past its expiry at the
// reference instant.
func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil || !s.Authenticated {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.TokenExpiresAt.After(reference)
}

// Reset clears every identity and credential field.
func (s *Session) Reset() {
	*s = Session{}
}
