package domain

import "time"

// User represents an account as returned by the auth service.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	ProfileImage  string    `json:"profileImage,omitempty"`
	Role          string    `json:"role,omitempty"`
	IsAdmin       bool      `json:"isAdmin"`
	IsAuthorized  bool      `json:"isAuthorized"`
	EmailVerified bool      `json:"emailVerified"`
	LastLogin     time.Time `json:"lastLogin,omitempty"`
}

// TokenPair holds the opaque bearer credentials issued by the backend.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BulkDeleteOutcome reports per-item results of an admin bulk deletion.
// The three ID sets are assumed disjoint; together with the deleted count
// they cover every requested ID.
type BulkDeleteOutcome struct {
	DeletedCount    int      `json:"deletedCount"`
	SkippedAdminIDs []string `json:"skippedAdminIds"`
	FailedDeletions []string `json:"failedDeletions"`
}

// SkippedCount is the number of protected accounts the server refused to delete.
func (o *BulkDeleteOutcome) SkippedCount() int {
	if o == nil {
		return 0
	}
	return len(o.SkippedAdminIDs)
}

// FailedCount is the number of deletions that errored server-side.
func (o *BulkDeleteOutcome) FailedCount() int {
	if o == nil {
		return 0
	}
	return len(o.FailedDeletions)
}
