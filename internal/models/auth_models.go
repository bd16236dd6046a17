package models

import "time"

// UserProfile represents a registered player. The credential fields are kept
// in storage only and never serialised to API clients (see PublicProfile).
type UserProfile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash,omitempty"`
	// LegacyPassword holds the plaintext credential written by older clients.
	// It is cleared once the account has been upgraded to a hash.
	LegacyPassword string `json:"password,omitempty"`
	FullName       string `json:"fullName"`
	PhoneNumber    string `json:"phoneNumber"`
}

// PublicProfile is the credential-free view of a UserProfile.
type PublicProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

// Public strips credentials from the profile.
func (u *UserProfile) Public() *PublicProfile {
	if u == nil {
		return nil
	}
	return &PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
	}
}

// Session records a signed-in user. A token is only honoured while the
// session carrying its id exists.
type Session struct {
	UserID    string         `json:"userId"`
	TokenID   string         `json:"tokenId"`
	IssuedAt  time.Time      `json:"issuedAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Profile   *PublicProfile `json:"profile"`
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegistrationPayload for user registration
type RegistrationPayload struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	FullName        string `json:"fullName" binding:"required"`
	PhoneNumber     string `json:"phoneNumber" binding:"required"`
}
