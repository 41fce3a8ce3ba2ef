// Package models defines the persisted records of the key backup service.
package models

// User is the account record stored at <escaped-email>/user.json.
//
// PasswordHash is the opaque serialized record produced by the credential
// hasher. ResetCode is present only while a password reset is pending;
// resolving the reset (or issuing a new one) replaces or clears it.
type User struct {
	PasswordHash string `json:"password_hash"`
	ResetCode    string `json:"reset_code,omitempty"`
}

// ResetPending reports whether a password reset has been issued and not yet
// consumed.
func (u *User) ResetPending() bool {
	return u.ResetCode != ""
}
