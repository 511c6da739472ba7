package domain

import "time"

// User is an account record. Username is the natural key exposed to
// callers; ID is the ULID primary key the attendance table references.
type User struct {
	ID           string
	Username     string
	PasswordHash string     // argon2id encoded
	TOTPSecret   string     // base32 encoded, created with the record, never rotated
	ActivatedAt  *time.Time // nil until the first successful OTP verification
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Activated reports whether the account has completed OTP activation.
func (u User) Activated() bool {
	return u.ActivatedAt != nil
}
