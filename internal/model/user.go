package model

import "time"

// User is an account holder.  Role is CUSTOMER or ADMIN; handlers
// define their own response types, so no json tags here.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, stored lowercase)
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken is one login session.  Only the SHA-256 hash of the
// token is stored; revocation is recorded in place rather than by
// deleting the row.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash (sha256 hex)
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (null while live)
	CreatedAt time.Time  // refresh_tokens.created_at
}
