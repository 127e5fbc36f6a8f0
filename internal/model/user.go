package model

import "time"

// Role names stored in the users.role column and carried in JWT claims.
// ADMIN manages machines and members, MANAGER is workshop staff who can
// issue warnings and publish notices, STUDENT books equipment.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStudent = "STUDENT"
)

// User represents an application user record as stored in the `users`
// table. Quota and warning counters are embedded directly on the row:
// warning_count is a derived cache that must equal the number of rows in
// the warnings table for this user, and the laser quota counters are
// decremented by bookings, restored by cancellations and reset by an
// external weekly/daily job. Keeping them on the user row lets a single
// UPDATE adjust them inside the same transaction that writes a
// reservation.
//
// Fields:
//
//	ID             – primary key identifier of the user.
//	StudentID      – university student number (unique).
//	Username       – display name.
//	Email          – unique email address.
//	PasswordHash   – bcrypt hashed password.
//	Role           – one of ADMIN, MANAGER, STUDENT.
//	Year           – academic year as a string ("1".."5"); empty for staff.
//	TrainingPassed – whether safety training has been completed.
//	WarningCount   – cached count of active warnings.
//	LaserQuotaWeek – remaining laser slots for the current week.
//	LaserQuotaDay  – remaining laser slots for the current day.
//	IsActive       – whether the account is active.
//	CreatedAt      – timestamp of creation.
//	UpdatedAt      – timestamp of last update.
type User struct {
	ID             uint64    // users.id
	StudentID      string    // users.student_id
	Username       string    // users.username
	Email          string    // users.email
	PasswordHash   string    // users.password_hash
	Role           string    // users.role
	Year           string    // users.year
	TrainingPassed bool      // users.training_passed
	WarningCount   int       // users.warning_count
	LaserQuotaWeek int       // users.laser_quota_week
	LaserQuotaDay  int       // users.laser_quota_day
	IsActive       bool      // users.is_active
	CreatedAt      time.Time // users.created_at
	UpdatedAt      time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation. The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
