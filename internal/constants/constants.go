package constants

import "time"

const (
	// ContextKeyUserID is the gin context key holding the authenticated user's ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the gin context key holding the loaded user record.
	ContextKeyUser = "current_user"

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// RecentTaskLimit is how many tasks the dashboard "recent" section shows.
	RecentTaskLimit = 10

	// TokenTTL is the lifetime of issued access tokens.
	TokenTTL = 7 * 24 * time.Hour
)
