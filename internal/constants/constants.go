package constants

// Context keys set by the auth middleware
const (
	ContextKeyUser   = "current_user"
	ContextKeyUserID = "user_id"
)

// Password policy
const MinPasswordLength = 6

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Admin dashboard rollups
const RecentItemsLimit = 5
