package constants

// Session and context keys
const (
	SessionCookieName = "join_session"
	ContextKeyUserID  = "user_id"
	ContextKeyTask    = "task"
	ContextKeyContact = "contact"
)

// Validation limits
const (
	MinPasswordLength = 8
	MinNameLength     = 2
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Contacts
const (
	// SelfContactColor is the badge color of the contact entry created for the user themself.
	SelfContactColor = "#2A3E59"
	GuestName        = "Guest"
)

// MaxAIGeneratedTasks caps the number of suggestions accepted from the AI service.
const MaxAIGeneratedTasks = 20

// MaxUpdateAttempts bounds the compare-and-swap retry loop on the user database.
const MaxUpdateAttempts = 5
