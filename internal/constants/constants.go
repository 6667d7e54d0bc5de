package constants

// Session and context keys
const (
	SessionCookieName = "flowtrack_session"
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
	ContextKeyLogger  = "logger"
)

// Authentication
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	MaxEmailLength    = 254
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Task suggestions
const (
	MaxAIGeneratedTasks = 20
	MaxSuggestionText   = 4000
)

// DateLayout is the calendar date format used for project due dates.
const DateLayout = "2006-01-02"
