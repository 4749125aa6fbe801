package constants

// Session / context keys
const (
	ContextKeyUserID = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Budget reconciliation
const (
	// UpfrontRate is the fraction of the total bid paid in advance when a
	// completion-based proposal is accepted.
	UpfrontRate = 0.12

	// WorkDaysPerWeek approximates billable days for hourly proposals.
	// The 5/7 ratio is applied to the whole calendar span; individual
	// weekends and holidays are not excluded.
	WorkDaysPerWeek = 5
	DaysPerWeek     = 7
)

// Board
const (
	// TodoColumnLimit caps the "today" queue.
	TodoColumnLimit = 3
)
