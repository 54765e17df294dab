package constants

// Context keys set by the auth middleware.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyLoginKey  = "login_key"
	ContextKeyRequestID = "request_id"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// DateLayout is the calendar date format used in queries, bodies and storage.
const DateLayout = "2006-01-02"

// MaxTextLength bounds the body of a task or note.
const MaxTextLength = 2000
