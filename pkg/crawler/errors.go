package crawler

import "errors"

// ErrCrawlUnavailable marks every crawl failure. Callers treat it as
// retryable and show the error's message to the user.
var ErrCrawlUnavailable = errors.New("crawl unavailable")

const (
	MsgNotConfigured = "Crawling is temporarily unavailable. Please try again later."
	MsgUnreachable   = "We could not crawl your site right now. Please try again."
)

// UnavailableError carries a user-facing message and, for transport
// failures, the underlying cause.
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrCrawlUnavailable }

// UserMessage returns the message safe to show to the user for err, or ""
// when err is not a crawl failure.
func UserMessage(err error) string {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return ""
}
