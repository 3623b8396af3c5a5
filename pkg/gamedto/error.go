package gamedto

// Error codes carried on API error responses.
const (
	CodeInvalidInput = "invalid_input"
	CodeNotFound     = "not_found"
	CodeIllegalMove  = "illegal_move"
	CodeConflict     = "conflict"
	CodeInternal     = "internal"
	CodeUnauthorized = "unauthorized"
)

// DomainError is the wire shape of a failed request. Retryable marks
// conflicts the client may resolve by reloading state and resubmitting.
type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "games service error"
}
