package chessdto

// DomainError is the JSON error body returned by the view server.
type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

const (
	CodeIllegalMove     = "illegal_move"
	CodeBadRequest      = "bad_request"
	CodeUnknownLanguage = "unknown_language"
	CodeInternal        = "internal"
)

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess3d error"
}
