package bands

// EngineError represents band-engine errors
type EngineError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidDesign        = "INVALID_DESIGN"
	ErrCodeInsufficientData     = "INSUFFICIENT_DATA"
	ErrCodeMalformedInput       = "MALFORMED_INPUT"
	ErrCodeChannelCountMismatch = "CHANNEL_COUNT_MISMATCH"
)

// NewEngineError creates a new engine error
func NewEngineError(code, message string, cause error) *EngineError {
	return &EngineError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
