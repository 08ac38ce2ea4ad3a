package media

// Error represents a media pipeline error
type Error struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeConfig     = "CONFIG_INVALID"
	ErrCodeMediaIO    = "MEDIA_IO"
	ErrCodeSampleRate = "BAD_SAMPLE_RATE"
	ErrCodeDecoding   = "DECODE_FAILED"
	ErrCodeAlignment  = "ALIGNMENT_VIOLATION"
)

// NewError creates a new media error
func NewError(code, path, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}
