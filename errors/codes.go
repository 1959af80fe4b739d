package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Record access errors
const (
	// ErrCodeMissingField indicates a record has no field with the requested name.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeTypeMismatch indicates a field exists but holds the wrong kind of value.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeUnsupportedShape indicates an input value is neither map, sequence nor scalar.
	ErrCodeUnsupportedShape ErrorCode = "UNSUPPORTED_SHAPE"
)

// Input and configuration errors
const (
	// ErrCodeInvalidInput indicates an argument is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates the configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeDecode indicates an input line could not be decoded.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeIO indicates a read from the input source failed.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Only I/O is worth retrying: everything else is a pure function of its input
// and reproduces the same failure.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeIO: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
