package backend

// Status codes for failures that never reached an HTTP response.
const (
	StatusUnreachable = 0
	StatusTimeout     = 408
)

// GatewayError reports a failed backend call. StatusCode is the HTTP status,
// or 0 (unreachable) / 408 (timed out) for failures with no response. Detail
// carries the server-supplied error message when the backend returned one.
type GatewayError struct {
	StatusCode int
	Detail     string
	message    string
}

func (e *GatewayError) Error() string {
	return e.message
}

func newGatewayError(statusCode int, detail, message string) *GatewayError {
	return &GatewayError{StatusCode: statusCode, Detail: detail, message: message}
}
