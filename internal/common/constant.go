package common

const (
	// AuthorizationHeaderName carries the bearer credential on REST and
	// WebSocket handshake requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates client log lines with server logs.
	RequestIDHeaderName = "X-Request-ID"
)
