package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authorization flow errors
	ErrStateMismatch    = fmt.Errorf("authorization state mismatch")
	ErrInvalidToken     = fmt.Errorf("token exchange failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")

	// Upstream and transport errors
	ErrUpstream         = fmt.Errorf("upstream request failed")
	ErrTimeout          = fmt.Errorf("request timed out")
	ErrNetwork          = fmt.Errorf("network unreachable")
	ErrMalformedPayload = fmt.Errorf("malformed payload")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
