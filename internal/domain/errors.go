package domain

import "fmt"

// ConfigError reports a required configuration setting that is missing or
// invalid. It is fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("config: missing required setting %s", e.Field)
}

// ValidationError reports caller-supplied payment fields that are missing or
// malformed. The HTTP layer maps it to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// AuthError reports a failed token acquisition. Status and Body carry the
// provider's token endpoint response.
type AuthError struct {
	Status int
	Body   []byte
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("momo: token request failed: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("momo: token request failed: status %d: %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ProviderError carries a MoMo response that could not be treated as success.
// Status and Body are the provider's own, verbatim, so callers can act on
// MoMo-specific error codes. Err is set when a 2xx body could not be parsed.
type ProviderError struct {
	Status int
	Body   []byte
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("momo: provider response: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("momo: provider response: status %d: %s", e.Status, e.Body)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// TimeoutError reports an outbound call that exceeded its budget.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("momo: %s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
