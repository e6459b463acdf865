package api

import "fmt"

// NetworkError means the request never reached the server or produced no
// response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is a 401 from any protected route. The session layer reacts
// by clearing credentials and returning to login.
type AuthError struct {
	Op string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("unauthorized during %s", e.Op)
}

// ValidationError is a client-side required-field or length check failure.
// Nothing was sent to the server.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ServerError is a non-401 error status with whatever message the body
// carried.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d during %s", e.Status, e.Op)
	}
	return fmt.Sprintf("server returned %d during %s: %s", e.Status, e.Op, e.Message)
}
