// internal/app/system/syncapi/errors.go
package syncapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Generic texts shown to operators when the server gave no usable message.
const (
	MsgNetwork = "Could not reach the sync server. Check the connection and try again."
	MsgGeneric = "Something went wrong. Please try again."
)

// ErrTwoFactorRequired is returned by Login when the server accepted the
// password but wants a second factor before issuing a token.
var ErrTwoFactorRequired = errors.New("two-factor sign-in is not supported by this console")

// APIError is a non-2xx response from the sync server.
// Message is the server's "error" field, or the status text when absent.
// Body holds a plain-text excerpt of a response that was not the server's
// JSON error, for logs only.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sync server returned %d: %s", e.Status, e.Message)
}

// NetworkError means the request never produced a response: DNS, connect,
// TLS, timeout or a body that could not be read.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// AsAPI returns the APIError in err's chain, if any.
func AsAPI(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if ae, ok := AsAPI(err); ok {
		return ae.Status
	}
	return 0
}

// Message maps err to the text an operator should see.
// Server messages pass through verbatim; transport failures get a generic
// notice; anything else falls back to MsgGeneric.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if ae, ok := AsAPI(err); ok {
		if ae.Message != "" {
			return ae.Message
		}
		return http.StatusText(ae.Status)
	}
	if IsNetwork(err) {
		return MsgNetwork
	}
	if errors.Is(err, ErrTwoFactorRequired) {
		return ErrTwoFactorRequired.Error()
	}
	return MsgGeneric
}
