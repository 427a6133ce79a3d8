package hub

import "errors"

// Authentication failure reasons. These are safe to log and to return in
// error bodies; they never include secret or digest material.
const (
	ReasonSecretUnresolved  = "secret unresolved"
	ReasonHeaderMissing     = "header missing"
	ReasonMalformedHeader   = "malformed header"
	ReasonBadEncoding       = "bad encoding"
	ReasonSignatureMismatch = "signature mismatch"
)

// ErrInvalidArgument indicates a malformed call-level input, such as a
// receiver constructed without its collaborators.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrBadHandshake indicates a GET handshake with a wrong mode or verify
// token. The challenge is never echoed in this case.
var ErrBadHandshake = errors.New("handshake rejected")

// AuthError is a verification failure. Reason is one of the Reason*
// constants; the cause (if any) carries decode context for logs only.
type AuthError struct {
	Reason string
	cause  error
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.cause
}

func authErr(reason string, cause error) *AuthError {
	return &AuthError{Reason: reason, cause: cause}
}
