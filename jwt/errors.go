package jwt

import (
	"errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrVerificationFailed is returned when no key of the set verifies a
	// token. It deliberately carries no detail about which keys were tried.
	ErrVerificationFailed = errors.New("jwt: verification failed")

	// ErrTokenInvalid marks content-validation failures: the signature
	// checked out under some key, but the token itself is not acceptable
	// (expired, not yet valid, wrong issuer or audience). Matched via
	// errors.Is against the returned *ValidationError.
	ErrTokenInvalid = errors.New("jwt: invalid token")

	// ErrUnsupportedPrefix is returned at wrap time when a JWT keyset
	// contains a key whose prefix convention is neither raw nor standard.
	// JWTs carry key identity in the kid header, not in output bytes, so
	// only those two conventions are meaningful.
	ErrUnsupportedPrefix = errors.New("jwt: unsupported prefix type for JWT keys")
)

// ValidationError reports a content-validation failure. It is distinguished
// from ErrVerificationFailed so that a caller learns "the signature was
// fine, but the token is expired" when verification got that far on any
// candidate key.
type ValidationError struct {
	// Err is the underlying validation failure.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("jwt: token validation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrTokenInvalid
}

// contentValidationSentinels are the parse failures that mean the token was
// cryptographically sound but unacceptable in content.
var contentValidationSentinels = []error{
	jwtlib.ErrTokenExpired,
	jwtlib.ErrTokenNotValidYet,
	jwtlib.ErrTokenUsedBeforeIssued,
	jwtlib.ErrTokenInvalidIssuer,
	jwtlib.ErrTokenInvalidAudience,
	jwtlib.ErrTokenInvalidSubject,
	jwtlib.ErrTokenRequiredClaimMissing,
}

// classifyParseError wraps content-validation failures in *ValidationError
// and passes everything else (signature mismatch, malformed token, kid
// mismatch) through to be swallowed by the candidate loop.
func classifyParseError(err error) error {
	for _, sentinel := range contentValidationSentinels {
		if errors.Is(err, sentinel) {
			return &ValidationError{Err: err}
		}
	}
	return err
}
