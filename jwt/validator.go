package jwt

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Validator holds the content checks applied to a token after its signature
// or MAC has been verified. A nil *Validator applies only the default time
// checks (exp and nbf when present).
type Validator struct {
	expectedIssuer   string
	expectedAudience string
	leeway           time.Duration
	timeFunc         func() time.Time
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithExpectedIssuer requires the iss claim to equal issuer.
func WithExpectedIssuer(issuer string) ValidatorOption {
	return func(v *Validator) {
		v.expectedIssuer = issuer
	}
}

// WithExpectedAudience requires the aud claim to contain audience.
func WithExpectedAudience(audience string) ValidatorOption {
	return func(v *Validator) {
		v.expectedAudience = audience
	}
}

// WithLeeway allows clock skew of up to d when checking time claims.
func WithLeeway(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		v.leeway = d
	}
}

// WithTimeFunc overrides the clock used for time claims. Intended for tests.
func WithTimeFunc(f func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.timeFunc = f
	}
}

// NewValidator creates a Validator from the given options.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// parserOptions translates the validator into parser options for tokens
// signed with the given algorithm. Works on a nil receiver.
func (v *Validator) parserOptions(alg string) []jwtlib.ParserOption {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{alg}),
	}
	if v == nil {
		return opts
	}
	if v.expectedIssuer != "" {
		opts = append(opts, jwtlib.WithIssuer(v.expectedIssuer))
	}
	if v.expectedAudience != "" {
		opts = append(opts, jwtlib.WithAudience(v.expectedAudience))
	}
	if v.leeway > 0 {
		opts = append(opts, jwtlib.WithLeeway(v.leeway))
	}
	if v.timeFunc != nil {
		opts = append(opts, jwtlib.WithTimeFunc(v.timeFunc))
	}
	return opts
}
