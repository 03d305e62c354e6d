package jwt

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// registeredClaimNames are the RFC 7519 claims carried in dedicated Claims
// fields; everything else round-trips through Custom.
var registeredClaimNames = map[string]bool{
	"iss": true, "sub": true, "aud": true,
	"exp": true, "nbf": true, "iat": true, "jti": true,
}

// Claims is the payload of a token: the registered RFC 7519 claims plus
// arbitrary custom claims.
type Claims struct {
	// Issuer is the iss claim, empty when absent.
	Issuer string
	// Subject is the sub claim, empty when absent.
	Subject string
	// ID is the jti claim, empty when absent.
	ID string
	// Audience is the aud claim; a single-element slice encodes as a plain
	// string.
	Audience []string
	// ExpiresAt is the exp claim, nil when absent.
	ExpiresAt *time.Time
	// NotBefore is the nbf claim, nil when absent.
	NotBefore *time.Time
	// IssuedAt is the iat claim, nil when absent.
	IssuedAt *time.Time
	// Custom holds all non-registered claims.
	Custom map[string]any
}

// toMapClaims converts to the wire representation.
func (c *Claims) toMapClaims() jwtlib.MapClaims {
	mc := jwtlib.MapClaims{}
	for k, v := range c.Custom {
		if !registeredClaimNames[k] {
			mc[k] = v
		}
	}
	if c.Issuer != "" {
		mc["iss"] = c.Issuer
	}
	if c.Subject != "" {
		mc["sub"] = c.Subject
	}
	if c.ID != "" {
		mc["jti"] = c.ID
	}
	switch len(c.Audience) {
	case 0:
	case 1:
		mc["aud"] = c.Audience[0]
	default:
		mc["aud"] = c.Audience
	}
	if c.ExpiresAt != nil {
		mc["exp"] = jwtlib.NewNumericDate(*c.ExpiresAt)
	}
	if c.NotBefore != nil {
		mc["nbf"] = jwtlib.NewNumericDate(*c.NotBefore)
	}
	if c.IssuedAt != nil {
		mc["iat"] = jwtlib.NewNumericDate(*c.IssuedAt)
	}
	return mc
}

// claimsFromMapClaims converts a parsed token payload back to Claims.
func claimsFromMapClaims(mc jwtlib.MapClaims) (*Claims, error) {
	c := &Claims{}
	var err error
	if c.Issuer, err = mc.GetIssuer(); err != nil {
		return nil, err
	}
	if c.Subject, err = mc.GetSubject(); err != nil {
		return nil, err
	}
	aud, err := mc.GetAudience()
	if err != nil {
		return nil, err
	}
	if len(aud) > 0 {
		c.Audience = aud
	}
	if exp, err := mc.GetExpirationTime(); err != nil {
		return nil, err
	} else if exp != nil {
		c.ExpiresAt = &exp.Time
	}
	if nbf, err := mc.GetNotBefore(); err != nil {
		return nil, err
	} else if nbf != nil {
		c.NotBefore = &nbf.Time
	}
	if iat, err := mc.GetIssuedAt(); err != nil {
		return nil, err
	} else if iat != nil {
		c.IssuedAt = &iat.Time
	}
	if jti, ok := mc["jti"].(string); ok {
		c.ID = jti
	}
	for k, v := range mc {
		if registeredClaimNames[k] {
			continue
		}
		if c.Custom == nil {
			c.Custom = make(map[string]any)
		}
		c.Custom[k] = v
	}
	return c, nil
}
