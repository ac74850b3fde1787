// Package common contains shared constants and sentinel errors used across
// auth service components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the session
// token on requests to protected endpoints.
const AuthorizationHeaderName = "Authorization"

// BearerSchemePrefix is the expected prefix of the Authorization header
// value, followed by the signed session token.
const BearerSchemePrefix = "Bearer "
