// Package common contains shared constants and sentinel errors used across
// paneldesk components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer access
// token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// PageSizeAll is the reserved page-size sentinel meaning "return everything".
// The backend treats it as an effectively unbounded page; the client pins the
// published pagination state to page 1 of 1 while it is in effect.
const PageSizeAll = 1000
