package domain

import "errors"

var (
	// Credential store failures.
	ErrCredentialNotFound   = errors.New("credential not found")
	ErrAuthenticationDenied = errors.New("credential store authentication denied")

	// Token service failures.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrMalformedResponse   = errors.New("malformed server response")
	ErrNoStoredCredentials = errors.New("no stored credentials")

	// Timetable fetch failures.
	ErrUnauthorized = errors.New("request not authorized")

	// Token payload is not three dot-separated base64url segments of JSON.
	ErrTokenDecode = errors.New("token payload not decodable")
)
