package auth

import "github.com/goliatone/go-errors"

const (
	// TextCodeEmailTaken marks a signup against an already registered email
	TextCodeEmailTaken = "EMAIL_TAKEN"
	// TextCodeInvalidCredentials marks a failed login
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// TextCodeUnauthenticated marks a request without a usable identity
	TextCodeUnauthenticated = "UNAUTHENTICATED"
	// TextCodeTokenExpired marks an expired bearer token
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenMalformed marks an unparseable or mis-signed token
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeNotResourceOwner marks a mutation attempt by a non-owner
	TextCodeNotResourceOwner = "NOT_RESOURCE_OWNER"
	// TextCodeEmptyPassword marks an empty password input
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
)

// ErrEmailTaken is returned when a signup hits the email uniqueness
// constraint. It is a distinct kind so callers can tell it apart from a
// generic persistence failure.
var ErrEmailTaken = errors.New("Email already registered", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrInvalidCredentials is the single failure branch for login. Unknown
// email and wrong password both collapse into it so responses cannot be
// used to enumerate registered accounts.
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeInvalidCredentials)

// ErrUnauthenticated covers every way a request can fail to prove an
// identity: missing/malformed/expired token, a subject that no longer
// exists, or a failed reauthentication password check.
var ErrUnauthenticated = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeUnauthenticated)

// ErrTokenExpired is surfaced by the token service; the auth gate collapses
// it into ErrUnauthenticated before it reaches a client.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers bad structure and signature mismatch alike.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrNotResourceOwner is the ownership enforcer's deny result.
var ErrNotResourceOwner = errors.New("you are not the owner of this resource", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeNotResourceOwner)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch error.
var ErrMismatchedHashAndPassword = errors.New("password does not match stored hash", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
