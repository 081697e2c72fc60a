package auth

import (
	"fmt"
	"strings"
)

// Error is an identity store failure identified by a stable code such as
// "auth/user-not-found" or "auth/email-already-exists".
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches ErrUserNotFound by code and ErrAlreadyExists for every
// uniqueness violation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == ErrAlreadyExists {
		return strings.HasSuffix(e.Code, alreadyExistsSuffix)
	}
	return e.Code == t.Code
}

const alreadyExistsSuffix = "-already-exists"

var (
	// ErrUserNotFound is returned when no record matches the identifier.
	ErrUserNotFound = &Error{
		Code:    "auth/user-not-found",
		Message: "There is no existing user record corresponding to the provided identifier",
	}

	// ErrAlreadyExists matches any error raised because a unique property is
	// already used by another record.
	ErrAlreadyExists = &Error{Code: "auth/already-exists", Message: "unique property already in use"}

	// ErrInvalidToken is returned when a custom token fails verification.
	ErrInvalidToken = &Error{Code: "auth/invalid-custom-token", Message: "The custom token is invalid"}

	// ErrInvalidArgument is returned for malformed input such as an empty uid.
	ErrInvalidArgument = &Error{Code: "auth/invalid-argument", Message: "invalid argument"}
)

func alreadyExists(property, value string) *Error {
	return &Error{
		Code:    "auth/" + kebab(property) + alreadyExistsSuffix,
		Message: fmt.Sprintf("The provided %s %q is already in use by an existing user", property, value),
	}
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Code: ErrInvalidArgument.Code, Message: fmt.Sprintf(format, args...)}
}

func invalidToken(err error) *Error {
	return &Error{Code: ErrInvalidToken.Code, Message: err.Error()}
}

// kebab turns a camelCase property name into its kebab-case form.
func kebab(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
