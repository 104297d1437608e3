package ledger

import "errors"

// Kind classifies failures so the HTTP layer can pick a status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a client-facing failure. Message is safe to return to callers.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

const (
	MsgCredentialsRequired = "Username and password are required"
	MsgUsernameTooLong     = "Username must be at most 80 characters"
	MsgPasswordTooLong     = "Password must be at most 72 bytes"
	MsgUsernameTaken       = "Username already exists"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgUserNotFound        = "User not found"
	MsgDateRequired        = "Date is required"
	MsgNoteTooLong         = "Note must be at most 200 characters"
	MsgInvalidInput        = "Invalid input"
)

// The sentinels below are errors.Is targets. Each still carries a message in
// case one is returned as is.
var (
	ErrValidation = &Error{Kind: KindValidation, Message: MsgInvalidInput}
	ErrConflict   = &Error{Kind: KindConflict, Message: MsgUsernameTaken}
	ErrAuth       = &Error{Kind: KindAuth, Message: MsgInvalidCredentials}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: MsgUserNotFound}
)

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf returns the Kind of err, or 0 if err is not a ledger error.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
