package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

const (
	MaxUsernameLen = 80
	MaxNoteLen     = 200

	// bcrypt only looks at the first 72 bytes and refuses to hash more
	MaxPasswordBytes = 72
)

// ValidateUsername checks the username is non-empty and at most 80 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("username too long, max %d characters", MaxUsernameLen)
	}
	return nil
}

// ValidatePassword checks the password is non-empty and fits bcrypt's input limit.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is empty")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password too long, max %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateDate only checks presence. The value is stored as given.
func ValidateDate(date string) error {
	if date == "" {
		return fmt.Errorf("date is empty")
	}
	return nil
}

// ValidateNote checks the note length. An empty note is fine.
func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLen {
		return fmt.Errorf("note too long, max %d characters", MaxNoteLen)
	}
	return nil
}

// ParseID parses a non-negative decimal id from a path segment. Numbers too
// large for uint64 saturate to math.MaxUint64, which matches no account.
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxUint, nil
		}
		return 0, fmt.Errorf("invalid id %q", s)
	}
	if id > math.MaxUint {
		return math.MaxUint, nil
	}
	return uint(id), nil
}
