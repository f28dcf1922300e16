package errors

import (
	"strings"
	"unicode"
)

// ParentID is the reserved id that refers to the container.
const ParentID = "parent"

const maxIDLength = 128

// ValidateID checks a widget id from a scene. Ids are non-empty, at most
// 128 characters, start with a letter or underscore and contain only
// letters, digits, '_' and '-'. The reserved id "parent" is rejected.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScene, "widget id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidScene, "widget id too long (max %d characters)", maxIDLength)
	}
	if id == ParentID {
		return New(ErrCodeInvalidScene, "widget id %q is reserved", id)
	}
	for i, r := range id {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-'):
		default:
			return New(ErrCodeInvalidScene, "widget id %q contains invalid character %q", id, r)
		}
	}
	return nil
}

// ParseRef splits an anchor reference "id.side" such as "parent.left" or
// "title.baseline". The side is returned lower-cased.
func ParseRef(ref string) (id, side string, err error) {
	id, side, ok := strings.Cut(ref, ".")
	if !ok || id == "" || side == "" {
		return "", "", New(ErrCodeInvalidScene, "anchor reference %q must be <id>.<side>", ref)
	}
	if id != ParentID {
		if err := ValidateID(id); err != nil {
			return "", "", err
		}
	}
	return id, strings.ToLower(side), nil
}
