package repositories

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
)

// ConflictError reports a uniqueness violation and which user-facing field
// collided. It is part of the registration contract, not an internal detail.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// constraint name -> user-facing field
var conflictFields = map[string]string{
	"users_username_key": "username",
	"users_mail_key":     "mail",
}

// mapConflict converts a postgres unique-violation into a ConflictError,
// identified by the constraint that fired. Any other error passes through.
func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if field, ok := conflictFields[pqErr.Constraint]; ok {
			return &ConflictError{Field: field}
		}
		return &ConflictError{Field: pqErr.Constraint}
	}
	return err
}
