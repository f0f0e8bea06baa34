package tracker

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports an issue, comment or other target the tracker does not know.
type NotFoundError struct {
	Kind string
	Key  string
}

func (notFound *NotFoundError) Error() string {
	kind := notFound.Kind
	if kind == "" {
		kind = "issue"
	}
	return fmt.Sprintf("no such %s: %s", kind, notFound.Key)
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (notFound *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound constructs an issue NotFoundError.
func NewNotFound(key string) error {
	return &NotFoundError{Kind: "issue", Key: key}
}
