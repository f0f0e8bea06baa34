package commands

import (
	"fmt"
)

const (
	exitSuccess  = 0
	exitFailure  = 1
	exitNotFound = 127
)

// NamedSearchNotFoundError reports a search name absent from configuration.
type NamedSearchNotFoundError struct {
	Name string
}

func (notFound *NamedSearchNotFoundError) Error() string {
	return fmt.Sprintf("no search configured: %s", notFound.Name)
}
