// Package trackertest provides an in-memory tracker.Project for tests.
package trackertest

import (
	"fmt"
	"sync"
)

// Sequence hands out issue keys PREFIX-1, PREFIX-2, ... for one fixture project.
type Sequence struct {
	mutex  sync.Mutex
	prefix string
	next   int
}

// NewSequence starts a key sequence at start.
func NewSequence(prefix string, start int) *Sequence {
	return &Sequence{prefix: prefix, next: start}
}

// Next returns the next key.
func (sequence *Sequence) Next() string {
	sequence.mutex.Lock()
	defer sequence.mutex.Unlock()
	key := fmt.Sprintf("%s-%d", sequence.prefix, sequence.next)
	sequence.next++
	return key
}
