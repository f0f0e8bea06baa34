package router

import (
	"strconv"
	"strings"
)

// Namespace holds the parsed arguments of one invocation and the context
// injected between Parse and Dispatch. It is sealed once Dispatch starts.
type Namespace[C any] struct {
	commandPath []string
	values      map[string][]string
	context     C
	sealed      bool
}

func newNamespace[C any](commandPath []string) *Namespace[C] {
	return &Namespace[C]{
		commandPath: append([]string(nil), commandPath...),
		values:      map[string][]string{},
	}
}

// CommandName returns the resolved command path joined by spaces.
func (namespace *Namespace[C]) CommandName() string {
	return strings.Join(namespace.commandPath, " ")
}

// Has reports whether name holds at least one value.
func (namespace *Namespace[C]) Has(name string) bool {
	return len(namespace.values[name]) > 0
}

// String returns the first value of name, or "".
func (namespace *Namespace[C]) String(name string) string {
	values := namespace.values[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Strings returns every value bound to name.
func (namespace *Namespace[C]) Strings(name string) []string {
	return append([]string(nil), namespace.values[name]...)
}

// Text returns the values of name joined by single spaces.
func (namespace *Namespace[C]) Text(name string) string {
	return strings.Join(namespace.values[name], " ")
}

// Bool reports whether the switch name was set.
func (namespace *Namespace[C]) Bool(name string) bool {
	parsed, parseError := strconv.ParseBool(namespace.String(name))
	return parseError == nil && parsed
}

// Context returns the injected context value.
func (namespace *Namespace[C]) Context() C {
	return namespace.context
}

// Inject adds or overwrites one entry.
func (namespace *Namespace[C]) Inject(name string, values ...string) error {
	if namespace.sealed {
		return ErrNamespaceSealed
	}
	namespace.set(name, values)
	return nil
}

func (namespace *Namespace[C]) set(name string, values []string) {
	if len(values) == 0 {
		delete(namespace.values, name)
		return
	}
	namespace.values[name] = append([]string(nil), values...)
}

func (namespace *Namespace[C]) setContext(value C) error {
	if namespace.sealed {
		return ErrNamespaceSealed
	}
	namespace.context = value
	return nil
}

func (namespace *Namespace[C]) seal() {
	namespace.sealed = true
}
