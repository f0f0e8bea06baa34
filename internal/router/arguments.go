package router

import (
	"strconv"
	"strings"
)

// ArgumentKind distinguishes switches, valued options and positionals.
type ArgumentKind int

const (
	// KindSwitch is a boolean flag.
	KindSwitch ArgumentKind = iota
	// KindOption is a flag taking one value.
	KindOption
	// KindPositional is bound from the arguments left after flag parsing.
	KindPositional
)

// Arity is the number of values a positional accepts.
type Arity int

const (
	// ArityOne takes exactly one value.
	ArityOne Arity = iota
	// ArityOptional takes zero or one value.
	ArityOptional
	// ArityOneOrMore takes at least one value.
	ArityOneOrMore
	// ArityZeroOrMore takes any number of values.
	ArityZeroOrMore
)

// Coercion normalizes or validates one raw value.
type Coercion func(string) (string, error)

// Uppercase coerces values to upper case.
func Uppercase(value string) (string, error) {
	return strings.ToUpper(value), nil
}

// Integer accepts only base-10 integers.
func Integer(value string) (string, error) {
	if _, conversionError := strconv.Atoi(value); conversionError != nil {
		return "", conversionError
	}
	return value, nil
}

// ArgumentSpec declares one argument of a command. Values are stored in the
// namespace under Name.
type ArgumentSpec struct {
	Name      string
	Long      string
	Short     string
	Help      string
	Kind      ArgumentKind
	Arity     Arity
	Default   string
	Coerce    Coercion
	Exclusive string
	Metavar   string
}

// Switch declares a boolean flag --name (and -short when given).
func Switch(name string, short string, help string) ArgumentSpec {
	return ArgumentSpec{Name: name, Long: flagName(name), Short: short, Help: help, Kind: KindSwitch}
}

// Option declares a flag --name taking a value.
func Option(name string, short string, help string) ArgumentSpec {
	return ArgumentSpec{Name: name, Long: flagName(name), Short: short, Help: help, Kind: KindOption}
}

// Positional declares a positional argument.
func Positional(name string, arity Arity, help string) ArgumentSpec {
	return ArgumentSpec{Name: name, Help: help, Kind: KindPositional, Arity: arity}
}

// WithDefault sets the value used when the argument is absent.
func (spec ArgumentSpec) WithDefault(value string) ArgumentSpec {
	spec.Default = value
	return spec
}

// WithCoercion applies coerce to every value.
func (spec ArgumentSpec) WithCoercion(coerce Coercion) ArgumentSpec {
	spec.Coerce = coerce
	return spec
}

// InGroup places the flag in a mutually exclusive group.
func (spec ArgumentSpec) InGroup(group string) ArgumentSpec {
	spec.Exclusive = group
	return spec
}

// WithMetavar sets the value placeholder shown in usage.
func (spec ArgumentSpec) WithMetavar(metavar string) ArgumentSpec {
	spec.Metavar = metavar
	return spec
}

func (spec ArgumentSpec) coerce(value string) (string, error) {
	if spec.Coerce == nil {
		return value, nil
	}
	return spec.Coerce(value)
}

func (spec ArgumentSpec) minimum() int {
	switch spec.Arity {
	case ArityOne, ArityOneOrMore:
		return 1
	default:
		return 0
	}
}

// usageToken renders a positional the way argparse does: name, [name], name..., [name...].
func (spec ArgumentSpec) usageToken() string {
	name := spec.Name
	if spec.Metavar != "" {
		name = spec.Metavar
	}
	switch spec.Arity {
	case ArityOptional:
		return "[" + name + "]"
	case ArityOneOrMore:
		return name + "..."
	case ArityZeroOrMore:
		return "[" + name + "...]"
	default:
		return name
	}
}

func flagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
