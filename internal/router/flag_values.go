package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	switchFlagTypeName               = "bool"
	optionFlagTypeName               = "string"
	switchFlagTrueLiteral            = "true"
	switchFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	switchFlagInvalidValueErrorLabel = "invalid boolean value"
	helpFlagName                     = "help"
	helpFlagShorthand                = "h"
	helpFlagUsage                    = "show help for the command"
)

var switchFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// flagValue is the pflag.Value behind every declared flag. Switches accept
// the usual boolean spellings; options run the declared coercion.
type flagValue struct {
	spec  ArgumentSpec
	value string
	set   bool
}

func newFlagValue(spec ArgumentSpec) *flagValue {
	value := &flagValue{spec: spec, value: spec.Default}
	if spec.Kind == KindSwitch && value.value == "" {
		value.value = strconv.FormatBool(false)
	}
	return value
}

func (value *flagValue) Set(input string) error {
	if value.spec.Kind == KindSwitch {
		normalized := strings.ToLower(strings.TrimSpace(input))
		if normalized == "" {
			normalized = switchFlagTrueLiteral
		}
		parsed, known := switchFlagLiterals[normalized]
		if !known {
			return fmt.Errorf("%s %q for --%s; accepted values: %s", switchFlagInvalidValueErrorLabel, input, value.spec.Long, switchFlagAcceptedValuesListing)
		}
		value.value = strconv.FormatBool(parsed)
		value.set = true
		return nil
	}
	coerced, coercionError := value.spec.coerce(input)
	if coercionError != nil {
		return fmt.Errorf("invalid value %q: %w", input, coercionError)
	}
	value.value = coerced
	value.set = true
	return nil
}

func (value *flagValue) String() string {
	return value.value
}

func (value *flagValue) Type() string {
	if value.spec.Kind == KindSwitch {
		return switchFlagTypeName
	}
	return optionFlagTypeName
}

// values returns what the namespace stores: nothing for an unset option without default.
func (value *flagValue) values() []string {
	if value.value == "" {
		return nil
	}
	return []string{value.value}
}

func registerFlag(flagSet *pflag.FlagSet, spec ArgumentSpec) *flagValue {
	value := newFlagValue(spec)
	flag := flagSet.VarPF(value, spec.Long, spec.Short, spec.Help)
	if spec.Kind == KindSwitch {
		flag.DefValue = strconv.FormatBool(false)
		flag.NoOptDefVal = switchFlagTrueLiteral
	}
	return value
}
