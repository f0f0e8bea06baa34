// Package router maps command lines onto handlers.
//
// Commands form an explicit tree owned by a Router. Parse resolves argv against
// the tree and binds every declared argument into a Namespace, the caller
// injects shared context into it, and Dispatch runs the handler. The cobra and
// pflag machinery used for resolution, flag parsing and usage text is rebuilt
// for every Parse, so no parser state outlives a call.
package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

const (
	unknownCommandFormat    = "unknown command %q"
	unrecognizedFormat      = "unrecognized arguments: %s"
	requiredArgumentFormat  = "the following arguments are required: %s"
	invalidArgumentFormat   = "argument %s: invalid value %q: %v"
	globalPositionalMessage = "global argument %q must be a flag"
)

// Result is what a handler reports: the process exit code and whether the
// caller should persist or refresh local state.
type Result struct {
	ExitCode     int
	StateChanged bool
}

// Handler runs one command.
type Handler[C any] func(namespace *Namespace[C]) (Result, error)

// Command is a node of the command tree. Nodes without a handler group their children.
type Command[C any] struct {
	Name      string
	Help      string
	Arguments []ArgumentSpec
	Handler   Handler[C]

	parent   *Command[C]
	children []*Command[C]
	implicit bool
}

// Path returns the command names from below the root down to command.
func (command *Command[C]) Path() []string {
	var path []string
	for node := command; node != nil && node.parent != nil; node = node.parent {
		path = append([]string{node.Name}, path...)
	}
	return path
}

// Child returns the direct child called name, or nil.
func (command *Command[C]) Child(name string) *Command[C] {
	for _, child := range command.children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Router owns a command tree and the global arguments shared by all commands.
type Router[C any] struct {
	root    *Command[C]
	globals []ArgumentSpec
}

// New creates a router whose root command is called name.
func New[C any](name string, help string) *Router[C] {
	return &Router[C]{root: &Command[C]{Name: name, Help: help}}
}

// Root returns the root command.
func (router *Router[C]) Root() *Command[C] {
	return router.root
}

// RegisterGlobal declares a flag accepted before or after any command name.
func (router *Router[C]) RegisterGlobal(spec ArgumentSpec) error {
	if spec.Kind == KindPositional {
		return &ConfigError{Message: fmt.Sprintf(globalPositionalMessage, spec.Name)}
	}
	if conflictError := checkArgumentConflicts(router.root.Name, append(append([]ArgumentSpec(nil), router.globals...), spec)); conflictError != nil {
		return conflictError
	}
	router.globals = append(router.globals, spec)
	return nil
}

// Register inserts a command at path, creating missing intermediate nodes as
// grouping commands. Registering a sibling name twice fails with *ConfigError.
func (router *Router[C]) Register(path []string, help string, specs []ArgumentSpec, handler Handler[C]) (*Command[C], error) {
	if len(path) == 0 {
		return nil, &ConfigError{Message: invalidPathMessage}
	}
	if conflictError := checkArgumentConflicts(strings.Join(path, " "), append(append([]ArgumentSpec(nil), router.globals...), specs...)); conflictError != nil {
		return nil, conflictError
	}
	node := router.root
	for _, name := range path[:len(path)-1] {
		child := node.Child(name)
		if child == nil {
			child = &Command[C]{Name: name, parent: node, implicit: true}
			node.children = append(node.children, child)
		}
		node = child
	}
	leafName := path[len(path)-1]
	if existing := node.Child(leafName); existing != nil {
		if !existing.implicit {
			return nil, &ConfigError{Message: fmt.Sprintf(duplicateCommandFormat, leafName, node.Name)}
		}
		existing.Help = help
		existing.Arguments = specs
		existing.Handler = handler
		existing.implicit = false
		return existing, nil
	}
	leaf := &Command[C]{Name: leafName, Help: help, Arguments: specs, Handler: handler, parent: node}
	node.children = append(node.children, leaf)
	return leaf, nil
}

// Parse resolves the longest command path in argv and binds global and
// command arguments. -h/--help yields ErrHelp together with the resolved command.
func (router *Router[C]) Parse(argv []string) (*Namespace[C], *Command[C], error) {
	tree := router.materialize()
	cobraCommand, remaining, findError := tree.root.Find(argv)
	if findError != nil {
		return nil, router.root, newParseError([]string{router.root.Name}, findError, "%v", findError)
	}
	command := tree.commands[cobraCommand]
	displayPath := append([]string{router.root.Name}, command.Path()...)

	if flagError := cobraCommand.ParseFlags(remaining); flagError != nil {
		return nil, command, newParseError(displayPath, flagError, "%v", flagError)
	}
	if tree.help.set && tree.help.value == switchFlagTrueLiteral {
		return nil, command, ErrHelp
	}
	if groupError := cobraCommand.ValidateFlagGroups(); groupError != nil {
		return nil, command, newParseError(displayPath, groupError, "%v", groupError)
	}

	positionalArguments := cobraCommand.Flags().Args()
	if len(command.children) > 0 && len(positionalArguments) > 0 {
		return nil, command, newParseError(displayPath, nil, unknownCommandFormat, positionalArguments[0])
	}
	bound, bindError := bindPositionals(command.Arguments, positionalArguments)
	if bindError != nil {
		return nil, command, newParseError(displayPath, bindError, "%v", bindError)
	}

	namespace := newNamespace[C](command.Path())
	for _, binding := range tree.globals {
		namespace.set(binding.spec.Name, binding.value.values())
	}
	for _, binding := range tree.bindings[cobraCommand] {
		namespace.set(binding.spec.Name, binding.value.values())
	}
	for name, values := range bound {
		namespace.set(name, values)
	}
	return namespace, command, nil
}

// InjectContext stores the shared context handlers receive.
func (router *Router[C]) InjectContext(namespace *Namespace[C], value C) error {
	return namespace.setContext(value)
}

// Dispatch seals namespace and runs the handler of leaf. A command without a
// handler yields a zero Result and ErrNoCommand.
func (router *Router[C]) Dispatch(namespace *Namespace[C], leaf *Command[C]) (Result, error) {
	if namespace != nil {
		namespace.seal()
	}
	if leaf == nil || leaf.Handler == nil {
		return Result{}, ErrNoCommand
	}
	return leaf.Handler(namespace)
}

// Usage renders the help text of command; nil renders the root.
func (router *Router[C]) Usage(command *Command[C]) string {
	tree := router.materialize()
	if command == nil {
		return tree.root.UsageString()
	}
	cobraCommand, _, findError := tree.root.Find(command.Path())
	if findError != nil {
		return tree.root.UsageString()
	}
	return cobraCommand.UsageString()
}

type flagBinding struct {
	spec  ArgumentSpec
	value *flagValue
}

type parseTree[C any] struct {
	root     *cobra.Command
	commands map[*cobra.Command]*Command[C]
	bindings map[*cobra.Command][]flagBinding
	globals  []flagBinding
	help     *flagValue
}

func (router *Router[C]) materialize() *parseTree[C] {
	tree := &parseTree[C]{
		commands: map[*cobra.Command]*Command[C]{},
		bindings: map[*cobra.Command][]flagBinding{},
	}
	tree.root = tree.build(router.root)
	persistentFlags := tree.root.PersistentFlags()
	tree.help = registerFlag(persistentFlags, Switch(helpFlagName, helpFlagShorthand, helpFlagUsage))
	for _, spec := range router.globals {
		tree.globals = append(tree.globals, flagBinding{spec: spec, value: registerFlag(persistentFlags, spec)})
	}
	return tree
}

func (tree *parseTree[C]) build(command *Command[C]) *cobra.Command {
	cobraCommand := &cobra.Command{
		Use:           useLine(command),
		Short:         command.Help,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	if command.Handler != nil {
		// Marks the command runnable so usage lists it; handlers run through Dispatch.
		cobraCommand.Run = func(*cobra.Command, []string) {}
	}
	exclusiveGroups := map[string][]string{}
	for _, spec := range command.Arguments {
		if spec.Kind == KindPositional {
			continue
		}
		value := registerFlag(cobraCommand.Flags(), spec)
		tree.bindings[cobraCommand] = append(tree.bindings[cobraCommand], flagBinding{spec: spec, value: value})
		if spec.Exclusive != "" {
			exclusiveGroups[spec.Exclusive] = append(exclusiveGroups[spec.Exclusive], spec.Long)
		}
	}
	groupNames := make([]string, 0, len(exclusiveGroups))
	for groupName := range exclusiveGroups {
		groupNames = append(groupNames, groupName)
	}
	sort.Strings(groupNames)
	for _, groupName := range groupNames {
		if flagNames := exclusiveGroups[groupName]; len(flagNames) > 1 {
			cobraCommand.MarkFlagsMutuallyExclusive(flagNames...)
		}
	}
	for _, child := range command.children {
		cobraCommand.AddCommand(tree.build(child))
	}
	tree.commands[cobraCommand] = command
	return cobraCommand
}

func useLine[C any](command *Command[C]) string {
	tokens := []string{command.Name}
	for _, spec := range command.Arguments {
		if spec.Kind == KindPositional {
			tokens = append(tokens, spec.usageToken())
		}
	}
	return strings.Join(tokens, " ")
}

// bindPositionals assigns arguments left to right. A variadic positional
// leaves enough values for the required positionals after it.
func bindPositionals(specs []ArgumentSpec, arguments []string) (map[string][]string, error) {
	var positionals []ArgumentSpec
	for _, spec := range specs {
		if spec.Kind == KindPositional {
			positionals = append(positionals, spec)
		}
	}
	bound := map[string][]string{}
	remaining := arguments
	for index, spec := range positionals {
		reserved := 0
		for _, later := range positionals[index+1:] {
			reserved += later.minimum()
		}
		available := len(remaining) - reserved
		if available < 0 {
			available = 0
		}
		take := available
		switch spec.Arity {
		case ArityOne:
			take = 1
		case ArityOptional:
			if take > 1 {
				take = 1
			}
		}
		if take < spec.minimum() || take > len(remaining) {
			return nil, fmt.Errorf(requiredArgumentFormat, spec.Name)
		}
		values := make([]string, 0, take)
		for _, raw := range remaining[:take] {
			coerced, coercionError := spec.coerce(raw)
			if coercionError != nil {
				return nil, fmt.Errorf(invalidArgumentFormat, spec.Name, raw, coercionError)
			}
			values = append(values, coerced)
		}
		remaining = remaining[take:]
		if len(values) == 0 && spec.Default != "" {
			values = []string{spec.Default}
		}
		bound[spec.Name] = values
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf(unrecognizedFormat, strings.Join(remaining, " "))
	}
	return bound, nil
}

func checkArgumentConflicts(owner string, specs []ArgumentSpec) error {
	names := map[string]struct{}{}
	flags := map[string]struct{}{helpFlagName: {}, helpFlagShorthand: {}}
	for _, spec := range specs {
		if _, duplicate := names[spec.Name]; duplicate {
			return &ConfigError{Message: fmt.Sprintf(duplicateArgumentFormat, spec.Name, owner)}
		}
		names[spec.Name] = struct{}{}
		if spec.Kind == KindPositional {
			continue
		}
		for _, flagName := range []string{spec.Long, spec.Short} {
			if flagName == "" {
				continue
			}
			if _, duplicate := flags[flagName]; duplicate {
				return &ConfigError{Message: fmt.Sprintf(duplicateArgumentFormat, flagName, owner)}
			}
			flags[flagName] = struct{}{}
		}
	}
	return nil
}
