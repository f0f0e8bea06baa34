package router_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/temirov/jirate/internal/router"
)

type testContext struct {
	Label string
}

const (
	projectArgumentName = "project"
	issueArgumentName   = "issue"
	targetArgumentName  = "target"
	textArgumentName    = "text"
)

func newTestRouter(testingInstance *testing.T) (*router.Router[testContext], *[]string) {
	testingInstance.Helper()
	var invoked []string
	commandRouter := router.New[testContext]("jirate", "test router")
	if globalError := commandRouter.RegisterGlobal(router.Option(projectArgumentName, "p", "project key").WithCoercion(router.Uppercase)); globalError != nil {
		testingInstance.Fatalf("register global: %v", globalError)
	}

	record := func(name string, result router.Result) router.Handler[testContext] {
		return func(namespace *router.Namespace[testContext]) (router.Result, error) {
			invoked = append(invoked, name)
			return result, nil
		}
	}
	registrations := []struct {
		path    []string
		specs   []router.ArgumentSpec
		handler router.Handler[testContext]
	}{
		{
			path: []string{"ls"},
			specs: []router.ArgumentSpec{
				router.Switch("mine", "m", "only mine").InGroup("user"),
				router.Switch("unassigned", "U", "only unassigned").InGroup("user"),
				router.Option("user", "u", "only this user").InGroup("user"),
				router.Positional("status", router.ArityOptional, "status filter"),
			},
			handler: record("ls", router.Result{ExitCode: 0, StateChanged: true}),
		},
		{
			path: []string{"mv"},
			specs: []router.ArgumentSpec{
				router.Positional(issueArgumentName, router.ArityOneOrMore, "issues"),
				router.Positional(targetArgumentName, router.ArityOne, "target state"),
			},
			handler: record("mv", router.Result{}),
		},
		{
			path: []string{"link"},
			specs: []router.ArgumentSpec{
				router.Positional("issue_left", router.ArityOne, "left"),
				router.Positional(textArgumentName, router.ArityOneOrMore, "relation"),
				router.Positional("issue_right", router.ArityOne, "right"),
			},
			handler: record("link", router.Result{}),
		},
		{
			path: []string{"new"},
			specs: []router.ArgumentSpec{
				router.Option("type", "t", "issue type").WithDefault("Task"),
				router.Switch("quiet", "q", "print only the key"),
				router.Positional(textArgumentName, router.ArityZeroOrMore, "summary"),
			},
			handler: record("new", router.Result{ExitCode: 0}),
		},
		{
			path:    []string{"cat"},
			specs:   []router.ArgumentSpec{router.Positional(issueArgumentName, router.ArityOneOrMore, "issues").WithCoercion(router.Uppercase)},
			handler: record("cat", router.Result{ExitCode: 127}),
		},
		{
			path:    []string{"admin", "reindex"},
			specs:   []router.ArgumentSpec{router.Option("limit", "", "batch size").WithCoercion(router.Integer)},
			handler: record("admin reindex", router.Result{}),
		},
	}
	for _, registration := range registrations {
		if _, registerError := commandRouter.Register(registration.path, "help", registration.specs, registration.handler); registerError != nil {
			testingInstance.Fatalf("register %v: %v", registration.path, registerError)
		}
	}
	return commandRouter, &invoked
}

// TestDispatchReturnsHandlerResult verifies results pass through unchanged.
func TestDispatchReturnsHandlerResult(testingInstance *testing.T) {
	testingInstance.Parallel()

	testCases := []struct {
		name        string
		argv        []string
		expected    router.Result
		commandName string
	}{
		{name: "state_changed", argv: []string{"ls"}, expected: router.Result{ExitCode: 0, StateChanged: true}, commandName: "ls"},
		{name: "not_found", argv: []string{"cat", "test-1"}, expected: router.Result{ExitCode: 127}, commandName: "cat"},
		{name: "nested", argv: []string{"admin", "reindex", "--limit", "5"}, expected: router.Result{}, commandName: "admin reindex"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			testingInstance.Parallel()
			commandRouter, invoked := newTestRouter(testingInstance)
			namespace, leaf, parseError := commandRouter.Parse(testCase.argv)
			if parseError != nil {
				testingInstance.Fatalf("parse: %v", parseError)
			}
			if namespace.CommandName() != testCase.commandName {
				testingInstance.Fatalf("expected command name %q, got %q", testCase.commandName, namespace.CommandName())
			}
			result, dispatchError := commandRouter.Dispatch(namespace, leaf)
			if dispatchError != nil {
				testingInstance.Fatalf("dispatch: %v", dispatchError)
			}
			if result != testCase.expected {
				testingInstance.Fatalf("expected %+v, got %+v", testCase.expected, result)
			}
			if len(*invoked) != 1 {
				testingInstance.Fatalf("expected one handler invocation, got %v", *invoked)
			}
		})
	}
}

// TestDispatchWithoutHandler verifies grouping nodes report no command.
func TestDispatchWithoutHandler(testingInstance *testing.T) {
	testingInstance.Parallel()

	for _, argv := range [][]string{{}, {"admin"}, {"-p", "test"}} {
		commandRouter, invoked := newTestRouter(testingInstance)
		namespace, leaf, parseError := commandRouter.Parse(argv)
		if parseError != nil {
			testingInstance.Fatalf("parse %v: %v", argv, parseError)
		}
		result, dispatchError := commandRouter.Dispatch(namespace, leaf)
		if !errors.Is(dispatchError, router.ErrNoCommand) {
			testingInstance.Fatalf("%v: expected ErrNoCommand, got %v", argv, dispatchError)
		}
		if result != (router.Result{ExitCode: 0, StateChanged: false}) {
			testingInstance.Fatalf("%v: expected zero result, got %+v", argv, result)
		}
		if len(*invoked) != 0 {
			testingInstance.Fatalf("%v: no handler should run, got %v", argv, *invoked)
		}
	}
}

// TestParseBindsArguments verifies positional arity, defaults and coercion.
func TestParseBindsArguments(testingInstance *testing.T) {
	testingInstance.Parallel()

	testCases := []struct {
		name     string
		argv     []string
		argument string
		expected []string
	}{
		{name: "move_many", argv: []string{"mv", "TEST-1", "TEST-2", "Done"}, argument: issueArgumentName, expected: []string{"TEST-1", "TEST-2"}},
		{name: "move_target", argv: []string{"mv", "TEST-1", "TEST-2", "Done"}, argument: targetArgumentName, expected: []string{"Done"}},
		{name: "link_relation", argv: []string{"link", "TEST-1", "is", "blocked", "by", "TEST-2"}, argument: textArgumentName, expected: []string{"is", "blocked", "by"}},
		{name: "link_right", argv: []string{"link", "TEST-1", "blocks", "TEST-2"}, argument: "issue_right", expected: []string{"TEST-2"}},
		{name: "option_default", argv: []string{"new", "Fix", "crash"}, argument: "type", expected: []string{"Task"}},
		{name: "option_value", argv: []string{"new", "-t", "Bug", "Fix"}, argument: "type", expected: []string{"Bug"}},
		{name: "empty_variadic", argv: []string{"new"}, argument: textArgumentName, expected: nil},
		{name: "positional_coercion", argv: []string{"cat", "test-1", "Test-2"}, argument: issueArgumentName, expected: []string{"TEST-1", "TEST-2"}},
		{name: "global_before_command", argv: []string{"-p", "test", "ls"}, argument: projectArgumentName, expected: []string{"TEST"}},
		{name: "global_after_command", argv: []string{"ls", "--project", "proj"}, argument: projectArgumentName, expected: []string{"PROJ"}},
		{name: "optional_positional", argv: []string{"ls", "In Progress"}, argument: "status", expected: []string{"In Progress"}},
		{name: "flags_after_positionals", argv: []string{"new", "Fix", "crash", "-q"}, argument: "quiet", expected: []string{"true"}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			testingInstance.Parallel()
			commandRouter, _ := newTestRouter(testingInstance)
			namespace, _, parseError := commandRouter.Parse(testCase.argv)
			if parseError != nil {
				testingInstance.Fatalf("parse: %v", parseError)
			}
			if difference := cmp.Diff(testCase.expected, namespace.Strings(testCase.argument)); difference != "" {
				testingInstance.Fatalf("unexpected %s (-want +got):\n%s", testCase.argument, difference)
			}
		})
	}
}

// TestParseReportsErrors verifies malformed input yields ParseError, never a handler call.
func TestParseReportsErrors(testingInstance *testing.T) {
	testingInstance.Parallel()

	testCases := []struct {
		name     string
		argv     []string
		fragment string
	}{
		{name: "unknown_flag", argv: []string{"ls", "--bogus"}, fragment: "unknown flag: --bogus"},
		{name: "unknown_command", argv: []string{"frobnicate"}, fragment: `unknown command "frobnicate"`},
		{name: "missing_positional", argv: []string{"mv", "TEST-1"}, fragment: "the following arguments are required: issue"},
		{name: "missing_single", argv: []string{"cat"}, fragment: "the following arguments are required: issue"},
		{name: "surplus", argv: []string{"ls", "New", "Done"}, fragment: "unrecognized arguments: Done"},
		{name: "invalid_coercion", argv: []string{"admin", "reindex", "--limit", "many"}, fragment: "invalid value \"many\""},
		{name: "missing_option_value", argv: []string{"ls", "-u"}, fragment: "flag needs an argument"},
		{name: "exclusive_group", argv: []string{"ls", "-m", "-U"}, fragment: "none of the others can be"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			testingInstance.Parallel()
			commandRouter, invoked := newTestRouter(testingInstance)
			_, _, parseError := commandRouter.Parse(testCase.argv)
			var typedError *router.ParseError
			if !errors.As(parseError, &typedError) {
				testingInstance.Fatalf("expected ParseError, got %v", parseError)
			}
			if !strings.Contains(parseError.Error(), testCase.fragment) {
				testingInstance.Fatalf("expected %q in %q", testCase.fragment, parseError.Error())
			}
			if len(*invoked) != 0 {
				testingInstance.Fatalf("handler must not run on parse failure")
			}
		})
	}
}

// TestParseHelp verifies help requests resolve the command and render its usage.
func TestParseHelp(testingInstance *testing.T) {
	testingInstance.Parallel()

	commandRouter, _ := newTestRouter(testingInstance)
	_, leaf, parseError := commandRouter.Parse([]string{"mv", "--help"})
	if !errors.Is(parseError, router.ErrHelp) {
		testingInstance.Fatalf("expected ErrHelp, got %v", parseError)
	}
	if leaf == nil || leaf.Name != "mv" {
		testingInstance.Fatalf("expected mv command, got %+v", leaf)
	}
	usage := commandRouter.Usage(leaf)
	if !strings.Contains(usage, "mv issue... target") {
		testingInstance.Fatalf("usage should show positional arity:\n%s", usage)
	}
	if !strings.Contains(commandRouter.Usage(nil), "reindex") && !strings.Contains(commandRouter.Usage(nil), "admin") {
		testingInstance.Fatalf("root usage should list commands:\n%s", commandRouter.Usage(nil))
	}
}

// TestNamespaceSealedAfterDispatch verifies context injection stops once dispatch starts.
func TestNamespaceSealedAfterDispatch(testingInstance *testing.T) {
	testingInstance.Parallel()

	commandRouter := router.New[testContext]("jirate", "sealing")
	var observed string
	var injectError error
	_, registerError := commandRouter.Register([]string{"show"}, "show", nil, func(namespace *router.Namespace[testContext]) (router.Result, error) {
		observed = namespace.Context().Label + " " + namespace.String("extra")
		injectError = namespace.Inject("extra", "late")
		return router.Result{}, nil
	})
	if registerError != nil {
		testingInstance.Fatalf("register: %v", registerError)
	}
	namespace, leaf, parseError := commandRouter.Parse([]string{"show"})
	if parseError != nil {
		testingInstance.Fatalf("parse: %v", parseError)
	}
	if contextError := commandRouter.InjectContext(namespace, testContext{Label: "injected"}); contextError != nil {
		testingInstance.Fatalf("inject context: %v", contextError)
	}
	if extraError := namespace.Inject("extra", "early"); extraError != nil {
		testingInstance.Fatalf("inject: %v", extraError)
	}
	if _, dispatchError := commandRouter.Dispatch(namespace, leaf); dispatchError != nil {
		testingInstance.Fatalf("dispatch: %v", dispatchError)
	}
	if observed != "injected early" {
		testingInstance.Fatalf("handler saw %q", observed)
	}
	if !errors.Is(injectError, router.ErrNamespaceSealed) {
		testingInstance.Fatalf("expected ErrNamespaceSealed inside handler, got %v", injectError)
	}
	if contextError := commandRouter.InjectContext(namespace, testContext{}); !errors.Is(contextError, router.ErrNamespaceSealed) {
		testingInstance.Fatalf("expected ErrNamespaceSealed after dispatch, got %v", contextError)
	}
}

// TestRegisterRejectsDuplicates verifies sibling names and flags stay unique.
func TestRegisterRejectsDuplicates(testingInstance *testing.T) {
	testingInstance.Parallel()

	commandRouter, _ := newTestRouter(testingInstance)
	testCases := []struct {
		name  string
		path  []string
		specs []router.ArgumentSpec
	}{
		{name: "sibling", path: []string{"ls"}},
		{name: "nested_sibling", path: []string{"admin", "reindex"}},
		{name: "global_flag_clash", path: []string{"fresh"}, specs: []router.ArgumentSpec{router.Switch("projects", "p", "clash")}},
		{name: "empty_path", path: nil},
	}
	for _, testCase := range testCases {
		_, registerError := commandRouter.Register(testCase.path, "help", testCase.specs, nil)
		var configError *router.ConfigError
		if !errors.As(registerError, &configError) {
			testingInstance.Fatalf("%s: expected ConfigError, got %v", testCase.name, registerError)
		}
	}

	if _, groupError := commandRouter.Register([]string{"admin"}, "administration", nil, nil); groupError != nil {
		testingInstance.Fatalf("filling an implicit grouping node should succeed: %v", groupError)
	}
}

// TestSwitchSpellings verifies the accepted boolean literals.
func TestSwitchSpellings(testingInstance *testing.T) {
	testingInstance.Parallel()

	testCases := []struct {
		argument string
		expected bool
	}{
		{argument: "--quiet", expected: true},
		{argument: "--quiet=yes", expected: true},
		{argument: "--quiet=off", expected: false},
		{argument: "-q", expected: true},
	}
	for _, testCase := range testCases {
		commandRouter, _ := newTestRouter(testingInstance)
		namespace, _, parseError := commandRouter.Parse([]string{"new", testCase.argument})
		if parseError != nil {
			testingInstance.Fatalf("%s: %v", testCase.argument, parseError)
		}
		if namespace.Bool("quiet") != testCase.expected {
			testingInstance.Fatalf("%s: expected %t", testCase.argument, testCase.expected)
		}
	}
}
