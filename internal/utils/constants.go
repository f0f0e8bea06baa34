package utils

const (
	// ApplicationName is the binary and configuration namespace.
	ApplicationName = "jirate"
	// GlobalConfigDirectoryName is the directory under the user configuration root.
	GlobalConfigDirectoryName = "jirate"
	// ConfigFileName is the global configuration file name.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the per-directory configuration override.
	LocalConfigFileName = ".jirate.yaml"
	// IndexFileName is the local issue index database file name.
	IndexFileName = "index.sqlite"
	// DebugEnvironmentVariable enables debug logging when set to a true value.
	DebugEnvironmentVariable = "JIRATE_DEBUG"

	// LoggerInitializationFailedMessageFormat reports logger construction failures.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
)

const (
	// UserConfigRootDirectoryName is the per-user configuration root under the home directory.
	UserConfigRootDirectoryName = ".config"
	// EnvironmentPrefix prefixes environment overrides such as JIRATE_JIRA_TOKEN.
	EnvironmentPrefix = "JIRATE"
)
