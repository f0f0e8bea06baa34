package config

import (
	"fmt"
	"strings"
)

const missingKeysFormat = "missing required configuration: %s (run %q to create a configuration file)"

// ConfigError reports required configuration keys that are absent.
type ConfigError struct {
	MissingKeys []string
}

func (configError *ConfigError) Error() string {
	return fmt.Sprintf(missingKeysFormat, strings.Join(configError.MissingKeys, ", "), "jirate init")
}
