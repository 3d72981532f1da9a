// Package env parses process environment entries.
package env

import (
	"strings"
)

// ParseEnvs converts a list of `key=value` environment entries, as returned by `os.Environ`, into a map. Malformed entries are skipped.
func ParseEnvs(envs []string) map[string]string {
	envMap := make(map[string]string)

	for _, env := range envs {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		envMap[strings.TrimSpace(parts[0])] = parts[1]
	}

	return envMap
}
