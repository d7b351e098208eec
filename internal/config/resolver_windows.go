//go:build windows

package config

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows/registry"
)

// loadUserEnvironment reads the string values under HKCU\Environment, where `setx` stores
// user-level variables that a running process does not see in its own environment.
func loadUserEnvironment() map[string]string {
	out := map[string]string{}
	k, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE|registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return out
	}
	defer k.Close()

	names, err := k.ReadValueNames(0)
	if err != nil {
		log.Warn().Err(err).Msg("config: read user environment names")
		return out
	}
	for _, name := range names {
		v, _, err := k.GetStringValue(name)
		if err != nil {
			continue
		}
		out[name] = v
	}
	return out
}
