//go:build !windows

package config

// loadUserEnvironment has no persistent user-level store outside Windows.
func loadUserEnvironment() map[string]string {
	return map[string]string{}
}
