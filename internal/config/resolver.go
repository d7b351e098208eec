package config

import (
	"os"
	"strings"
	"sync"
)

// Resolver looks up credentials by a list of candidate names. The process environment is
// consulted first, then the values read from .env (when built by Config.Resolver), then the
// persistent user-level environment (HKCU\Environment on Windows). The persistent snapshot is
// read once per Resolver and never refreshed.
type Resolver struct {
	lookupEnv  func(string) (string, bool)
	file       map[string]string
	loadStored func() map[string]string

	once   sync.Once
	stored map[string]string
}

// NewResolver returns a Resolver over os.LookupEnv and the platform's persistent user environment.
func NewResolver() *Resolver {
	return &Resolver{
		lookupEnv:  os.LookupEnv,
		loadStored: loadUserEnvironment,
	}
}

// NewResolverWith returns a Resolver with injected lookups. A nil lookupEnv disables the process
// environment; a nil loadStored yields an empty persistent snapshot.
func NewResolverWith(lookupEnv func(string) (string, bool), loadStored func() map[string]string) *Resolver {
	return &Resolver{lookupEnv: lookupEnv, loadStored: loadStored}
}

// Get returns the first non-blank value among names, trimmed. All names are tried against one
// source before any is tried against the next.
func (r *Resolver) Get(names ...string) (string, bool) {
	if r.lookupEnv != nil {
		for _, name := range names {
			if v, ok := r.lookupEnv(name); ok {
				if v = strings.TrimSpace(v); v != "" {
					return v, true
				}
			}
		}
	}
	if v, ok := firstSet(r.file, names); ok {
		return v, true
	}
	return firstSet(r.snapshot(), names)
}

func firstSet(values map[string]string, names []string) (string, bool) {
	for _, name := range names {
		if v := strings.TrimSpace(values[name]); v != "" {
			return v, true
		}
	}
	return "", false
}

// GetOr is Get with a default for when no candidate is set.
func (r *Resolver) GetOr(def string, names ...string) string {
	if v, ok := r.Get(names...); ok {
		return v
	}
	return def
}

func (r *Resolver) snapshot() map[string]string {
	r.once.Do(func() {
		if r.loadStored != nil {
			r.stored = r.loadStored()
		}
		if r.stored == nil {
			r.stored = map[string]string{}
		}
	})
	return r.stored
}
