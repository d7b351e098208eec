package migrate

import (
	"errors"
	"testing"
)

func TestRun_EmptyDSN(t *testing.T) {
	err := Run("", "up")
	if !errors.Is(err, ErrNoDSN) {
		t.Fatalf("Run with empty DSN: err = %v, want ErrNoDSN", err)
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "sideways", "UP", "Down"} {
		t.Run(direction, func(t *testing.T) {
			err := Run("postgres://localhost/test", direction)
			if err == nil {
				t.Fatalf("Run with direction %q should return error", direction)
			}
			if errors.Is(err, ErrNoDSN) {
				t.Error("direction should be checked before the DSN")
			}
		})
	}
}

func TestRun_InvalidDSN(t *testing.T) {
	for _, dsn := range []string{"invalid-dsn", "://localhost/test", "postgres://localhost with spaces/test"} {
		t.Run(dsn, func(t *testing.T) {
			if err := Run(dsn, "up"); err == nil {
				t.Errorf("Run with invalid DSN %q should return error", dsn)
			}
		})
	}
}

func TestVersion_EmptyDSN(t *testing.T) {
	if _, _, err := Version(""); !errors.Is(err, ErrNoDSN) {
		t.Errorf("Version with empty DSN: err = %v, want ErrNoDSN", err)
	}
}
