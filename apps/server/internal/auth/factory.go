package auth

import (
	"fmt"
	"os"
	"strings"
)

const (
	AuthModeDisabled = "disabled"
	AuthModeMemory   = "memory"
	AuthModeSQLite   = "sqlite"
	AuthModeDB       = "db"
)

func authModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	switch raw {
	case "", AuthModeMemory, "mem":
		return AuthModeMemory
	case AuthModeSQLite, "local":
		return AuthModeSQLite
	case AuthModeDB, "postgres", "postgresql":
		return AuthModeDB
	case AuthModeDisabled, "off", "none":
		return AuthModeDisabled
	default:
		return raw
	}
}

// NewServiceFromEnv builds the auth backend selected by AUTH_MODE.
// A nil Service with no error means auth is disabled.
func NewServiceFromEnv() (Service, string, error) {
	mode := authModeFromEnv()

	switch mode {
	case AuthModeDisabled:
		return nil, mode, nil
	case AuthModeMemory:
		return NewMemoryManager(), mode, nil
	case AuthModeSQLite:
		manager, err := NewSQLiteManagerFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return manager, mode, nil
	case AuthModeDB:
		manager, err := NewPostgresManagerFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return manager, mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid AUTH_MODE %q (supported: %s, %s, %s, %s)",
			mode, AuthModeDisabled, AuthModeMemory, AuthModeSQLite, AuthModeDB)
	}
}
