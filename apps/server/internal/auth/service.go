// Package auth provides player accounts and session tokens for the
// card room. Backends share one contract so the storage can change
// without touching the gateway.
package auth

// Service is the auth/session contract consumed by gateway and HTTP handlers.
type Service interface {
	Register(username, password string) (playerID uint64, sessionToken string, err error)
	Login(username, password string) (playerID uint64, sessionToken string, err error)
	ResolveSession(token string) (playerID uint64, username string, ok bool)
	Logout(token string)
	Close() error
}
