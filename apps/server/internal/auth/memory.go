package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	tokenBytes        = 32
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{2,31}$`)

// MemoryManager keeps accounts and sessions in process memory, for
// single-binary deployments and tests.
type MemoryManager struct {
	mu sync.Mutex

	nextPlayerID uint64
	sessionTTL   time.Duration
	sessions     map[string]sessionRecord
	playersByID  map[uint64]playerRecord
	playersByKey map[string]uint64 // normalized username -> player
}

type sessionRecord struct {
	PlayerID  uint64
	ExpiresAt time.Time
}

type playerRecord struct {
	PlayerID     uint64
	Username     string
	PasswordHash []byte
	LastLoginAt  time.Time
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		nextPlayerID: 100000, // start from a readable non-trivial range
		sessionTTL:   defaultSessionTTL,
		sessions:     make(map[string]sessionRecord),
		playersByID:  make(map[uint64]playerRecord),
		playersByKey: make(map[string]uint64),
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	trimmed := strings.TrimSpace(username)
	if !usernamePattern.MatchString(trimmed) {
		return ErrInvalidUsername
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 || len(password) > 72 {
		return ErrInvalidPassword
	}
	return nil
}

func (m *MemoryManager) issueSessionLocked(playerID uint64, now time.Time) string {
	token := mustToken()
	m.sessions[token] = sessionRecord{
		PlayerID:  playerID,
		ExpiresAt: now.Add(m.sessionTTL),
	}
	return token
}

func (m *MemoryManager) resolveSessionLocked(token string, now time.Time) (playerID uint64, username string, ok bool) {
	if token == "" {
		return 0, "", false
	}
	rec, exists := m.sessions[token]
	if !exists {
		return 0, "", false
	}
	if !now.Before(rec.ExpiresAt) {
		delete(m.sessions, token)
		return 0, "", false
	}
	rec.ExpiresAt = now.Add(m.sessionTTL)
	m.sessions[token] = rec

	profile := m.playersByID[rec.PlayerID]
	return rec.PlayerID, profile.Username, true
}

// Register creates a new account and returns an authenticated session token.
func (m *MemoryManager) Register(username, password string) (playerID uint64, sessionToken string, err error) {
	if err = validateUsername(username); err != nil {
		return 0, "", err
	}
	if err = validatePassword(password); err != nil {
		return 0, "", err
	}

	normalized := normalizeUsername(username)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.playersByKey[normalized]; exists {
		return 0, "", ErrUsernameTaken
	}

	m.nextPlayerID++
	playerID = m.nextPlayerID
	now := time.Now()
	m.playersByID[playerID] = playerRecord{
		PlayerID:     playerID,
		Username:     normalized,
		PasswordHash: passwordHash,
		LastLoginAt:  now,
	}
	m.playersByKey[normalized] = playerID

	sessionToken = m.issueSessionLocked(playerID, now)
	return playerID, sessionToken, nil
}

// Login validates credentials and returns a fresh authenticated session.
func (m *MemoryManager) Login(username, password string) (playerID uint64, sessionToken string, err error) {
	normalized := normalizeUsername(username)
	if normalized == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	playerID, exists := m.playersByKey[normalized]
	if !exists {
		return 0, "", ErrInvalidCredentials
	}

	profile := m.playersByID[playerID]
	if len(profile.PasswordHash) == 0 {
		return 0, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(profile.PasswordHash, []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}

	now := time.Now()
	profile.LastLoginAt = now
	m.playersByID[playerID] = profile
	sessionToken = m.issueSessionLocked(playerID, now)
	return playerID, sessionToken, nil
}

// ResolveSession validates and refreshes a session token.
func (m *MemoryManager) ResolveSession(token string) (playerID uint64, username string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveSessionLocked(token, time.Now())
}

// Logout invalidates a session token.
func (m *MemoryManager) Logout(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

func (m *MemoryManager) Close() error { return nil }

func mustToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
