// Package ledger persists per-deal results so players can review
// score history after the fact.
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

var ErrNotFound = errors.New("not found")

// DealRecord is one scored deal. ID is assigned by the backend.
type DealRecord struct {
	ID            string    `json:"id"`
	TableID       string    `json:"table_id"`
	DealNumber    int       `json:"deal_number"`
	Vulnerability string    `json:"vulnerability"`
	Declarer      string    `json:"declarer"`
	ContractLevel int       `json:"contract_level"`
	ContractSuit  string    `json:"contract_suit"`
	Doubled       bool      `json:"doubled"`
	ContractTeam  string    `json:"contract_team"`
	TricksMade    int       `json:"tricks_made"`
	DealScore     int       `json:"deal_score"`
	RunningScore  int       `json:"running_score"`
	PlayedAt      time.Time `json:"played_at"`
}

type Service interface {
	Close() error
	// RecordDeal appends a scored deal. Failures are logged by the
	// caller; play never stops for history.
	RecordDeal(rec DealRecord) error
	// ListRecent returns the latest deals for a table, newest first.
	// An empty tableID returns deals across all tables.
	ListRecent(ctx context.Context, tableID string, limit int) ([]DealRecord, error)
}

type noopService struct{}

// NewNoopService returns a Service that stores nothing.
func NewNoopService() Service { return &noopService{} }

func (n *noopService) Close() error { return nil }

func (n *noopService) RecordDeal(_ DealRecord) error { return nil }

func (n *noopService) ListRecent(_ context.Context, _ string, _ int) ([]DealRecord, error) {
	return []DealRecord{}, nil
}

// NewServiceFromEnv builds the history backend matching the auth
// mode, so one env var selects the storage story for the binary.
func NewServiceFromEnv(authMode string) (Service, string, error) {
	mode := strings.ToLower(strings.TrimSpace(authMode))
	switch mode {
	case "", "disabled", "memory":
		return &noopService{}, "noop", nil
	case "sqlite", "local":
		service, err := NewSQLiteServiceFromEnv()
		if err != nil {
			return nil, "", err
		}
		return service, "sqlite", nil
	default:
		service, err := NewPostgresServiceFromEnv()
		if err != nil {
			return nil, "", err
		}
		return service, "postgres", nil
	}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxRecentLimit {
		return defaultRecentLimit
	}
	return limit
}
