package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "cardroom_history.db"

type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	dbPath, err := historyDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteHistorySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordDeal(rec DealRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO deal_history (
    id, table_id, deal_number, vulnerability, declarer,
    contract_level, contract_suit, doubled, contract_team,
    tricks_made, deal_score, running_score, played_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.ID, rec.TableID, rec.DealNumber, rec.Vulnerability, rec.Declarer,
		rec.ContractLevel, rec.ContractSuit, boolToInt(rec.Doubled), rec.ContractTeam,
		rec.TricksMade, rec.DealScore, rec.RunningScore, rec.PlayedAt.UnixMilli())
	return err
}

func (s *SQLiteService) ListRecent(ctx context.Context, tableID string, limit int) ([]DealRecord, error) {
	limit = clampLimit(limit)

	query := `
SELECT id, table_id, deal_number, vulnerability, declarer,
       contract_level, contract_suit, doubled, contract_team,
       tricks_made, deal_score, running_score, played_at_ms
FROM deal_history
`
	args := []any{}
	if tableID != "" {
		query += `WHERE table_id = ?
`
		args = append(args, tableID)
	}
	query += `ORDER BY played_at_ms DESC, deal_number DESC
LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]DealRecord, 0, limit)
	for rows.Next() {
		var rec DealRecord
		var doubled int
		var playedAtMs int64
		if err := rows.Scan(&rec.ID, &rec.TableID, &rec.DealNumber, &rec.Vulnerability, &rec.Declarer,
			&rec.ContractLevel, &rec.ContractSuit, &doubled, &rec.ContractTeam,
			&rec.TricksMade, &rec.DealScore, &rec.RunningScore, &playedAtMs); err != nil {
			return nil, err
		}
		rec.Doubled = doubled != 0
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func ensureSQLiteHistorySchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS deal_history (
    id TEXT PRIMARY KEY,
    table_id TEXT NOT NULL,
    deal_number INTEGER NOT NULL,
    vulnerability TEXT NOT NULL,
    declarer TEXT NOT NULL,
    contract_level INTEGER NOT NULL,
    contract_suit TEXT NOT NULL,
    doubled INTEGER NOT NULL DEFAULT 0,
    contract_team TEXT NOT NULL,
    tricks_made INTEGER NOT NULL,
    deal_score INTEGER NOT NULL,
    running_score INTEGER NOT NULL,
    played_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_deal_history_table ON deal_history(table_id, played_at_ms DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func historyDatabasePathFromEnv() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("HISTORY_DATABASE_PATH")),
		strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")),
	}
	for _, candidate := range candidates {
		if candidate != "" {
			return filepath.Clean(candidate), nil
		}
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "bridge-delta-null", defaultLocalDBName), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
