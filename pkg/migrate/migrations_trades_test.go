package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTradesMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_trades.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no trades migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE trade_status_enum AS ENUM",
		"CREATE TYPE participant_status_enum AS ENUM",
		"CREATE TYPE trade_asset_kind_enum AS ENUM",
		"CREATE TYPE trade_vote_value_enum AS ENUM",
		"CREATE TABLE IF NOT EXISTS trades",
		"CREATE TABLE IF NOT EXISTS trade_participants",
		"CREATE TABLE IF NOT EXISTS trade_assets",
		"CREATE TABLE IF NOT EXISTS trade_votes",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_trade_participants_trade_team",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_trade_votes_trade_team",
		"CHECK (from_team_id <> to_team_id)",
		"DROP TABLE IF EXISTS trades",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
