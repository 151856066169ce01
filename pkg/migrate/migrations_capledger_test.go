package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCapLedgerMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cap_ledger.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no cap ledger migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE cap_transaction_type_enum AS ENUM",
		"CREATE TABLE IF NOT EXISTS cap_ledger_entries",
		"FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE",
		"FOREIGN KEY (trade_id) REFERENCES trades(id) ON DELETE SET NULL",
		"CREATE INDEX IF NOT EXISTS idx_cap_ledger_team_year",
		"DROP TABLE IF EXISTS cap_ledger_entries",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
