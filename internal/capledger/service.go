package capledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
)

// Service defines operations that record cap ledger entries.
type Service interface {
	Append(ctx context.Context, tx *gorm.DB, entries []models.CapLedgerEntry) error
	EntriesForTrade(ctx context.Context, tradeID uuid.UUID) ([]models.CapLedgerEntry, error)
}

type service struct {
	repo Repository
}

// NewService wires a cap ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cap ledger repository required")
	}
	return &service{repo: repo}, nil
}

// Append inserts ledger entries inside the caller's transaction. Entries are
// validated before any write; the ledger itself is append-only.
func (s *service) Append(ctx context.Context, tx *gorm.DB, entries []models.CapLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if entry.LeagueID == uuid.Nil {
			return fmt.Errorf("ledger entry league id required")
		}
		if entry.TeamID == uuid.Nil {
			return fmt.Errorf("ledger entry team id required")
		}
		if entry.Year == 0 {
			return fmt.Errorf("ledger entry year required")
		}
		if !entry.Type.IsValid() {
			return fmt.Errorf("invalid cap transaction type %q", entry.Type)
		}
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	return repo.Insert(ctx, entries)
}

func (s *service) EntriesForTrade(ctx context.Context, tradeID uuid.UUID) ([]models.CapLedgerEntry, error) {
	if tradeID == uuid.Nil {
		return nil, fmt.Errorf("trade id required")
	}
	return s.repo.ListByTrade(ctx, tradeID)
}
