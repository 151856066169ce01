package trades

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

func setupTradesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	trades := `
CREATE TABLE IF NOT EXISTS trades (
  id TEXT PRIMARY KEY,
  league_id TEXT NOT NULL,
  status TEXT NOT NULL,
  approval_mode TEXT NOT NULL,
  requires_commissioner_approval INTEGER NOT NULL DEFAULT 0,
  requires_league_vote INTEGER NOT NULL DEFAULT 0,
  vote_deadline DATETIME,
  proposer_team_id TEXT NOT NULL,
  notes TEXT,
  expires_at DATETIME NOT NULL,
  votes_for INTEGER NOT NULL DEFAULT 0,
  votes_against INTEGER NOT NULL DEFAULT 0,
  approved_by TEXT,
  approved_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	participants := `
CREATE TABLE IF NOT EXISTS trade_participants (
  id TEXT PRIMARY KEY,
  trade_id TEXT NOT NULL,
  team_id TEXT NOT NULL,
  status TEXT NOT NULL,
  responded_at DATETIME,
  created_at DATETIME,
  UNIQUE (trade_id, team_id)
);`
	assets := `
CREATE TABLE IF NOT EXISTS trade_assets (
  id TEXT PRIMARY KEY,
  trade_id TEXT NOT NULL,
  from_team_id TEXT NOT NULL,
  to_team_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  contract_id TEXT,
  draft_pick_id TEXT,
  amount_cents INTEGER,
  cap_year INTEGER,
  created_at DATETIME
);`
	votes := `
CREATE TABLE IF NOT EXISTS trade_votes (
  id TEXT PRIMARY KEY,
  trade_id TEXT NOT NULL,
  team_id TEXT NOT NULL,
  value TEXT NOT NULL,
  voted_at DATETIME NOT NULL,
  created_at DATETIME,
  UNIQUE (trade_id, team_id)
);`
	require.NoError(t, db.Exec(trades).Error)
	require.NoError(t, db.Exec(participants).Error)
	require.NoError(t, db.Exec(assets).Error)
	require.NoError(t, db.Exec(votes).Error)
	return db
}

func seedTrade(t *testing.T, db *gorm.DB, leagueID uuid.UUID, status enums.TradeStatus, teamIDs ...uuid.UUID) *models.Trade {
	t.Helper()
	require.NotEmpty(t, teamIDs)

	trade := &models.Trade{
		ID:             uuid.New(),
		LeagueID:       leagueID,
		Status:         status,
		ApprovalMode:   enums.TradeApprovalModeAuto,
		ProposerTeamID: teamIDs[0],
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
	for i, teamID := range teamIDs {
		participant := models.TradeParticipant{
			ID:      uuid.New(),
			TradeID: trade.ID,
			TeamID:  teamID,
			Status:  enums.ParticipantStatusPending,
		}
		if i == 0 {
			now := time.Now()
			participant.Status = enums.ParticipantStatusAccepted
			participant.RespondedAt = &now
		}
		trade.Participants = append(trade.Participants, participant)
	}
	repo := NewRepository(db)
	created, err := repo.CreateTrade(context.Background(), trade)
	require.NoError(t, err)
	return created
}

func TestCreateAndFindTrade(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)
	leagueID := uuid.New()
	teamA := uuid.New()
	teamB := uuid.New()

	trade := seedTrade(t, db, leagueID, enums.TradeStatusPending, teamA, teamB)

	found, err := repo.FindTrade(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.ID, found.ID)
	assert.Len(t, found.Participants, 2)
	assert.Equal(t, enums.ParticipantStatusAccepted, found.Participants[0].Status)

	_, err = repo.FindTrade(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestParticipantGuardedUpdate(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)
	leagueID := uuid.New()
	teamA := uuid.New()
	teamB := uuid.New()
	trade := seedTrade(t, db, leagueID, enums.TradeStatusPending, teamA, teamB)

	rows, err := repo.UpdateParticipantStatusGuarded(context.Background(), trade.ID, teamB,
		enums.ParticipantStatusPending, enums.ParticipantStatusAccepted, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	// A second accept must not match any row.
	rows, err = repo.UpdateParticipantStatusGuarded(context.Background(), trade.ID, teamB,
		enums.ParticipantStatusPending, enums.ParticipantStatusAccepted, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	// Nor may a stranger.
	rows, err = repo.UpdateParticipantStatusGuarded(context.Background(), trade.ID, uuid.New(),
		enums.ParticipantStatusPending, enums.ParticipantStatusAccepted, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	pending, err := repo.CountPendingParticipants(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pending)
}

func TestTradeStatusGuardedUpdate(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)
	trade := seedTrade(t, db, uuid.New(), enums.TradeStatusPending, uuid.New(), uuid.New())

	rows, err := repo.UpdateTradeStatusGuarded(context.Background(), trade.ID,
		enums.TradeStatusPending, enums.TradeStatusExpired)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = repo.UpdateTradeStatusGuarded(context.Background(), trade.ID,
		enums.TradeStatusPending, enums.TradeStatusExpired)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestVoteUpsertRoundTrip(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)
	trade := seedTrade(t, db, uuid.New(), enums.TradeStatusAccepted, uuid.New(), uuid.New())
	voter := uuid.New()

	_, err := repo.FindVote(context.Background(), trade.ID, voter)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	vote := &models.TradeVote{
		ID:      uuid.New(),
		TradeID: trade.ID,
		TeamID:  voter,
		Value:   enums.TradeVoteVeto,
		VotedAt: time.Now(),
	}
	require.NoError(t, repo.CreateVote(context.Background(), vote))

	found, err := repo.FindVote(context.Background(), trade.ID, voter)
	require.NoError(t, err)
	assert.Equal(t, enums.TradeVoteVeto, found.Value)

	require.NoError(t, repo.UpdateVote(context.Background(), found.ID, enums.TradeVoteApprove, time.Now()))
	found, err = repo.FindVote(context.Background(), trade.ID, voter)
	require.NoError(t, err)
	assert.Equal(t, enums.TradeVoteApprove, found.Value)
}

func TestListTradesPendingVisibility(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)
	leagueID := uuid.New()
	teamA := uuid.New()
	teamB := uuid.New()
	outsider := uuid.New()

	pending := seedTrade(t, db, leagueID, enums.TradeStatusPending, teamA, teamB)
	completed := seedTrade(t, db, leagueID, enums.TradeStatusCompleted, teamA, teamB)
	seedTrade(t, db, uuid.New(), enums.TradeStatusPending, uuid.New(), uuid.New())

	all, err := repo.ListTrades(context.Background(), leagueID, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	asParticipant, err := repo.ListTrades(context.Background(), leagueID, ListFilters{ViewerTeamID: &teamB})
	require.NoError(t, err)
	assert.Len(t, asParticipant, 2)

	asOutsider, err := repo.ListTrades(context.Background(), leagueID, ListFilters{ViewerTeamID: &outsider})
	require.NoError(t, err)
	require.Len(t, asOutsider, 1)
	assert.Equal(t, completed.ID, asOutsider[0].ID)

	status := enums.TradeStatusPending
	onlyPending, err := repo.ListTrades(context.Background(), leagueID, ListFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, pending.ID, onlyPending[0].ID)
}

func TestFindExpiredPending(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)
	leagueID := uuid.New()

	stale := seedTrade(t, db, leagueID, enums.TradeStatusPending, uuid.New(), uuid.New())
	require.NoError(t, repo.UpdateTrade(context.Background(), stale.ID,
		map[string]any{"expires_at": time.Now().Add(-time.Hour)}))
	seedTrade(t, db, leagueID, enums.TradeStatusPending, uuid.New(), uuid.New())

	expired, err := repo.FindExpiredPending(context.Background(), time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.ID, expired[0].ID)
}
