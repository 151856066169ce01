package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/api/middleware"
	"github.com/capkeeperhq/capkeeper-backend/internal/trades"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
)

type stubTradeService struct {
	trade      *models.Trade
	list       []models.Trade
	voteResult *trades.VoteResult
	err        error

	proposeInput *trades.ProposeInput
	respondInput *trades.RespondInput
	approveInput *trades.ApproveInput
	voteInput    *trades.VoteInput
	cancelled    *uuid.UUID
	withdrawn    *uuid.UUID
	listFilters  *trades.ListFilters
}

func (s *stubTradeService) Propose(_ context.Context, input trades.ProposeInput) (*models.Trade, error) {
	s.proposeInput = &input
	return s.trade, s.err
}

func (s *stubTradeService) Respond(_ context.Context, input trades.RespondInput) (*models.Trade, error) {
	s.respondInput = &input
	return s.trade, s.err
}

func (s *stubTradeService) ApproveAsCommissioner(_ context.Context, input trades.ApproveInput) (*models.Trade, error) {
	s.approveInput = &input
	return s.trade, s.err
}

func (s *stubTradeService) Vote(_ context.Context, input trades.VoteInput) (*trades.VoteResult, error) {
	s.voteInput = &input
	return s.voteResult, s.err
}

func (s *stubTradeService) Cancel(_ context.Context, tradeID, _ uuid.UUID) error {
	s.cancelled = &tradeID
	return s.err
}

func (s *stubTradeService) Withdraw(_ context.Context, tradeID, _, _ uuid.UUID) error {
	s.withdrawn = &tradeID
	return s.err
}

func (s *stubTradeService) List(_ context.Context, _ uuid.UUID, filters trades.ListFilters) ([]models.Trade, error) {
	s.listFilters = &filters
	return s.list, s.err
}

func (s *stubTradeService) Get(_ context.Context, _ uuid.UUID) (*models.Trade, error) {
	return s.trade, s.err
}

func (s *stubTradeService) ExpireStale(_ context.Context, _ int) (int, error) {
	return 0, s.err
}

func sampleTrade() *models.Trade {
	now := time.Now()
	return &models.Trade{
		ID:             uuid.New(),
		LeagueID:       uuid.New(),
		Status:         enums.TradeStatusPending,
		ApprovalMode:   enums.TradeApprovalModeAuto,
		ProposerTeamID: uuid.New(),
		ExpiresAt:      now.Add(24 * time.Hour),
		Participants: []models.TradeParticipant{
			{TeamID: uuid.New(), Status: enums.ParticipantStatusAccepted, RespondedAt: &now},
			{TeamID: uuid.New(), Status: enums.ParticipantStatusPending},
		},
		Assets: []models.TradeAsset{
			{Kind: enums.TradeAssetKindContract, FromTeamID: uuid.New(), ToTeamID: uuid.New()},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func authedRequest(method, target string, body []byte, userID, teamID, leagueID uuid.UUID) *http.Request {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.WithUserID(req.Context(), userID.String())
	if teamID != uuid.Nil {
		ctx = middleware.WithTeamID(ctx, teamID.String())
	}
	if leagueID != uuid.Nil {
		ctx = middleware.WithLeagueID(ctx, leagueID.String())
	}
	return req.WithContext(ctx)
}

func withTradeIDParam(req *http.Request, tradeID uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tradeId", tradeID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTradeProposeSuccess(t *testing.T) {
	trade := sampleTrade()
	svc := &stubTradeService{trade: trade}
	handler := TradePropose(svc, nil)

	teamA := uuid.New()
	teamB := uuid.New()
	payload, _ := json.Marshal(map[string]any{
		"team_ids": []string{teamA.String(), teamB.String()},
		"assets": []map[string]any{
			{
				"kind":         "contract",
				"from_team_id": teamA.String(),
				"to_team_id":   teamB.String(),
				"contract_id":  uuid.New().String(),
			},
		},
		"expires_in": "1w",
	})

	req := authedRequest(http.MethodPost, "/api/v1/trades", payload, uuid.New(), teamA, trade.LeagueID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.proposeInput == nil {
		t.Fatal("expected propose to be called")
	}
	if svc.proposeInput.ExpiresIn != "1w" {
		t.Fatalf("expected expires_in to pass through, got %q", svc.proposeInput.ExpiresIn)
	}
	if svc.proposeInput.LeagueID != trade.LeagueID {
		t.Fatal("expected league id from context")
	}

	var envelope struct {
		Data tradeResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != trade.ID {
		t.Fatalf("expected trade id %s got %s", trade.ID, envelope.Data.ID)
	}
	if len(envelope.Data.Participants) != 2 {
		t.Fatalf("expected 2 participants got %d", len(envelope.Data.Participants))
	}
}

func TestTradeProposeRequiresTeamContext(t *testing.T) {
	handler := TradePropose(&stubTradeService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/trades", []byte(`{}`), uuid.New(), uuid.Nil, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestTradeProposeRejectsMalformedBody(t *testing.T) {
	handler := TradePropose(&stubTradeService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/trades", []byte(`{"team_ids": "nope"}`), uuid.New(), uuid.New(), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestTradeRespondPassesDecision(t *testing.T) {
	trade := sampleTrade()
	svc := &stubTradeService{trade: trade}
	handler := TradeRespond(svc, nil)

	teamID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/trades/"+trade.ID.String()+"/respond", []byte(`{"decision":"reject"}`), uuid.New(), teamID, uuid.Nil)
	req = withTradeIDParam(req, trade.ID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.respondInput == nil || svc.respondInput.Decision != trades.RespondDecisionReject {
		t.Fatalf("expected reject decision, got %+v", svc.respondInput)
	}
	if svc.respondInput.TeamID != teamID {
		t.Fatal("expected team id from context")
	}
}

func TestTradeRespondRejectsUnknownDecision(t *testing.T) {
	handler := TradeRespond(&stubTradeService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/trades/x/respond", []byte(`{"decision":"maybe"}`), uuid.New(), uuid.New(), uuid.Nil)
	req = withTradeIDParam(req, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestTradeApproveSurfacesServiceError(t *testing.T) {
	svc := &stubTradeService{err: pkgerrors.New(pkgerrors.CodeForbidden, "approval requires a commissioner of this league")}
	handler := TradeApprove(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/trades/x/approve", nil, uuid.New(), uuid.New(), uuid.Nil)
	req = withTradeIDParam(req, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestTradeVoteReturnsTallies(t *testing.T) {
	svc := &stubTradeService{voteResult: &trades.VoteResult{
		VotesFor:       1,
		VotesAgainst:   4,
		VetoThreshold:  5,
		EligibleVoters: 10,
		Status:         enums.TradeStatusAccepted,
	}}
	handler := TradeVote(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/trades/x/votes", []byte(`{"value":"veto"}`), uuid.New(), uuid.New(), uuid.Nil)
	req = withTradeIDParam(req, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.voteInput == nil || svc.voteInput.Value != enums.TradeVoteVeto {
		t.Fatalf("expected veto vote, got %+v", svc.voteInput)
	}

	var envelope struct {
		Data trades.VoteResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.VotesAgainst != 4 || envelope.Data.VetoThreshold != 5 {
		t.Fatalf("unexpected tallies: %+v", envelope.Data)
	}
}

func TestTradeCancelSuccess(t *testing.T) {
	svc := &stubTradeService{}
	handler := TradeCancel(svc, nil)

	tradeID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/trades/x/cancel", nil, uuid.New(), uuid.Nil, uuid.Nil)
	req = withTradeIDParam(req, tradeID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.cancelled == nil || *svc.cancelled != tradeID {
		t.Fatal("expected cancel to receive the trade id")
	}
}

func TestTradeWithdrawRequiresTeamContext(t *testing.T) {
	handler := TradeWithdraw(&stubTradeService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/trades/x/withdraw", nil, uuid.New(), uuid.Nil, uuid.Nil)
	req = withTradeIDParam(req, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestTradeListAppliesFilters(t *testing.T) {
	trade := sampleTrade()
	svc := &stubTradeService{list: []models.Trade{*trade}}
	handler := TradeList(svc, nil)

	viewer := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/trades?status=pending&limit=25", nil, uuid.New(), viewer, trade.LeagueID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.listFilters == nil {
		t.Fatal("expected list to be called")
	}
	if svc.listFilters.Status == nil || *svc.listFilters.Status != enums.TradeStatusPending {
		t.Fatal("expected pending status filter")
	}
	if svc.listFilters.ViewerTeamID == nil || *svc.listFilters.ViewerTeamID != viewer {
		t.Fatal("expected viewer team from context")
	}
	if svc.listFilters.Limit != 25 {
		t.Fatalf("expected limit 25 got %d", svc.listFilters.Limit)
	}
}

func TestTradeListQueryParamsOverrideContext(t *testing.T) {
	svc := &stubTradeService{}
	handler := TradeList(svc, nil)

	leagueID := uuid.New()
	viewer := uuid.New()
	target := "/api/v1/trades?league_id=" + leagueID.String() + "&viewer_team_id=" + viewer.String()
	req := authedRequest(http.MethodGet, target, nil, uuid.New(), uuid.New(), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.listFilters == nil || svc.listFilters.ViewerTeamID == nil || *svc.listFilters.ViewerTeamID != viewer {
		t.Fatal("expected viewer team from query param")
	}
}

func TestTradeListRejectsUnknownStatus(t *testing.T) {
	handler := TradeList(&stubTradeService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/trades?status=limbo", nil, uuid.New(), uuid.Nil, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestTradeGetNotFound(t *testing.T) {
	svc := &stubTradeService{err: pkgerrors.New(pkgerrors.CodeNotFound, "trade not found")}
	handler := TradeGet(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/trades/x", nil, uuid.New(), uuid.Nil, uuid.Nil)
	req = withTradeIDParam(req, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
