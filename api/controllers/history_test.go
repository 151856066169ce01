package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
)

type stubHistoryService struct {
	records []models.TradeHistoryRecord
	err     error
	limit   int
}

func (s *stubHistoryService) Record(_ context.Context, _ *models.Trade) (*models.TradeHistoryRecord, error) {
	return nil, s.err
}

func (s *stubHistoryService) ListByLeague(_ context.Context, _ uuid.UUID, limit int) ([]models.TradeHistoryRecord, error) {
	s.limit = limit
	return s.records, s.err
}

func withLeagueIDParam(req *http.Request, leagueID uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("leagueId", leagueID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestLeagueTradeHistorySuccess(t *testing.T) {
	leagueID := uuid.New()
	svc := &stubHistoryService{records: []models.TradeHistoryRecord{
		{
			ID:          uuid.New(),
			LeagueID:    leagueID,
			TradeID:     uuid.New(),
			TradeNumber: "26.01",
			Year:        2026,
			TeamAName:   "Gridiron Goats",
			TeamBName:   "Cap Crunchers",
		},
	}}
	handler := LeagueTradeHistory(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/"+leagueID.String()+"/history?limit=10", nil)
	req = withLeagueIDParam(req, leagueID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.limit != 10 {
		t.Fatalf("expected limit 10 got %d", svc.limit)
	}

	var envelope struct {
		Data []tradeHistoryResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].TradeNumber != "26.01" {
		t.Fatalf("unexpected records: %+v", envelope.Data)
	}
}

func TestLeagueTradeHistoryInvalidLeagueID(t *testing.T) {
	handler := LeagueTradeHistory(&stubHistoryService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/nope/history", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("leagueId", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
