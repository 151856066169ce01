package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/internal/contracts"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
)

type stubCapService struct {
	summary *contracts.CapSummary
	err     error
	year    int
}

func (s *stubCapService) CapSummary(_ context.Context, _ uuid.UUID, year int) (*contracts.CapSummary, error) {
	s.year = year
	return s.summary, s.err
}

func (s *stubCapService) CapRoom(_ context.Context, _ uuid.UUID, _ int) (int64, error) {
	return 0, s.err
}

func withTeamIDParam(req *http.Request, teamID uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("teamId", teamID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTeamCapSummarySuccess(t *testing.T) {
	teamID := uuid.New()
	svc := &stubCapService{summary: &contracts.CapSummary{
		TeamID:               teamID,
		Year:                 2026,
		CapLimitCents:        200_000_000,
		CommittedSalaryCents: 150_000_000,
		CapRoomCents:         50_000_000,
	}}
	handler := TeamCapSummary(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/"+teamID.String()+"/cap?year=2026", nil)
	req = withTeamIDParam(req, teamID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.year != 2026 {
		t.Fatalf("expected year 2026 got %d", svc.year)
	}

	var envelope struct {
		Data contracts.CapSummary `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CapRoomCents != 50_000_000 {
		t.Fatalf("unexpected cap room: %d", envelope.Data.CapRoomCents)
	}
}

func TestTeamCapSummaryRejectsBadYear(t *testing.T) {
	handler := TeamCapSummary(&stubCapService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/x/cap?year=nope", nil)
	req = withTeamIDParam(req, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestTeamCapSummaryNotFound(t *testing.T) {
	handler := TeamCapSummary(&stubCapService{err: pkgerrors.New(pkgerrors.CodeNotFound, "team not found")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/x/cap", nil)
	req = withTeamIDParam(req, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
