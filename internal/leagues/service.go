package leagues

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
)

// Service exposes league settings and membership checks consumed by the
// trade engine.
type Service interface {
	GetLeague(ctx context.Context, leagueID uuid.UUID) (*models.League, error)
	GetTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	IsCommissioner(ctx context.Context, leagueID, teamID uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

// NewService wires a leagues service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leagues repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetLeague(ctx context.Context, leagueID uuid.UUID) (*models.League, error) {
	if leagueID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "league id required")
	}
	league, err := s.repo.FindLeague(ctx, leagueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "league not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load league")
	}
	return league, nil
}

func (s *service) GetTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	if teamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id required")
	}
	team, err := s.repo.FindTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load team")
	}
	return team, nil
}

func (s *service) IsCommissioner(ctx context.Context, leagueID, teamID uuid.UUID) (bool, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return false, err
	}
	if team.LeagueID != leagueID {
		return false, nil
	}
	return team.IsCommissioner, nil
}
