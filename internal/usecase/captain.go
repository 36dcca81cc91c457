package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/community-league/internal/domain/team"
)

// requireCaptain returns the team among teamIDs that userID captains.
func requireCaptain(ctx context.Context, teamRepo team.Repository, userID string, teamIDs ...string) (team.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return team.Team{}, fmt.Errorf("%w: captain user id is required", ErrUnauthorized)
	}

	for _, teamID := range teamIDs {
		item, exists, err := teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return team.Team{}, fmt.Errorf("get team by id: %w", err)
		}
		if exists && item.IsCaptain(userID) {
			return item, nil
		}
	}

	return team.Team{}, fmt.Errorf("%w: user=%s does not captain teams %s", ErrForbidden, userID, strings.Join(teamIDs, ","))
}

// captainedTeam returns the first team userID captains anywhere in the league.
func captainedTeam(ctx context.Context, teamRepo team.Repository, userID string) (team.Team, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return team.Team{}, false, nil
	}

	teams, err := teamRepo.List(ctx)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("list teams: %w", err)
	}
	for _, item := range teams {
		if item.IsCaptain(userID) {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}
