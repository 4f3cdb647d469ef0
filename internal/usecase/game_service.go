package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
)

type GameService struct {
	repo speedrun.Repository
}

func NewGameService(repo speedrun.Repository) *GameService {
	return &GameService{repo: repo}
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (speedrun.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return speedrun.Game{}, invalidInputf("game id is required")
	}

	games, err := s.repo.GetGames(ctx, []string{gameID})
	if err != nil {
		return speedrun.Game{}, fmt.Errorf("get games: %w", err)
	}
	for _, game := range games {
		if game.ID == gameID {
			return game, nil
		}
	}

	return speedrun.Game{}, notFoundf("game=%s", gameID)
}
