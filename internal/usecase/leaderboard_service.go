package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
)

const defaultPreloadWorkers = 4

type LeaderboardQuery struct {
	CategoryID string
	LevelID    string
	// GameID is optional. When set, the category's variables are returned with the view.
	GameID     string
	Selections speedrun.VariableSelections
}

// LeaderboardView is a filtered leaderboard with resolved runners. Empty is set
// when no run matches the selections. Missing is only used by PreloadGame for
// boards the upstream does not have.
type LeaderboardView struct {
	Key         string
	CategoryID  string
	LevelID     string
	Leaderboard speedrun.Leaderboard
	Variables   []speedrun.Variable
	Runs        []speedrun.ResolvedEntry
	Empty       bool
	Missing     bool
}

type LeaderboardService struct {
	repo           speedrun.Repository
	preloadWorkers int
	logger         *logging.Logger
}

func NewLeaderboardService(repo speedrun.Repository, preloadWorkers int, logger *logging.Logger) *LeaderboardService {
	if preloadWorkers <= 0 {
		preloadWorkers = defaultPreloadWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LeaderboardService{
		repo:           repo,
		preloadWorkers: preloadWorkers,
		logger:         logger,
	}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, query LeaderboardQuery) (LeaderboardView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetLeaderboard", attribute.String("speedrun.category_id", query.CategoryID))
	defer span.End()

	key := speedrun.LeaderboardKey(query.CategoryID, query.LevelID)
	if key == "" {
		return LeaderboardView{}, invalidInputf("category id is required")
	}

	var variables []speedrun.Variable
	if gameID := strings.TrimSpace(query.GameID); gameID != "" {
		game, err := s.getGame(ctx, gameID)
		if err != nil {
			return LeaderboardView{}, err
		}
		category, ok := game.Category(strings.TrimSpace(query.CategoryID))
		if !ok {
			return LeaderboardView{}, notFoundf("category=%s game=%s", query.CategoryID, gameID)
		}
		variables = category.Variables
	}

	view, err := s.loadView(ctx, key, query.Selections)
	if err != nil {
		return LeaderboardView{}, err
	}
	view.CategoryID = strings.TrimSpace(query.CategoryID)
	view.LevelID = strings.TrimSpace(query.LevelID)
	view.Variables = variables

	return view, nil
}

// PreloadGame loads every leaderboard of a game concurrently: one per full-game
// category and one per level of each per-level category. Views keep the game's
// category and level order. A board the upstream does not know is returned with
// Missing set instead of failing the whole preload. The selections are scoped to
// each category's variables before filtering.
func (s *LeaderboardService) PreloadGame(ctx context.Context, gameID string, selections speedrun.VariableSelections) ([]LeaderboardView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.PreloadGame", attribute.String("speedrun.game_id", gameID))
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, invalidInputf("game id is required")
	}

	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	type target struct {
		categoryID string
		levelID    string
		selections speedrun.VariableSelections
		variables  []speedrun.Variable
	}
	targets := make([]target, 0, len(game.Categories))
	for _, category := range game.Categories {
		scoped := selections.Scope(category.Variables)
		if !category.PerLevel() {
			targets = append(targets, target{categoryID: category.ID, selections: scoped, variables: category.Variables})
			continue
		}
		for _, level := range game.Levels {
			targets = append(targets, target{categoryID: category.ID, levelID: level.ID, selections: scoped, variables: category.Variables})
		}
	}

	views := make([]LeaderboardView, len(targets))
	p := pool.New().WithMaxGoroutines(s.preloadWorkers).WithContext(ctx).WithCancelOnError()
	for i, t := range targets {
		p.Go(func(ctx context.Context) error {
			key := speedrun.LeaderboardKey(t.categoryID, t.levelID)
			view, err := s.loadView(ctx, key, t.selections)
			if errors.Is(err, ErrNotFound) {
				view = LeaderboardView{Key: key, Missing: true, Empty: true}
			} else if err != nil {
				return err
			}
			view.CategoryID = t.categoryID
			view.LevelID = t.levelID
			view.Variables = t.variables
			views[i] = view
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("preload game=%s: %w", gameID, err)
	}

	s.logger.DebugContext(ctx, "preloaded game leaderboards", "game_id", gameID, "boards", len(views))
	return views, nil
}

func (s *LeaderboardService) loadView(ctx context.Context, key string, selections speedrun.VariableSelections) (LeaderboardView, error) {
	lb, exists, err := s.repo.GetLeaderboard(ctx, key)
	if err != nil {
		return LeaderboardView{}, fmt.Errorf("get leaderboard %s: %w", key, err)
	}
	if !exists {
		return LeaderboardView{}, notFoundf("leaderboard=%s", key)
	}

	runs := speedrun.ResolveEntries(lb, speedrun.FilterRuns(lb, selections))
	return LeaderboardView{
		Key:         key,
		Leaderboard: lb,
		Runs:        runs,
		Empty:       len(runs) == 0,
	}, nil
}

func (s *LeaderboardService) getGame(ctx context.Context, gameID string) (speedrun.Game, error) {
	games, err := s.repo.GetGames(ctx, []string{gameID})
	if err != nil {
		return speedrun.Game{}, fmt.Errorf("get game: %w", err)
	}
	for _, game := range games {
		if game.ID == gameID {
			return game, nil
		}
	}
	return speedrun.Game{}, notFoundf("game=%s", gameID)
}
