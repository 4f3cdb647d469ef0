package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/speedrun-browser/internal/domain/personalbest"
	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
)

// AssetPrefetcher warms image downloads in the background.
type AssetPrefetcher interface {
	PrefetchAsync(ctx context.Context, uris []string)
}

type noopAssetPrefetcher struct{}

func (noopAssetPrefetcher) PrefetchAsync(_ context.Context, _ []string) {}

// PersonalBestsView is a runner's profile with their bests grouped per game.
// Guests have no bests and get no sections.
type PersonalBestsView struct {
	Player    speedrun.User
	AvatarURL string
	Sections  []personalbest.Section
}

type PlayerService struct {
	repo       speedrun.Repository
	prefetcher AssetPrefetcher
}

func NewPlayerService(repo speedrun.Repository, prefetcher AssetPrefetcher) *PlayerService {
	if prefetcher == nil {
		prefetcher = noopAssetPrefetcher{}
	}

	return &PlayerService{
		repo:       repo,
		prefetcher: prefetcher,
	}
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (speedrun.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return speedrun.User{}, invalidInputf("player id is required")
	}

	users, err := s.repo.GetUsers(ctx, []string{playerID})
	if err != nil {
		return speedrun.User{}, fmt.Errorf("get users: %w", err)
	}
	for _, user := range users {
		if user.ID == playerID {
			return user, nil
		}
	}

	return speedrun.User{}, notFoundf("player=%s", playerID)
}

// GetPlayers returns the known players in request order. Unknown and duplicate
// ids are skipped.
func (s *PlayerService) GetPlayers(ctx context.Context, playerIDs []string) ([]speedrun.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayers")
	defer span.End()

	ids := uniqueTrimmed(playerIDs)
	if len(ids) == 0 {
		return nil, invalidInputf("at least one player id is required")
	}

	users, err := s.repo.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}

	byID := speedrun.NewPlayerDirectory(users)
	out := make([]speedrun.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (s *PlayerService) GetPersonalBests(ctx context.Context, playerID string) (PersonalBestsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPersonalBests")
	defer span.End()

	user, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return PersonalBestsView{}, err
	}

	view := PersonalBestsView{Player: user}
	if avatar, ok := user.AvatarURL(); ok {
		view.AvatarURL = avatar
	}
	if user.IsGuest() {
		return view, nil
	}

	view.Sections = personalbest.BuildView(user.Bests)
	if uris := personalbest.AssetURIs(view.Sections); len(uris) > 0 {
		s.prefetcher.PrefetchAsync(ctx, uris)
	}

	return view, nil
}

func uniqueTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
