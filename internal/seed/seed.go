// Package seed populates the user store with a demo user so a fresh
// install has something to plan against.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"showgap/internal/domain"
	"showgap/internal/repository"
)

// timeNow is a variable for testing purposes
var timeNow = time.Now

// DemoUserID is the well-known ID of the seeded demo user
const DemoUserID = "demo-user"

// demoSubscriptions are the streaming subscriptions the demo user holds
var demoSubscriptions = []domain.Subscription{
	{ServiceID: "netflix", MonthlyCost: 15.49, IsActive: true},
	{ServiceID: "max", MonthlyCost: 16.99, IsActive: true},
	{ServiceID: "hulu", MonthlyCost: 9.99, IsActive: false},
}

// demoShows are TMDB show IDs the demo user tracks
var demoShows = []struct {
	ShowID string
	Status domain.WatchStatus
}{
	{"1399", domain.WatchStatusCompleted},  // Game of Thrones
	{"66732", domain.WatchStatusWatching},  // Stranger Things
	{"94997", domain.WatchStatusWatching},  // House of the Dragon
	{"1396", domain.WatchStatusWatchlist},  // Breaking Bad
}

// Seeder handles seeding the store with the demo user's data
type Seeder struct {
	users  repository.UserRepository
	subs   repository.SubscriptionRepository
	states repository.ShowStateRepository
	logger zerolog.Logger
}

// NewSeeder creates a new Seeder instance
func NewSeeder(
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	states repository.ShowStateRepository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		users:  users,
		subs:   subs,
		states: states,
		logger: logger,
	}
}

// SeedResult contains the results of a seeding operation
type SeedResult struct {
	Created       bool
	Subscriptions int
	Shows         int
}

// SeedDemoUser seeds the store with a demo user, their subscriptions,
// and their tracked shows. The operation is idempotent: if the demo
// user already exists nothing is written.
func (s *Seeder) SeedDemoUser(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}

	_, err := s.users.GetByID(ctx, DemoUserID)
	if err == nil {
		s.logger.Debug().Str("user_id", DemoUserID).Msg("demo user already exists, skipping seed")
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for demo user: %w", err)
	}

	user := &repository.User{
		ID:      DemoUserID,
		Email:   "demo@example.com",
		Country: "US",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}
	result.Created = true

	// Subscriptions started three months ago so binge grace windows
	// from older premieres fall inside the coverage period
	start := timeNow().AddDate(0, -3, 0)
	for _, sub := range demoSubscriptions {
		sub.UserID = DemoUserID
		sub.StartDate = start
		if !sub.IsActive {
			end := timeNow().AddDate(0, -1, 0)
			sub.EndDate = &end
		}
		if err := s.subs.Upsert(ctx, &sub); err != nil {
			return nil, fmt.Errorf("failed to seed subscription %s: %w", sub.ServiceID, err)
		}
		result.Subscriptions++
	}

	for _, show := range demoShows {
		state := &domain.UserShowState{
			UserID:      DemoUserID,
			ShowID:      show.ShowID,
			WatchStatus: show.Status,
		}
		if err := s.states.Upsert(ctx, state); err != nil {
			return nil, fmt.Errorf("failed to seed show state %s: %w", show.ShowID, err)
		}
		result.Shows++
	}

	s.logger.Info().
		Int("subscriptions", result.Subscriptions).
		Int("shows", result.Shows).
		Msg("seeded demo user")

	return result, nil
}
